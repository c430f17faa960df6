package server

import (
	"html/template"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/colonyops/noticeboard/internal/core/auth"
	"github.com/colonyops/noticeboard/internal/core/logging"
	"github.com/colonyops/noticeboard/internal/core/notice"
)

// DefaultScreen is the screen id used when the request names none.
const DefaultScreen = "dashboard"

// pageTemplate is the minimal dashboard shell. The host application this
// stands in for would bring its own chrome; notices are injected as-is.
const pageTemplate = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Dashboard</title></head>
<body>
<h1>{{.Screen}}</h1>
{{.Notices}}
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// registration couples a notice registry with the directory that resolves
// its viewers. Both are swapped together on config reload.
type registration struct {
	registry  *notice.Registry
	directory *auth.Directory
}

// Handler serves the dashboard shell and the dismiss endpoint. The active
// registry and directory are swappable at runtime for config reload.
type Handler struct {
	state  atomic.Pointer[registration]
	limits *actorLimiter
	log    zerolog.Logger
}

// NewHandler creates a handler serving the given registry and directory.
// rate and burst bound dismiss requests per actor; rate <= 0 disables
// limiting.
func NewHandler(registry *notice.Registry, directory *auth.Directory, rate float64, burst int) *Handler {
	h := &Handler{
		limits: newActorLimiter(rate, burst),
		log:    logging.Component("server"),
	}
	h.Swap(registry, directory)
	return h
}

// Swap atomically replaces the active registry and directory.
func (h *Handler) Swap(registry *notice.Registry, directory *auth.Directory) {
	h.state.Store(&registration{registry: registry, directory: directory})
}

// Routes returns the handler's route mux wrapped with request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /admin", h.handleAdmin)
	mux.HandleFunc("GET /admin/{screen...}", h.handleAdmin)
	mux.HandleFunc("POST /admin/dismiss", h.handleDismiss)

	return requestLogger(mux)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleAdmin renders the dashboard shell for the requested screen with
// every notice that passes its gates for the requesting actor.
func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	state := h.state.Load()
	actor := state.directory.Resolve(actorID(r))
	screen := currentScreen(r)

	notices := state.registry.RenderAll(r.Context(), actor, screen)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTmpl.Execute(w, struct {
		Screen  string
		Notices template.HTML
	}{
		Screen:  screen,
		Notices: template.HTML(notices),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to render dashboard page")
	}
}

// handleDismiss decodes the form-encoded dismiss request and hands it to the
// registry. The response is always 204: the client fires and forgets, and
// every failure mode is a silent no-op.
func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusNoContent)

	id := actorID(r)
	if !h.limits.allow(id) {
		h.log.Debug().Str("actor", id).Msg("dismiss request throttled")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.log.Debug().Err(err).Msg("malformed dismiss request")
		return
	}

	state := h.state.Load()
	state.registry.Dismiss(r.Context(), notice.DismissRequest{
		Action: r.PostFormValue("action"),
		ID:     r.PostFormValue("id"),
		Nonce:  r.PostFormValue("nonce"),
		Actor:  state.directory.Resolve(id),
	})
}

// actorID extracts the already-authenticated actor identity. Authentication
// itself is the upstream proxy's job.
func actorID(r *http.Request) string {
	return r.Header.Get("X-Actor")
}

// currentScreen resolves the screen id from the request path.
func currentScreen(r *http.Request) string {
	screen := strings.Trim(r.PathValue("screen"), "/")
	if screen == "" {
		return DefaultScreen
	}
	return screen
}
