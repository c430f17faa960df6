package notice

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// noticeTemplate produces the notice container, the verbatim content, and,
// for dismissible notices, the dismiss button plus the inline script that
// posts the fire-and-forget dismiss request once the page has loaded.
const noticeTemplate = `<div id="notice-{{.ID}}" class="notice notice-{{.Style}}{{if .Dismissible}} is-dismissible{{end}}">
{{.Content}}
{{- if .Dismissible}}
<button type="button" class="notice-dismiss"><span class="screen-reader-text">Dismiss this notice.</span></button>
<script>
window.addEventListener("load", function () {
	var notice = document.getElementById("notice-{{.ID}}");
	if (notice === null) {
		return;
	}
	notice.querySelector(".notice-dismiss").addEventListener("click", function () {
		notice.parentNode.removeChild(notice);
		fetch({{.Endpoint}}, {
			method: "POST",
			headers: { "Content-Type": "application/x-www-form-urlencoded" },
			body: "id={{.QueryID}}&action={{.Action}}&nonce={{.Nonce}}",
			keepalive: true
		});
	});
});
</script>
{{- end}}
</div>`

var noticeTmpl = template.Must(template.New("notice").Parse(noticeTemplate))

// templateData carries the escaped interpolation values for a single render.
// Content is intentionally injected verbatim; everything else goes through
// html/template's contextual escaping.
type templateData struct {
	ID          string
	QueryID     string
	Style       Style
	Dismissible bool
	Content     template.HTML
	Endpoint    string
	Action      string
	Nonce       string
}

// renderMarkup executes the notice template with a freshly minted
// anti-forgery token for the viewing actor.
func (c *Controller) renderMarkup(actor Actor) (string, error) {
	data := templateData{
		ID:          c.cfg.ID,
		QueryID:     url.QueryEscape(c.cfg.ID),
		Style:       c.cfg.Style,
		Dismissible: c.cfg.Dismissible,
		Content:     c.cfg.Content,
		Endpoint:    c.cfg.Endpoint,
		Action:      DismissAction,
		Nonce:       url.QueryEscape(c.tokens.Mint(c.cfg.NonceScope(), actor.ID)),
	}

	var b strings.Builder
	if err := noticeTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute notice template %q: %w", c.cfg.ID, err)
	}

	return b.String(), nil
}
