package notice

import (
	"context"
	"strings"
)

// Registry holds every registered notice controller. It is built once at
// startup and read-only afterward; the server swaps the whole registry on
// config reload rather than mutating it.
type Registry struct {
	controllers []*Controller
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a controller to the registry. Disabled controllers are
// registered too; all of their operations are no-ops.
func (r *Registry) Register(c *Controller) {
	r.controllers = append(r.controllers, c)
}

// Controllers returns all registered controllers in registration order.
func (r *Registry) Controllers() []*Controller {
	return r.controllers
}

// Len returns the number of registered controllers.
func (r *Registry) Len() int {
	return len(r.controllers)
}

// RenderAll renders every notice that should render for the actor on the
// given screen, concatenated in registration order.
func (r *Registry) RenderAll(ctx context.Context, actor Actor, screen string) string {
	var b strings.Builder
	for _, c := range r.controllers {
		if markup := c.Render(ctx, actor, screen); markup != "" {
			b.WriteString(markup)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Dismiss fans a dismiss request out to every registered controller. Each
// controller validates the request itself; at most the one whose id matches
// reacts, the rest treat it as a no-op.
func (r *Registry) Dismiss(ctx context.Context, req DismissRequest) {
	for _, c := range r.controllers {
		c.HandleDismiss(ctx, req)
	}
}
