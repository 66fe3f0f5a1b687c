package api

import (
	"net/http"

	"github.com/JaimeStill/clausewise/pkg/identity"
	"github.com/JaimeStill/clausewise/pkg/routes"
)

// registerRoutes mounts every domain group behind owner resolution.
func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	routes.Register(mux, routes.Group{
		Middleware: []func(http.Handler) http.Handler{
			identity.Middleware(runtime.Identity, runtime.Logger),
		},
		Children: []routes.Group{
			domain.Analyses.Handler(runtime.MaxUploadSize).Routes(),
			domain.Subscriptions.Handler().Routes(),
		},
	})
}
