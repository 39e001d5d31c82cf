package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /docs (redirige a /docs/), la Swagger UI y /docs/openapi.yaml.
// Las rutas van planas: un subrouter en /docs también tomaría /docs y pisaría la redirección.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/", http.StatusMovedPermanently)
	})
	r.Get("/docs/", SwaggerUIHandler())
	r.Get("/docs/openapi.yaml", OpenAPIHandler())
}
