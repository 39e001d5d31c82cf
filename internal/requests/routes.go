package requests

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra el recurso /request en el router.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/request", func(route chi.Router) {
		route.Get("/", handler.List)
		route.Post("/", handler.Save)
		route.Delete("/{id}", handler.Delete)
	})
}
