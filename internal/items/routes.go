package items

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra rutas de items en el router.
// Mantener esto separado hace que main.go no crezca sin control.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Post("/items", handler.Create)
	route.Get("/items", handler.List)
	route.Get("/items/{item_id}", handler.GetByID)
	route.Put("/items/{item_id}", handler.Update)
	route.Delete("/items/{item_id}", handler.Delete)
}
