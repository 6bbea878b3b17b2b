package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every route of the dev server. The session endpoint is the
// only unauthenticated one.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(attachRequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/session", handler.SignIn)

	r.Group(func(r chi.Router) {
		r.Use(handler.requireAuth)

		r.Get("/detailUser", handler.DetailUser)

		r.Get("/listCategory", handler.ListCategories)
		r.Post("/category", handler.CreateCategory)

		r.Get("/category/product", handler.ListProducts)
		r.Post("/product", handler.CreateProduct)

		r.Get("/orders", handler.ListOrders)
		r.Get("/order/detail", handler.OrderDetail)
		r.Post("/order", handler.CreateOrder)
		r.Post("/order/add", handler.AddItem)
		r.Put("/order/update", handler.UpdateItem)
		r.Put("/order/send", handler.SendOrder)
		r.Put("/order/finish", handler.FinishOrder)
		r.Delete("/order/delete", handler.Delete)
	})

	return r
}
