package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

type Deps struct {
	Handler          *Handler
	Live             http.Handler
	Logger           *zap.Logger
	CORSAllowOrigins []string
}

func NewRouter(d Deps) http.Handler {
	h := d.Handler

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recover(d.Logger))
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORS(d.CORSAllowOrigins))
	r.Use(middleware.Trace)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{productId}", h.UpdateItem)
			r.Delete("/items/{productId}", h.RemoveItem)
			r.Post("/checkout", h.Checkout)
		})

		r.Post("/offers", h.StartOffer)
	})

	if d.Live != nil {
		r.Get("/ws", d.Live.ServeHTTP)
	}

	return r
}
