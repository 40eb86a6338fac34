// Package httpapi exposes the storefront session over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/render"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

const (
	msgEmptyCart       = "El carrito está vacío"
	msgProductNotFound = "product not found"
	msgInvalidJSON     = "invalid json"
	msgInvalidQuantity = "quantity must be at least 1"
)

// Session is the part of storefront.Session the handlers use.
type Session interface {
	Products(q catalog.Query) []render.ProductView
	Product(id string) (render.ProductInfo, error)
	Categories() []render.CategoryView
	Cart() render.CartView
	AddItem(id string, quantity int) (render.CartView, error)
	UpdateQuantity(id string, quantity int) (render.CartView, error)
	RemoveItem(id string) render.CartView
	Checkout(ctx context.Context) (storefront.CheckoutResult, error)
	StartOffer() storefront.OfferResult
}

type Handler struct {
	session Session
	service string
}

func NewHandler(session Session, service string) *Handler {
	return &Handler{session: session, service: service}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": h.service})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.session.Products(catalog.Query{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Sort:     catalog.SortOrder(q.Get("sort")),
	}))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	info, err := h.session.Product(chi.URLParam(r, "id"))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Categories())
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Cart())
}

type addItemRequest struct {
	ProductID json.Number `json:"productId"`
	Quantity  *int        `json:"quantity"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}
	if quantity < 1 {
		writeError(w, r, http.StatusBadRequest, msgInvalidQuantity)
		return
	}

	view, err := h.session.AddItem(body.ProductID.String(), quantity)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if body.Quantity < 1 {
		writeError(w, r, http.StatusBadRequest, msgInvalidQuantity)
		return
	}

	view, err := h.session.UpdateQuantity(chi.URLParam(r, "productId"), body.Quantity)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.RemoveItem(chi.URLParam(r, "productId")))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	res, err := h.session.Checkout(r.Context())
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) StartOffer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.StartOffer())
}

func (h *Handler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		writeError(w, r, http.StatusNotFound, msgProductNotFound)
	case errors.Is(err, cart.ErrEmptyCart):
		writeError(w, r, http.StatusConflict, msgEmptyCart)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

type errorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}
