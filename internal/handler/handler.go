// Package handler exposes the catalog and cart stores over HTTP,
// translating store results and errors into JSON responses.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nmoroz/shopfile/internal/domain/cart"
	"github.com/nmoroz/shopfile/internal/domain/product"
	"github.com/nmoroz/shopfile/internal/storage/jsonfile"
)

// Handler routes API requests to the injected repositories. Stores are
// constructed once at process start and passed in; there are no
// package-level singletons.
type Handler struct {
	products product.Repository
	carts    cart.Repository
}

// New constructs a Handler with the required repositories.
func New(products product.Repository, carts cart.Repository) *Handler {
	return &Handler{
		products: products,
		carts:    carts,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Put("/", h.upsertProduct)
		r.Get("/{pid}", h.getProduct)
		r.Put("/{pid}", h.updateProduct)
		r.Delete("/{pid}", h.deleteProduct)
	})

	r.Route("/carts", func(r chi.Router) {
		r.Post("/", h.createCart)
		r.Get("/{cid}", h.getCart)
		r.Post("/{cid}/product/{pid}", h.addProductToCart)
	})

	return r
}

// respondStoreError maps a store error onto an HTTP response. Entity
// and validation errors become client responses; a StorageError means
// the backing document is broken and surfaces as a 500.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		respondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, cart.ErrNotFound):
		respondError(w, http.StatusNotFound, "cart not found")
	case errors.Is(err, product.ErrImmutableID):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		var missingErr *product.MissingFieldError
		if errors.As(err, &missingErr) {
			respondError(w, http.StatusBadRequest, missingErr.Error())
			return
		}

		var storageErr *jsonfile.StorageError
		if errors.As(err, &storageErr) {
			zctx.From(r.Context()).Error("storage failure",
				zap.String("op", storageErr.Op),
				zap.String("path", storageErr.Path),
				zap.Error(storageErr.Err),
			)
			respondError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		zctx.From(r.Context()).Error("unexpected error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
