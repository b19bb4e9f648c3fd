package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Create(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "cid"))
	if err != nil {
		// A non-numeric id can never match a cart.
		respondError(w, http.StatusNotFound, "cart not found")
		return
	}

	c, err := h.carts.GetByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) addProductToCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := strconv.Atoi(chi.URLParam(r, "cid"))
	if err != nil {
		respondError(w, http.StatusNotFound, "cart not found")
		return
	}

	productID, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	c, err := h.carts.AddProduct(r.Context(), cartID, productID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
