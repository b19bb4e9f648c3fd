package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	// An absent or malformed limit means the full catalog.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.products.List(r.Context(), limit)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		// A non-numeric id can never match a product.
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read body")
		return
	}

	draft, err := decodeDraft(body, false)
	if err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if err := draft.Validate(); err != nil {
		respondStoreError(w, r, err)
		return
	}

	p, err := h.products.Create(r.Context(), draft)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) upsertProduct(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read body")
		return
	}

	draft, err := decodeDraft(body, true)
	if err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if err := draft.Validate(); err != nil {
		respondStoreError(w, r, err)
		return
	}

	p, err := h.products.Upsert(r.Context(), draft)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read body")
		return
	}

	patch, err := decodePatch(body)
	if err != nil {
		respondDecodeError(w, r, err)
		return
	}

	p, err := h.products.Update(r.Context(), id, patch)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	deleted, err := h.products.Delete(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
