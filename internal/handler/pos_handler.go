package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakepos/server/internal/model"
)

type cartResponse struct {
	Lines      []model.CartLine `json:"lines"`
	Subtotal   float64          `json:"subtotal"`
	GrandTotal float64          `json:"grandTotal"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r)
	totals := h.carts.Totals(sess.UserID)
	writeJSON(w, http.StatusOK, cartResponse{
		Lines:      h.carts.Lines(sess.UserID),
		Subtotal:   totals.Subtotal,
		GrandTotal: totals.GrandTotal,
	})
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	product, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sess, _ := sessionFrom(r)
	h.carts.Add(sess.UserID, product)
	h.GetCart(w, r)
}

func (h *Handler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, _ := sessionFrom(r)
	h.carts.SetQuantity(sess.UserID, chi.URLParam(r, "productID"), req.Quantity)
	h.GetCart(w, r)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r)
	h.carts.Remove(sess.UserID, chi.URLParam(r, "productID"))
	h.GetCart(w, r)
}

type checkoutRequest struct {
	PaymentAmount *float64 `json:"paymentAmount"`
	PaymentMethod string   `json:"paymentMethod"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PaymentAmount == nil {
		writeError(w, http.StatusBadRequest, "paymentAmount is required")
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "Cash"
	}

	sess, _ := sessionFrom(r)
	order, err := h.checkout.Checkout(r.Context(), sess.UserID, *req.PaymentAmount, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
