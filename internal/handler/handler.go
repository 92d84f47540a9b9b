package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bakepos/server/internal/metrics"
	"github.com/bakepos/server/internal/model"
	"github.com/bakepos/server/internal/service"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
}

type Handler struct {
	router *chi.Mux

	auth     *service.AuthService
	catalog  *service.CatalogService
	carts    *service.CartManager
	checkout *service.CheckoutService
	reports  *service.ReportService
	uploader Uploader
}

func NewHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	carts *service.CartManager,
	checkout *service.CheckoutService,
	reports *service.ReportService,
	uploader Uploader,
	m *metrics.ServerMetrics,
) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	if m != nil {
		router.Use(m.Middleware)
	}

	h := &Handler{
		router:   router,
		auth:     auth,
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		reports:  reports,
		uploader: uploader,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Get("/metrics", metrics.Handler().ServeHTTP)

	h.router.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/catalog/products", h.ListProducts)
			r.Get("/catalog/categories", h.ListCategories)

			r.Get("/pos/cart", h.GetCart)
			r.Post("/pos/cart/items", h.AddCartItem)
			r.Put("/pos/cart/items/{productID}", h.SetCartItemQuantity)
			r.Delete("/pos/cart/items/{productID}", h.RemoveCartItem)
			r.Post("/pos/checkout", h.Checkout)

			r.Get("/orders", h.ListOrders)
			r.Get("/reports/sales", h.SalesReport)
			r.Get("/reports/summary", h.SalesSummary)
			r.Get("/reports/income", h.Income)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)

				r.Post("/catalog/products", h.CreateProduct)
				r.Patch("/catalog/products/{id}", h.UpdateProduct)
				r.Delete("/catalog/products/{id}", h.DeleteProduct)

				r.Post("/catalog/categories", h.CreateCategory)
				r.Patch("/catalog/categories/{id}", h.UpdateCategory)
				r.Delete("/catalog/categories/{id}", h.DeleteCategory)

				r.Post("/staff", h.CreateStaff)
				r.Get("/staff", h.ListStaff)
				r.Patch("/staff/{id}", h.UpdateStaffStatus)

				r.Delete("/orders/{id}", h.DeleteOrder)
			})
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type sessionKey struct{}

// requireSession parses the bearer token and loads the session into the
// request context.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sess, err := h.auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFrom(r)
		if !ok || !sess.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(r *http.Request) (model.Session, bool) {
	sess, ok := r.Context().Value(sessionKey{}).(model.Session)
	return sess, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var shortfall *service.StockShortfallError
	var missing *service.ProductNotFoundError

	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &missing):
		writeError(w, http.StatusNotFound, missing.Error())
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInsufficientPayment):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &shortfall):
		writeError(w, http.StatusConflict, shortfall.Error())
	case errors.Is(err, service.ErrCategoryInUse),
		errors.Is(err, service.ErrProductInUse),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAccountInactive):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
