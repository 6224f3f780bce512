// Package shop is the customer-facing side: it accepts brew orders and hands
// them off for dispatch to the barista.
package shop

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

// Dispatcher hands an accepted order to the barista. It must not block on
// the outbound call.
type Dispatcher interface {
	Dispatch(ctx context.Context, order domain.CoffeeBrew)
}

type Handler struct {
	registry   *Registry
	dispatcher Dispatcher
	basePath   string
	logger     *slog.Logger
	accepted   metric.Int64Counter
}

func NewHandler(registry *Registry, dispatcher Dispatcher, basePath string, logger *slog.Logger) *Handler {
	accepted, err := otel.Meter("github.com/joao-fontenele/coffeeshop/internal/shop").Int64Counter(
		"shop.orders.accepted",
		metric.WithDescription("Brew orders accepted by the shop"),
	)
	if err != nil {
		logger.Error("failed to create orders counter", "error", err)
	}

	return &Handler{
		registry:   registry,
		dispatcher: dispatcher,
		basePath:   basePath,
		logger:     logger,
		accepted:   accepted,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/brews", h.HandleCreate)
	r.Get("/brews", h.HandleList)
	r.Get("/brews/{id}", h.HandleGet)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.BrewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coffeeType, err := domain.ParseCoffeeType(req.Type)
	if err != nil {
		h.logger.InfoContext(r.Context(), "brew order rejected", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := domain.NewCoffeeBrew(uuid.NewString(), coffeeType, time.Now().UTC())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.registry.Add(*order)
	h.dispatcher.Dispatch(r.Context(), *order)

	if h.accepted != nil {
		h.accepted.Add(r.Context(), 1, metric.WithAttributes(attribute.String("coffee.type", coffeeType.Wire())))
	}
	h.logger.InfoContext(r.Context(), "brew order accepted", "order_id", order.ID, "type", order.Type)
	h.writeJSON(w, http.StatusAccepted, h.represent(r, *order))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.registry.Get(id)
	if errors.Is(err, ErrOrderNotFound) {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, h.represent(r, order))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders := h.registry.List()
	for i := range orders {
		orders[i] = h.represent(r, orders[i])
	}

	h.logger.InfoContext(r.Context(), "orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) represent(r *http.Request, order domain.CoffeeBrew) domain.CoffeeBrew {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	order.Self = scheme + "://" + r.Host + h.basePath + "/brews/" + order.ID
	return order
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
