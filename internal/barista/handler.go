// Package barista is the brewing side: it accepts brew requests from the
// shop and starts them.
package barista

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

type Brewer interface {
	StartBrew(ctx context.Context, coffeeType domain.CoffeeType) (domain.CoffeeBrew, error)
}

type Handler struct {
	brewer Brewer
	logger *slog.Logger
}

func NewHandler(brewer Brewer, logger *slog.Logger) *Handler {
	return &Handler{
		brewer: brewer,
		logger: logger,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/brews", h.HandleStartBrew)
}

type brewResponse struct {
	ID     string             `json:"id"`
	Type   domain.CoffeeType  `json:"type"`
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleStartBrew(w http.ResponseWriter, r *http.Request) {
	var req domain.BrewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coffeeType, err := domain.ParseCoffeeType(req.Type)
	if err != nil {
		h.logger.InfoContext(r.Context(), "brew request rejected", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	brew, err := h.brewer.StartBrew(r.Context(), coffeeType)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to start brew", "error", err, "type", coffeeType)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, brewResponse{ID: brew.ID, Type: brew.Type, Status: brew.Status})
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
