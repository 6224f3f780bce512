// Package worker finishes brews queued by the barista.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/coffeeshop/internal/barista"
	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

// Finisher marks a journaled brew as finished.
type Finisher interface {
	Finish(ctx context.Context, id string, finishedAt time.Time) error
}

type BrewHandler struct {
	finisher     Finisher
	brewDuration time.Duration
	logger       *slog.Logger
	finished     metric.Int64Counter
	now          func() time.Time
}

// NewBrewHandler returns a handler that waits brewDuration per brew. A nil
// finisher only logs completion.
func NewBrewHandler(finisher Finisher, brewDuration time.Duration, logger *slog.Logger) *BrewHandler {
	finished, err := otel.Meter("github.com/joao-fontenele/coffeeshop/internal/worker").Int64Counter(
		"barista.brews.finished",
		metric.WithDescription("Brews finished by the brew worker"),
	)
	if err != nil {
		logger.Error("failed to create brews counter", "error", err)
	}

	return &BrewHandler{
		finisher:     finisher,
		brewDuration: brewDuration,
		logger:       logger,
		finished:     finished,
		now:          time.Now,
	}
}

func (h *BrewHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.BrewStartedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal brew started event: %w", err)
	}
	if event.BrewID == "" {
		return errors.New("brew started event without brew id")
	}

	h.logger.InfoContext(ctx, "brewing", "brew_id", event.BrewID, "type", event.Type)

	timer := time.NewTimer(h.brewDuration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	if h.finisher != nil {
		err := h.finisher.Finish(ctx, event.BrewID, h.now().UTC())
		if errors.Is(err, barista.ErrBrewNotInProgress) {
			h.logger.WarnContext(ctx, "brew already finished or unknown", "brew_id", event.BrewID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("finish brew %s: %w", event.BrewID, err)
		}
	}

	if h.finished != nil {
		h.finished.Add(ctx, 1, metric.WithAttributes(attribute.String("coffee.type", event.Type.Wire())))
	}
	h.logger.InfoContext(ctx, "brew finished", "brew_id", event.BrewID, "type", event.Type)
	return nil
}
