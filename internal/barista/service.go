package barista

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

// Journal durably records started brews.
type Journal interface {
	Record(ctx context.Context, brew domain.CoffeeBrew) error
}

// Publisher queues started brews for the brew worker.
type Publisher interface {
	PublishBrewStarted(ctx context.Context, event domain.BrewStartedEvent) error
}

// Service starts brews. Both collaborators are optional; without them a
// brew start is only logged and counted.
type Service struct {
	journal   Journal
	publisher Publisher
	logger    *slog.Logger
	started   metric.Int64Counter
	now       func() time.Time
}

func NewService(journal Journal, publisher Publisher, logger *slog.Logger) *Service {
	started, err := otel.Meter("github.com/joao-fontenele/coffeeshop/internal/barista").Int64Counter(
		"barista.brews.started",
		metric.WithDescription("Brews started by the barista"),
	)
	if err != nil {
		logger.Error("failed to create brews counter", "error", err)
	}

	return &Service{
		journal:   journal,
		publisher: publisher,
		logger:    logger,
		started:   started,
		now:       time.Now,
	}
}

func (s *Service) StartBrew(ctx context.Context, coffeeType domain.CoffeeType) (domain.CoffeeBrew, error) {
	brew, err := domain.NewCoffeeBrew(uuid.NewString(), coffeeType, s.now().UTC())
	if err != nil {
		return domain.CoffeeBrew{}, err
	}
	if err := brew.Advance(domain.OrderStatusInProgress); err != nil {
		return domain.CoffeeBrew{}, err
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, *brew); err != nil {
			return domain.CoffeeBrew{}, fmt.Errorf("record brew: %w", err)
		}
	}

	if s.publisher != nil {
		event := domain.BrewStartedEvent{
			BrewID:    brew.ID,
			Type:      brew.Type,
			Timestamp: brew.CreatedAt,
		}
		if err := s.publisher.PublishBrewStarted(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish brew started event", "error", err, "brew_id", brew.ID)
		}
	}

	if s.started != nil {
		s.started.Add(ctx, 1, metric.WithAttributes(attribute.String("coffee.type", coffeeType.Wire())))
	}
	s.logger.InfoContext(ctx, "brew started", "brew_id", brew.ID, "type", brew.Type)

	return *brew, nil
}
