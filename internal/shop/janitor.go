package shop

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const janitorSchedule = "@every 1m"

// Janitor evicts orders older than the retention window so the registry
// stays bounded.
type Janitor struct {
	registry  *Registry
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

func NewJanitor(registry *Registry, retention time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		registry:  registry,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With("component", "order-janitor"),
		now:       time.Now,
	}
}

func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(janitorSchedule, j.sweep); err != nil {
		return fmt.Errorf("schedule order janitor: %w", err)
	}
	j.cron.Start()
	j.logger.Info("order janitor started", "schedule", janitorSchedule, "retention", j.retention)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) sweep() {
	removed := j.registry.Prune(j.now().Add(-j.retention))
	if removed > 0 {
		j.logger.Info("evicted expired orders", "count", removed, "remaining", j.registry.Len())
	}
}
