package barista

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

// ErrBrewNotInProgress is returned when finishing a brew that is unknown or
// already finished.
var ErrBrewNotInProgress = errors.New("brew not in progress")

// BrewRepository is the Postgres brew journal.
type BrewRepository struct {
	db *sql.DB
}

func NewBrewRepository(db *sql.DB) *BrewRepository {
	return &BrewRepository{db: db}
}

func (r *BrewRepository) Record(ctx context.Context, brew domain.CoffeeBrew) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO brews (id, coffee_type, status, started_at)
		VALUES ($1, $2, $3, $4)
	`, brew.ID, brew.Type, brew.Status, brew.CreatedAt)
	return err
}

func (r *BrewRepository) Finish(ctx context.Context, id string, finishedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE brews
		SET status = $2, finished_at = $3
		WHERE id = $1 AND status = $4
	`, id, domain.OrderStatusFinished, finishedAt, domain.OrderStatusInProgress)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBrewNotInProgress
	}

	return nil
}

func (r *BrewRepository) GetByID(ctx context.Context, id string) (*domain.CoffeeBrew, error) {
	brew := &domain.CoffeeBrew{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, coffee_type, status, started_at
		FROM brews
		WHERE id = $1
	`, id).Scan(&brew.ID, &brew.Type, &brew.Status, &brew.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return brew, nil
}

func (r *BrewRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
