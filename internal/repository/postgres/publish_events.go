package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

type publishEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPublishEventRepository creates a new publish event repository
func NewPublishEventRepository(db *sql.DB, logger *zap.Logger) *publishEventRepository {
	return &publishEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *publishEventRepository) Create(ctx context.Context, event *domain.PublishEvent) error {
	query := `
		INSERT INTO publish_events (id, run_id, product_id, sku, status, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	var outcomeJSON []byte
	var err error
	if event.Outcome != nil {
		outcomeJSON, err = json.Marshal(event.Outcome)
		if err != nil {
			return err
		}
	}

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.RunID,
		event.ProductID,
		event.SKU,
		event.Status,
		outcomeJSON,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create publish event", zap.Error(err))
		return err
	}

	return nil
}

func (r *publishEventRepository) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.PublishEvent, error) {
	query := `
		SELECT id, run_id, product_id, sku, status, outcome, created_at
		FROM publish_events
		WHERE run_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		r.logger.Error("Failed to get publish events by run ID", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*domain.PublishEvent
	for rows.Next() {
		var event domain.PublishEvent
		var sku sql.NullString
		var outcomeJSON []byte

		if err := rows.Scan(
			&event.ID,
			&event.RunID,
			&event.ProductID,
			&sku,
			&event.Status,
			&outcomeJSON,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		event.SKU = sku.String

		if len(outcomeJSON) > 0 {
			if err := json.Unmarshal(outcomeJSON, &event.Outcome); err != nil {
				return nil, err
			}
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}
