package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

type publishEventRepository struct {
	client *supabase.Client
	table  string
	logger *zap.Logger
}

// NewPublishEventRepository creates a publish event repository over a PostgREST table
func NewPublishEventRepository(client *supabase.Client, table string, logger *zap.Logger) *publishEventRepository {
	return &publishEventRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func (r *publishEventRepository) Create(ctx context.Context, event *domain.PublishEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, _, err := r.client.From(r.table).
		Insert(event, false, "", "minimal", "").
		Execute()
	if err != nil {
		r.logger.Error("Failed to create publish event", zap.Error(err))
		return err
	}
	return nil
}

func (r *publishEventRepository) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.PublishEvent, error) {
	data, _, err := r.client.From(r.table).
		Select("*", "", false).
		Eq("run_id", runID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		r.logger.Error("Failed to get publish events by run ID", zap.Error(err))
		return nil, err
	}

	var events []*domain.PublishEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode publish events: %w", err)
	}
	return events, nil
}
