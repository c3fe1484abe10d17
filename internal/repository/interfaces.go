package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

// ProductRepository defines local product data access methods
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.LocalProduct, error)
	List(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error)
	Update(ctx context.Context, id string, update domain.ProductUpdate) error
}

// PublishEventRepository stores the audit trail of publish runs
type PublishEventRepository interface {
	Create(ctx context.Context, event *domain.PublishEvent) error
	ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.PublishEvent, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	Product      ProductRepository
	PublishEvent PublishEventRepository
}
