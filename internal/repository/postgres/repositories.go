package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &repository.Repositories{
		Product:      NewProductRepository(db, logger),
		PublishEvent: NewPublishEventRepository(db, logger),
	}
}
