package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/repository"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

type productRepository struct {
	client *supabase.Client
	table  string
	logger *zap.Logger
}

// NewProductRepository creates a product repository over a PostgREST table
func NewProductRepository(client *supabase.Client, table string, logger *zap.Logger) *productRepository {
	return &productRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.LocalProduct, error) {
	data, _, err := r.client.From(r.table).
		Select("*", "", false).
		Eq("id", id).
		Limit(1, "").
		Execute()
	if err != nil {
		r.logger.Error("Failed to get product by ID", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}

	products, err := decodeProducts(data)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id}
	}
	return products[0], nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	filter = filter.Normalize()

	query := r.client.From(r.table).Select("*", "exact", false)
	if filter.ActiveOnly {
		query = query.Eq("is_active", "true")
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Eq("category", category)
	}
	if search := searchTerm(filter.Search); search != "" {
		query = query.Or(fmt.Sprintf("product_name.ilike.*%s*,sku.ilike.*%s*", search, search), "")
	}

	from := filter.Offset()
	data, total, err := query.
		Order("id", &postgrest.OrderOpts{Ascending: false}).
		Range(from, from+filter.Limit-1, "").
		Execute()
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}

	products, err := decodeProducts(data)
	if err != nil {
		return nil, err
	}
	return repository.NewProductPage(products, total, filter), nil
}

func (r *productRepository) Update(ctx context.Context, id string, update domain.ProductUpdate) error {
	cols := repository.UpdateColumns(update)
	if len(cols) == 0 {
		return nil
	}

	data, _, err := r.client.From(r.table).
		Update(cols, "representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		r.logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return err
	}

	var updated []json.RawMessage
	if err := json.Unmarshal(data, &updated); err == nil && len(updated) == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}
	return nil
}

func decodeProducts(data []byte) ([]*domain.LocalProduct, error) {
	var rows []repository.ProductRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode product rows: %w", err)
	}
	products := make([]*domain.LocalProduct, 0, len(rows))
	for i := range rows {
		products = append(products, repository.LocalProductFromRow(&rows[i]))
	}
	return products, nil
}

// searchTerm drops characters that carry meaning inside a PostgREST or() filter
func searchTerm(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '"':
			return -1
		}
		return r
	}, s))
}
