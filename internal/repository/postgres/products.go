package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/repository"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

const productsTable = "productos"

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository. Rows are read as JSON
// so current and legacy column sets go through the same adapter.
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.LocalProduct, error) {
	query := `SELECT row_to_json(p)::text FROM ` + productsTable + ` p WHERE p.id::text = $1`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to get product by ID", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}

	return decodeProduct(raw)
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	filter = filter.Normalize()
	where, args := buildProductWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM ` + productsTable + ` p` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count products", zap.Error(err))
		return nil, err
	}

	listArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset())
	listQuery := fmt.Sprintf(
		`SELECT row_to_json(p)::text FROM %s p%s ORDER BY p.id DESC LIMIT $%d OFFSET $%d`,
		productsTable, where, len(args)+1, len(args)+2,
	)

	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.LocalProduct, 0, filter.Limit)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		p, err := decodeProduct(raw)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return repository.NewProductPage(products, total, filter), nil
}

func (r *productRepository) Update(ctx context.Context, id string, update domain.ProductUpdate) error {
	query, args, ok := buildProductUpdate(id, repository.UpdateColumns(update))
	if !ok {
		return nil
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}

	return nil
}

func decodeProduct(raw []byte) (*domain.LocalProduct, error) {
	var row repository.ProductRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("failed to decode product row: %w", err)
	}
	return repository.LocalProductFromRow(&row), nil
}

// likeEscaper makes a search term match literally inside an ILIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// buildProductWhere renders the filter as a WHERE clause with positional args
func buildProductWhere(filter domain.ProductFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.ActiveOnly {
		conds = append(conds, "p.is_active = true")
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		args = append(args, category)
		conds = append(conds, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		conds = append(conds, fmt.Sprintf(`(p.product_name ILIKE $%d ESCAPE '\' OR p.sku ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildProductUpdate renders a partial update. Columns are sorted so the
// statement is stable; ok is false when there is nothing to set.
func buildProductUpdate(id string, cols map[string]interface{}) (string, []interface{}, bool) {
	if len(cols) == 0 {
		return "", nil, false
	}

	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names)+1)
	for _, name := range names {
		value := cols[name]
		if list, isList := value.([]string); isList {
			value = pq.Array(list)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", name, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id::text = $%d",
		productsTable, strings.Join(sets, ", "), len(args))
	return query, args, true
}
