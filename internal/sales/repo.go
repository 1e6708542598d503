package sales

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/pagination"
)

// Repository persists and queries the append-only sales ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create appends a ledger entry. The unique (order_id, item_code) index
// rejects a second entry for the same fulfilled line.
func (r *Repository) Create(ctx context.Context, record *models.SalesRecord) (*models.SalesRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// ListFilters describe the supported ledger query knobs.
type ListFilters struct {
	ItemCode      string
	ItemName      string
	Owner         string
	CompletedFrom *time.Time
	CompletedTo   *time.Time
}

func (f ListFilters) apply(q *gorm.DB) *gorm.DB {
	if code := strings.TrimSpace(f.ItemCode); code != "" {
		q = q.Where("item_code = ?", code)
	}
	if name := strings.TrimSpace(f.ItemName); name != "" {
		q = q.Where("lower(item_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if owner := strings.TrimSpace(f.Owner); owner != "" {
		q = q.Where("lower(owner) LIKE ?", "%"+strings.ToLower(owner)+"%")
	}
	if f.CompletedFrom != nil {
		q = q.Where("completed_at >= ?", *f.CompletedFrom)
	}
	if f.CompletedTo != nil {
		q = q.Where("completed_at <= ?", *f.CompletedTo)
	}
	return q
}

// List returns ledger entries newest-completion-first with cursor pagination.
// It fetches one row beyond the limit so the caller can detect the next page.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.SalesRecord, error) {
	q := filters.apply(r.db.WithContext(ctx).Model(&models.SalesRecord{}))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(completed_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var records []models.SalesRecord
	if err := q.
		Order("completed_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Summary aggregates the filtered ledger into a count and gross total.
func (r *Repository) Summary(ctx context.Context, filters ListFilters) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Gross decimal.Decimal
	}
	q := filters.apply(r.db.WithContext(ctx).Model(&models.SalesRecord{}))
	if err := q.
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS gross").
		Scan(&row).Error; err != nil {
		return 0, decimal.Zero, err
	}
	return row.Count, row.Gross, nil
}
