package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
)

// RecordDTO is one ledger entry as returned to the reporting UI.
type RecordDTO struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Owner       string          `json:"owner"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	CompletedAt time.Time       `json:"completed_at"`
}

// ListResult pairs a ledger page with its continuation cursor.
type ListResult struct {
	Records    []RecordDTO `json:"records"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// SummaryDTO aggregates the filtered ledger for the reporting UI.
type SummaryDTO struct {
	Count int64           `json:"count"`
	Gross decimal.Decimal `json:"gross"`
}

// NewRecordDTO maps a ledger row to its API shape.
func NewRecordDTO(record *models.SalesRecord) *RecordDTO {
	return &RecordDTO{
		ID:          record.ID,
		OrderID:     record.OrderID,
		ItemCode:    record.ItemCode,
		ItemName:    record.ItemName,
		Owner:       record.Owner,
		Price:       record.Price,
		Total:       record.Total,
		CompletedAt: record.CompletedAt,
	}
}
