package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesRecord is the append-only audit trail of fulfilled order lines,
// written inside the order-completion transaction. One record per
// (order, item code) pair; never mutated, never deleted.
type SalesRecord struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_sales_records_order_item"`
	ItemCode    string          `gorm:"column:item_code;not null;uniqueIndex:uq_sales_records_order_item"`
	ItemName    string          `gorm:"column:item_name;not null"`
	Owner       string          `gorm:"column:owner;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	CompletedAt time.Time       `gorm:"column:completed_at;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (s *SalesRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
