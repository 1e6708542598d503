package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/enums"
)

// OrderLine is one purchased item within an order. The kind is fixed at
// order creation: reference lines keep a live catalog pointer (ItemID) next
// to the denormalized display fields, snapshot lines carry frozen details
// and no pointer. Price is always captured by value at checkout.
type OrderLine struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;index;not null"`
	Kind      enums.OrderLineKind `gorm:"column:kind;type:text;not null;default:'reference'"`
	ItemID    *uuid.UUID          `gorm:"column:item_id;type:uuid"`
	ItemCode  string              `gorm:"column:item_code;not null"`
	Name      string              `gorm:"column:name;not null"`
	Owner     string              `gorm:"column:owner;not null"`
	Category  string              `gorm:"column:category;not null"`
	Price     decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
