package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/enums"
)

// Item is an active catalog listing. A sold item's row is removed from this
// table once its details have been snapshotted onto the order and the sales
// ledger.
type Item struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ItemCode    string             `gorm:"column:item_code;uniqueIndex;not null"`
	Name        string             `gorm:"column:name;not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Owner       string             `gorm:"column:owner;not null"`
	Type        enums.ItemType     `gorm:"column:type;type:text;not null"`
	Category    enums.ItemCategory `gorm:"column:category;type:text;not null"`
	Status      enums.ItemStatus   `gorm:"column:status;type:text;not null;default:'available'"`
	Description string             `gorm:"column:description"`
	Condition   *string            `gorm:"column:condition"`
	Images      pq.StringArray     `gorm:"column:images;type:text"`
	CreatedBy   uuid.UUID          `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
