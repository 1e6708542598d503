package models

// ItemCodeCounter backs item-code allocation with an atomic per-category
// sequence instead of scanning existing codes for a maximum. last_seq holds the most
// recently issued sequence for the category.
type ItemCodeCounter struct {
	Category string `gorm:"column:category;primaryKey"`
	LastSeq  int64  `gorm:"column:last_seq;not null;default:0"`
}

// TableName pins the table name used by the allocator.
func (ItemCodeCounter) TableName() string {
	return "item_code_counters"
}
