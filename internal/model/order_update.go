package model

import "time"

// OrderUpdate is one entry of an order's append-only status history. Rows are
// never mutated or deleted.
type OrderUpdate struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement"`
	OrderID   uint64      `gorm:"column:order_id;index;not null"`
	Status    OrderStatus `gorm:"column:status;size:32;not null"`
	Message   string      `gorm:"column:message;type:text"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
}

func (OrderUpdate) TableName() string {
	return "order_updates"
}
