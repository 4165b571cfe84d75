package model

import "time"

type Order struct {
	ID                uint64      `gorm:"primaryKey;autoIncrement"`
	CustomerUID       string      `gorm:"column:customer_uid;size:128;index;not null"`
	CustomerEmail     string      `gorm:"column:customer_email;size:255;not null"`
	TrackingCode      string      `gorm:"column:tracking_code;size:16;uniqueIndex:uk_orders_tracking;not null"`
	Status            OrderStatus `gorm:"column:status;size:32;not null"`
	ComponentCost     int64       `gorm:"column:component_cost;not null"`
	BuildCharge       int64       `gorm:"column:build_charge;not null"`
	DeliveryCharge    int64       `gorm:"column:delivery_charge;not null"`
	GST               int64       `gorm:"column:gst;not null"`
	Total             int64       `gorm:"column:total;not null"`
	WeightKG          float64     `gorm:"column:weight_kg;not null"`
	PaymentOrderID    string      `gorm:"column:payment_order_id;size:128"`
	InvoiceURL        string      `gorm:"column:invoice_url;size:512"`
	EstimatedDelivery *time.Time  `gorm:"column:estimated_delivery"`
	CreatedAt         time.Time   `gorm:"autoCreateTime"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// BuildSelection is one chosen component line of an order, with the display
// name and price cached at checkout time so later catalog edits do not
// rewrite order history.
type BuildSelection struct {
	ID            uint64            `gorm:"primaryKey;autoIncrement"`
	OrderID       uint64            `gorm:"column:order_id;index;not null"`
	Category      ComponentCategory `gorm:"column:category;size:32;not null"`
	ComponentID   uint64            `gorm:"column:component_id;not null"`
	ComponentName string            `gorm:"column:component_name;size:120;not null"`
	UnitPrice     int64             `gorm:"column:unit_price;not null"`
	Quantity      int               `gorm:"column:quantity;not null;default:1"`
	CreatedAt     time.Time         `gorm:"autoCreateTime"`
}

func (BuildSelection) TableName() string {
	return "build_selections"
}
