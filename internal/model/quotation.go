package model

import "time"

type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
)

// VendorQuotation is a vendor's aggregate offer for one order. Price is the
// sum of the vendor's component quotation lines for the same (vendor, order).
type VendorQuotation struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	VendorUID string          `gorm:"column:vendor_uid;size:128;uniqueIndex:uk_vendor_order;not null"`
	OrderID   uint64          `gorm:"column:order_id;uniqueIndex:uk_vendor_order;not null"`
	Price     int64           `gorm:"column:price;not null"`
	Status    QuotationStatus `gorm:"column:status;size:16;not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (VendorQuotation) TableName() string {
	return "vendor_quotations"
}

type ComponentQuotation struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	VendorUID   string          `gorm:"column:vendor_uid;size:128;index:idx_cq_vendor_order;not null"`
	OrderID     uint64          `gorm:"column:order_id;index:idx_cq_vendor_order;not null"`
	ComponentID uint64          `gorm:"column:component_id;not null"`
	UnitPrice   int64           `gorm:"column:unit_price;not null"`
	Quantity    int             `gorm:"column:quantity;not null;default:1"`
	Status      QuotationStatus `gorm:"column:status;size:16;not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (ComponentQuotation) TableName() string {
	return "component_quotations"
}
