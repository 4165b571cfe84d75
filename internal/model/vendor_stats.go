package model

import "time"

// VendorStats carries a vendor's quotation win/loss counters. Each counter is
// incremented exactly once per terminal quotation decision.
type VendorStats struct {
	VendorUID  string    `gorm:"column:vendor_uid;primaryKey;size:128"`
	OrdersWon  int64     `gorm:"column:orders_won;not null;default:0"`
	OrdersLost int64     `gorm:"column:orders_lost;not null;default:0"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (VendorStats) TableName() string {
	return "vendor_stats"
}
