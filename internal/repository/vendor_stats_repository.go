package repository

import (
	"context"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"gorm.io/gorm"
)

type VendorStatsRepository interface {
	Get(ctx context.Context, vendorUID string) (*model.VendorStats, error)
	List(ctx context.Context) ([]model.VendorStats, error)
	SetDB(db *gorm.DB)
}

type vendorStatsRepository struct {
	db *gorm.DB
}

func NewVendorStatsRepository(db *gorm.DB) VendorStatsRepository {
	return &vendorStatsRepository{db: db}
}

func (r *vendorStatsRepository) Get(ctx context.Context, vendorUID string) (*model.VendorStats, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var vs model.VendorStats
	if err := r.db.WithContext(ctx).
		Where("vendor_uid = ?", vendorUID).
		FirstOrCreate(&vs, &model.VendorStats{VendorUID: vendorUID}).Error; err != nil {
		return nil, err
	}
	return &vs, nil
}

func (r *vendorStatsRepository) List(ctx context.Context) ([]model.VendorStats, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.VendorStats
	if err := r.db.WithContext(ctx).
		Order("orders_won DESC, vendor_uid").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *vendorStatsRepository) SetDB(db *gorm.DB) {
	r.db = db
}
