package repository

import (
	"context"
	"errors"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type ComponentRepository interface {
	Create(ctx context.Context, c *model.Component) error
	FindByID(ctx context.Context, id uint64) (*model.Component, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.Component, error)
	List(ctx context.Context, category model.ComponentCategory) ([]model.Component, error)
	Count(ctx context.Context) (int64, error)
	SetDB(db *gorm.DB)
}

type componentRepository struct {
	db *gorm.DB
}

func NewComponentRepository(db *gorm.DB) ComponentRepository {
	return &componentRepository{db: db}
}

func (r *componentRepository) Create(ctx context.Context, c *model.Component) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *componentRepository) FindByID(ctx context.Context, id uint64) (*model.Component, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var c model.Component
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *componentRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.Component, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Component
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *componentRepository) List(ctx context.Context, category model.ComponentCategory) ([]model.Component, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Model(&model.Component{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var list []model.Component
	if err := q.Order("category, price").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *componentRepository) Count(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Component{}).Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *componentRepository) SetDB(db *gorm.DB) {
	r.db = db
}
