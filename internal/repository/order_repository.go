package repository

import (
	"context"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create persists the order, its selection lines and the initial history
	// entry in one transaction.
	Create(ctx context.Context, o *model.Order, selections []model.BuildSelection, first *model.OrderUpdate) error
	FindByID(ctx context.Context, id uint64) (*model.Order, error)
	FindByTrackingCode(ctx context.Context, code string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerUID string) ([]model.Order, error)
	List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, int64, error)
	ListSelections(ctx context.Context, orderID uint64) ([]model.BuildSelection, error)
	ListUpdates(ctx context.Context, orderID uint64) ([]model.OrderUpdate, error)
	// TransitionStatus appends the history row and overwrites the order's
	// status field atomically, guarded on the expected current status so
	// concurrent admin actions cannot tear history and status apart.
	// Returns the number of orders moved (0 means the guard did not match).
	TransitionStatus(ctx context.Context, orderID uint64, from, to model.OrderStatus, message string) (int64, error)
	SetInvoiceURL(ctx context.Context, orderID uint64, url string) error
	SetDB(db *gorm.DB)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *model.Order, selections []model.BuildSelection, first *model.OrderUpdate) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		for i := range selections {
			selections[i].OrderID = o.ID
		}
		if len(selections) > 0 {
			if err := tx.Create(&selections).Error; err != nil {
				return err
			}
		}
		if first != nil {
			first.OrderID = o.ID
			if err := tx.Create(first).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var o model.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) FindByTrackingCode(ctx context.Context, code string) (*model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var o model.Order
	if err := r.db.WithContext(ctx).Where("tracking_code = ?", code).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerUID string) ([]model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Order
	if err := r.db.WithContext(ctx).
		Where("customer_uid = ?", customerUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Order
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *orderRepository) ListSelections(ctx context.Context, orderID uint64) ([]model.BuildSelection, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.BuildSelection
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) ListUpdates(ctx context.Context, orderID uint64) ([]model.OrderUpdate, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.OrderUpdate
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) TransitionStatus(ctx context.Context, orderID uint64, from, to model.OrderStatus, message string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", orderID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected
		if moved == 0 {
			return nil
		}
		return tx.Create(&model.OrderUpdate{
			OrderID: orderID,
			Status:  to,
			Message: message,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

func (r *orderRepository) SetInvoiceURL(ctx context.Context, orderID uint64, url string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("invoice_url", url).Error
}

func (r *orderRepository) SetDB(db *gorm.DB) {
	r.db = db
}
