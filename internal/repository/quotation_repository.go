package repository

import (
	"context"
	"errors"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyDecided reports a decision on a quotation that already left the
// pending state. Decisions are never reversed.
var ErrAlreadyDecided = errors.New("quotation already decided")

type QuotationRepository interface {
	// CreateQuotation inserts the aggregate row and its component lines in one
	// transaction. The unique (vendor_uid, order_id) index rejects a second
	// quotation for the same pair.
	CreateQuotation(ctx context.Context, vq *model.VendorQuotation, lines []model.ComponentQuotation) error
	FindVendorQuotation(ctx context.Context, vendorUID string, orderID uint64) (*model.VendorQuotation, error)
	ListByVendor(ctx context.Context, vendorUID string) ([]model.VendorQuotation, error)
	ListByOrder(ctx context.Context, orderID uint64) ([]model.VendorQuotation, error)
	ListLines(ctx context.Context, vendorUID string, orderID uint64) ([]model.ComponentQuotation, error)
	// Decide applies a terminal status to the vendor quotation, all its
	// component lines, and the vendor's win/loss counter in one transaction.
	// If no aggregate row exists it is synthesized from the summed lines. The
	// counter moves at most once: a quotation that already left pending
	// returns ErrAlreadyDecided untouched.
	Decide(ctx context.Context, vendorUID string, orderID uint64, status model.QuotationStatus) (*model.VendorQuotation, error)
	SetDB(db *gorm.DB)
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) CreateQuotation(ctx context.Context, vq *model.VendorQuotation, lines []model.ComponentQuotation) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vq).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].VendorUID = vq.VendorUID
			lines[i].OrderID = vq.OrderID
			lines[i].Status = vq.Status
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *quotationRepository) FindVendorQuotation(ctx context.Context, vendorUID string, orderID uint64) (*model.VendorQuotation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var vq model.VendorQuotation
	if err := r.db.WithContext(ctx).
		Where("vendor_uid = ? AND order_id = ?", vendorUID, orderID).
		First(&vq).Error; err != nil {
		return nil, err
	}
	return &vq, nil
}

func (r *quotationRepository) ListByVendor(ctx context.Context, vendorUID string) ([]model.VendorQuotation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.VendorQuotation
	if err := r.db.WithContext(ctx).
		Where("vendor_uid = ?", vendorUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *quotationRepository) ListByOrder(ctx context.Context, orderID uint64) ([]model.VendorQuotation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.VendorQuotation
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("price").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *quotationRepository) ListLines(ctx context.Context, vendorUID string, orderID uint64) ([]model.ComponentQuotation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.ComponentQuotation
	if err := r.db.WithContext(ctx).
		Where("vendor_uid = ? AND order_id = ?", vendorUID, orderID).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *quotationRepository) Decide(ctx context.Context, vendorUID string, orderID uint64, status model.QuotationStatus) (*model.VendorQuotation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var decided model.VendorQuotation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vq model.VendorQuotation
		err := tx.Where("vendor_uid = ? AND order_id = ?", vendorUID, orderID).First(&vq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			var sum int64
			if err := tx.Model(&model.ComponentQuotation{}).
				Where("vendor_uid = ? AND order_id = ?", vendorUID, orderID).
				Select("COALESCE(SUM(unit_price * quantity), 0)").
				Scan(&sum).Error; err != nil {
				return err
			}
			vq = model.VendorQuotation{
				VendorUID: vendorUID,
				OrderID:   orderID,
				Price:     sum,
				Status:    model.QuotationPending,
			}
			if err := tx.Create(&vq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// Guarded update keeps the decision, and with it the counter
		// increment below, at-most-once.
		res := tx.Model(&model.VendorQuotation{}).
			Where("id = ? AND status = ?", vq.ID, model.QuotationPending).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyDecided
		}

		if err := tx.Model(&model.ComponentQuotation{}).
			Where("vendor_uid = ? AND order_id = ?", vendorUID, orderID).
			Update("status", status).Error; err != nil {
			return err
		}

		stats := model.VendorStats{VendorUID: vendorUID}
		col := "orders_lost"
		if status == model.QuotationAccepted {
			col = "orders_won"
			stats.OrdersWon = 1
		} else {
			stats.OrdersLost = 1
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vendor_uid"}},
			DoUpdates: clause.Assignments(map[string]interface{}{col: gorm.Expr(col + " + 1")}),
		}).Create(&stats).Error; err != nil {
			return err
		}

		vq.Status = status
		decided = vq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &decided, nil
}

func (r *quotationRepository) SetDB(db *gorm.DB) {
	r.db = db
}
