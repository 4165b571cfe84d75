package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"github.com/nexbuildhq/nexbuild-backend/internal/notify"
	"github.com/nexbuildhq/nexbuild-backend/internal/repository"
)

var ErrAlreadyQuoted = errors.New("already_quoted")
var ErrAlreadyDecided = errors.New("already_decided")
var ErrOrderClosed = errors.New("order_closed")

type LineInput struct {
	ComponentID uint64
	UnitPrice   int64
	Quantity    int
}

type QuotationService interface {
	Submit(ctx context.Context, vendorUID string, orderID uint64, lines []LineInput) (*model.VendorQuotation, error)
	Get(ctx context.Context, vendorUID string, orderID uint64) (*model.VendorQuotation, []model.ComponentQuotation, error)
	ListByVendor(ctx context.Context, vendorUID string) ([]model.VendorQuotation, error)
	ListByOrder(ctx context.Context, orderID uint64) ([]model.VendorQuotation, error)
	Decide(ctx context.Context, vendorUID string, orderID uint64, accept bool) (*model.VendorQuotation, error)
	Stats(ctx context.Context, vendorUID string) (*model.VendorStats, error)
}

type quotationService struct {
	quotationRepo repository.QuotationRepository
	orderRepo     repository.OrderRepository
	statsRepo     repository.VendorStatsRepository
	notifRepo     repository.NotificationRepository
	publisher     notify.Publisher
	log           *zap.Logger
}

func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	orderRepo repository.OrderRepository,
	statsRepo repository.VendorStatsRepository,
	notifRepo repository.NotificationRepository,
	publisher notify.Publisher,
	log *zap.Logger,
) QuotationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &quotationService{
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		statsRepo:     statsRepo,
		notifRepo:     notifRepo,
		publisher:     publisher,
		log:           log,
	}
}

func (s *quotationService) Submit(ctx context.Context, vendorUID string, orderID uint64, lines []LineInput) (*model.VendorQuotation, error) {
	if vendorUID == "" {
		return nil, errors.New("vendor is required")
	}
	if len(lines) == 0 {
		return nil, errors.New("at least one component line is required")
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	if existing, err := s.quotationRepo.FindVendorQuotation(ctx, vendorUID, orderID); err == nil && existing != nil {
		return existing, ErrAlreadyQuoted
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var total int64
	rows := make([]model.ComponentQuotation, 0, len(lines))
	for _, ln := range lines {
		if ln.UnitPrice <= 0 {
			return nil, fmt.Errorf("component %d: unit price must be positive", ln.ComponentID)
		}
		qty := ln.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += ln.UnitPrice * int64(qty)
		rows = append(rows, model.ComponentQuotation{
			ComponentID: ln.ComponentID,
			UnitPrice:   ln.UnitPrice,
			Quantity:    qty,
		})
	}

	vq := &model.VendorQuotation{
		VendorUID: vendorUID,
		OrderID:   orderID,
		Price:     total,
		Status:    model.QuotationPending,
	}
	if err := s.quotationRepo.CreateQuotation(ctx, vq, rows); err != nil {
		if looksLikeDuplicate(err) {
			return nil, ErrAlreadyQuoted
		}
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishQuotation(context.Background(), notify.Event{
			Type:      "quotation.submitted",
			OrderID:   orderID,
			VendorUID: vendorUID,
			Status:    string(model.QuotationPending),
		})
	}
	return vq, nil
}

func (s *quotationService) Get(ctx context.Context, vendorUID string, orderID uint64) (*model.VendorQuotation, []model.ComponentQuotation, error) {
	vq, err := s.quotationRepo.FindVendorQuotation(ctx, vendorUID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	lines, err := s.quotationRepo.ListLines(ctx, vendorUID, orderID)
	if err != nil {
		return nil, nil, err
	}
	return vq, lines, nil
}

func (s *quotationService) ListByVendor(ctx context.Context, vendorUID string) ([]model.VendorQuotation, error) {
	if vendorUID == "" {
		return nil, errors.New("vendor is required")
	}
	return s.quotationRepo.ListByVendor(ctx, vendorUID)
}

func (s *quotationService) ListByOrder(ctx context.Context, orderID uint64) ([]model.VendorQuotation, error) {
	return s.quotationRepo.ListByOrder(ctx, orderID)
}

func (s *quotationService) Decide(ctx context.Context, vendorUID string, orderID uint64, accept bool) (*model.VendorQuotation, error) {
	status := model.QuotationRejected
	if accept {
		status = model.QuotationAccepted
	}
	vq, err := s.quotationRepo.Decide(ctx, vendorUID, orderID, status)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return nil, ErrAlreadyDecided
		}
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishQuotation(context.Background(), notify.Event{
			Type:      notify.EventQuotationDecision,
			OrderID:   orderID,
			VendorUID: vendorUID,
			Status:    string(status),
		})
	}
	if s.notifRepo != nil {
		quotationID := vq.ID
		oid := orderID
		title := "Quotation rejected"
		if accept {
			title = "Quotation accepted"
		}
		_ = s.notifRepo.Create(context.Background(), &model.Notification{
			UserUID:     vendorUID,
			Type:        "quotation_decision",
			Title:       title,
			Body:        fmt.Sprintf("Your quotation of ₹%d for order #%d was %s.", vq.Price, orderID, status),
			OrderID:     &oid,
			QuotationID: &quotationID,
		})
	}
	return vq, nil
}

func (s *quotationService) Stats(ctx context.Context, vendorUID string) (*model.VendorStats, error) {
	if vendorUID == "" {
		return nil, errors.New("vendor is required")
	}
	return s.statsRepo.Get(ctx, vendorUID)
}
