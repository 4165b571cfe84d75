package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nexbuildhq/nexbuild-backend/internal/invoice"
	"github.com/nexbuildhq/nexbuild-backend/internal/mail"
	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"github.com/nexbuildhq/nexbuild-backend/internal/notify"
	"github.com/nexbuildhq/nexbuild-backend/internal/payment"
	"github.com/nexbuildhq/nexbuild-backend/internal/pricing"
	"github.com/nexbuildhq/nexbuild-backend/internal/repository"
)

var ErrNotFound = errors.New("not_found")
var ErrForbidden = errors.New("forbidden")

// ErrConflict reports a status transition that lost against a concurrent one.
var ErrConflict = errors.New("order changed concurrently, retry")

const trackingPrefix = "NXB"
const estimatedDeliveryDays = 14

type SelectionInput struct {
	Category    model.ComponentCategory
	ComponentID uint64
}

type CheckoutInput struct {
	CustomerUID     string
	CustomerEmail   string
	Selections      []SelectionInput
	ExtraStorageIDs []uint64
}

// TrackedOrder is the public tracking view: the order plus its full history.
type TrackedOrder struct {
	Order   model.Order
	Updates []model.OrderUpdate
}

type OrderService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error)
	Track(ctx context.Context, trackingCode string) (*TrackedOrder, error)
	Get(ctx context.Context, id uint64) (*model.Order, error)
	GetWithDetails(ctx context.Context, id uint64) (*model.Order, []model.BuildSelection, []model.OrderUpdate, error)
	ListByCustomer(ctx context.Context, customerUID string) ([]model.Order, error)
	List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, int64, error)
	Advance(ctx context.Context, orderID uint64, message string) (*model.Order, error)
	Cancel(ctx context.Context, orderID uint64, message string) (*model.Order, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	componentRepo repository.ComponentRepository
	notifRepo     repository.NotificationRepository
	gateway       payment.Gateway
	mailer        mail.Mailer
	invoices      invoice.Generator
	publisher     notify.Publisher
	log           *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	componentRepo repository.ComponentRepository,
	notifRepo repository.NotificationRepository,
	gateway payment.Gateway,
	mailer mail.Mailer,
	invoices invoice.Generator,
	publisher notify.Publisher,
	log *zap.Logger,
) OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &orderService{
		orderRepo:     orderRepo,
		componentRepo: componentRepo,
		notifRepo:     notifRepo,
		gateway:       gateway,
		mailer:        mailer,
		invoices:      invoices,
		publisher:     publisher,
		log:           log,
	}
}

func (s *orderService) Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error) {
	if in.CustomerUID == "" {
		return nil, errors.New("customer is required")
	}
	if in.CustomerEmail == "" {
		return nil, errors.New("customer email is required")
	}
	selections, cost, err := s.resolveSelections(ctx, in)
	if err != nil {
		return nil, err
	}

	q := pricing.Calculate(cost, pricing.DefaultWeightKG)
	eta := time.Now().AddDate(0, 0, estimatedDeliveryDays)

	o := &model.Order{
		CustomerUID:       in.CustomerUID,
		CustomerEmail:     in.CustomerEmail,
		Status:            model.StatusOrderReceived,
		ComponentCost:     q.ComponentCost,
		BuildCharge:       q.BuildCharge,
		DeliveryCharge:    q.DeliveryCharge,
		GST:               q.GST,
		Total:             q.Total,
		WeightKG:          q.WeightKG,
		EstimatedDelivery: &eta,
	}

	code, err := generateTrackingCode()
	if err != nil {
		return nil, err
	}
	o.TrackingCode = code

	if s.gateway != nil {
		po, err := s.gateway.CreateOrder(ctx, q.Total, o.TrackingCode)
		if err != nil {
			return nil, fmt.Errorf("create payment order: %w", err)
		}
		o.PaymentOrderID = po.ID
	}

	// Tracking codes are random; retry on the rare unique-index collision.
	for attempt := 0; ; attempt++ {
		first := &model.OrderUpdate{
			Status:  model.StatusOrderReceived,
			Message: model.StatusOrderReceived.DefaultMessage(),
		}
		err = s.orderRepo.Create(ctx, o, selections, first)
		if err == nil {
			break
		}
		if attempt < 4 && looksLikeDuplicate(err) {
			code, genErr := generateTrackingCode()
			if genErr != nil {
				return nil, genErr
			}
			o.TrackingCode = code
			continue
		}
		return nil, err
	}

	s.afterCheckout(o, selections)
	return o, nil
}

func (s *orderService) resolveSelections(ctx context.Context, in CheckoutInput) ([]model.BuildSelection, int64, error) {
	seen := make(map[model.ComponentCategory]bool, len(in.Selections))
	ids := make([]uint64, 0, len(in.Selections)+len(in.ExtraStorageIDs))
	for _, sel := range in.Selections {
		if !sel.Category.Valid() || sel.Category == model.CategoryExtraStorage {
			return nil, 0, fmt.Errorf("invalid category %q", sel.Category)
		}
		if seen[sel.Category] {
			return nil, 0, fmt.Errorf("duplicate category %q", sel.Category)
		}
		seen[sel.Category] = true
		ids = append(ids, sel.ComponentID)
	}
	for _, rc := range model.RequiredCategories {
		if !seen[rc] {
			return nil, 0, fmt.Errorf("missing component for category %q", rc)
		}
	}
	ids = append(ids, in.ExtraStorageIDs...)

	comps, err := s.componentRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint64]model.Component, len(comps))
	for _, c := range comps {
		byID[c.ID] = c
	}

	var cost int64
	selections := make([]model.BuildSelection, 0, len(ids))
	for _, sel := range in.Selections {
		c, ok := byID[sel.ComponentID]
		if !ok {
			return nil, 0, fmt.Errorf("component %d not found", sel.ComponentID)
		}
		if c.Category != sel.Category {
			return nil, 0, fmt.Errorf("component %d is %q, not %q", c.ID, c.Category, sel.Category)
		}
		cost += c.Price
		selections = append(selections, model.BuildSelection{
			Category:      c.Category,
			ComponentID:   c.ID,
			ComponentName: c.Name,
			UnitPrice:     c.Price,
			Quantity:      1,
		})
	}
	for _, id := range in.ExtraStorageIDs {
		c, ok := byID[id]
		if !ok {
			return nil, 0, fmt.Errorf("extra storage item %d not found", id)
		}
		if c.Category != model.CategoryExtraStorage {
			return nil, 0, fmt.Errorf("component %d is not an extra storage add-on", id)
		}
		cost += c.Price
		selections = append(selections, model.BuildSelection{
			Category:      c.Category,
			ComponentID:   c.ID,
			ComponentName: c.Name,
			UnitPrice:     c.Price,
			Quantity:      1,
		})
	}
	return selections, cost, nil
}

// afterCheckout runs the best-effort side effects of a committed checkout.
// Failures are logged and never surfaced to the customer.
func (s *orderService) afterCheckout(o *model.Order, selections []model.BuildSelection) {
	if s.mailer != nil {
		if err := s.mailer.Send(mail.OrderConfirmation(o)); err != nil {
			s.log.Warn("order confirmation mail failed", zap.Uint64("order_id", o.ID), zap.Error(err))
		}
	}
	if s.publisher != nil {
		s.publisher.PublishOrder(context.Background(), notify.Event{
			Type:         notify.EventOrderCreated,
			OrderID:      o.ID,
			TrackingCode: o.TrackingCode,
			Status:       string(o.Status),
		})
	}
	if s.notifRepo != nil {
		orderID := o.ID
		_ = s.notifRepo.Create(context.Background(), &model.Notification{
			UserUID: o.CustomerUID,
			Type:    "order_created",
			Title:   fmt.Sprintf("Order %s placed", o.TrackingCode),
			Body:    model.StatusOrderReceived.DefaultMessage(),
			OrderID: &orderID,
		})
	}
	if s.invoices != nil {
		order := *o
		sels := append([]model.BuildSelection(nil), selections...)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			url, err := s.invoices.Generate(ctx, &order, sels)
			if err != nil {
				s.log.Warn("invoice generation failed", zap.Uint64("order_id", order.ID), zap.Error(err))
				return
			}
			if err := s.orderRepo.SetInvoiceURL(ctx, order.ID, url); err != nil {
				s.log.Warn("invoice url save failed", zap.Uint64("order_id", order.ID), zap.Error(err))
			}
		}()
	}
}

func (s *orderService) Track(ctx context.Context, trackingCode string) (*TrackedOrder, error) {
	code := strings.TrimSpace(trackingCode)
	if code == "" {
		return nil, ErrNotFound
	}
	o, err := s.orderRepo.FindByTrackingCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	updates, err := s.orderRepo.ListUpdates(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &TrackedOrder{Order: *o, Updates: updates}, nil
}

func (s *orderService) Get(ctx context.Context, id uint64) (*model.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *orderService) GetWithDetails(ctx context.Context, id uint64) (*model.Order, []model.BuildSelection, []model.OrderUpdate, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	sels, err := s.orderRepo.ListSelections(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	updates, err := s.orderRepo.ListUpdates(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return o, sels, updates, nil
}

func (s *orderService) ListByCustomer(ctx context.Context, customerUID string) ([]model.Order, error) {
	if customerUID == "" {
		return nil, errors.New("customer is required")
	}
	return s.orderRepo.ListByCustomer(ctx, customerUID)
}

func (s *orderService) List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("invalid status %q", status)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.orderRepo.List(ctx, status, limit, offset)
}

func (s *orderService) Advance(ctx context.Context, orderID uint64, message string) (*model.Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	next, err := o.Status.Next()
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, next, message)
}

func (s *orderService) Cancel(ctx context.Context, orderID uint64, message string) (*model.Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, model.ErrTerminalStatus
	}
	return s.transition(ctx, o, model.StatusCancelled, message)
}

func (s *orderService) transition(ctx context.Context, o *model.Order, to model.OrderStatus, message string) (*model.Order, error) {
	if message == "" {
		message = to.DefaultMessage()
	}
	moved, err := s.orderRepo.TransitionStatus(ctx, o.ID, o.Status, to, message)
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		return nil, ErrConflict
	}
	o.Status = to
	s.afterTransition(o, message)
	return o, nil
}

func (s *orderService) afterTransition(o *model.Order, message string) {
	if s.mailer != nil {
		if err := s.mailer.Send(mail.StatusUpdate(o, o.Status, message)); err != nil {
			s.log.Warn("status mail failed", zap.Uint64("order_id", o.ID), zap.Error(err))
		}
	}
	if s.publisher != nil {
		s.publisher.PublishOrder(context.Background(), notify.Event{
			Type:         notify.EventOrderStatus,
			OrderID:      o.ID,
			TrackingCode: o.TrackingCode,
			Status:       string(o.Status),
		})
	}
	if s.notifRepo != nil {
		orderID := o.ID
		_ = s.notifRepo.Create(context.Background(), &model.Notification{
			UserUID: o.CustomerUID,
			Type:    "order_status",
			Title:   fmt.Sprintf("Order %s: %s", o.TrackingCode, o.Status),
			Body:    message,
			OrderID: &orderID,
		})
	}
}

func generateTrackingCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", trackingPrefix, n.Int64()), nil
}

func looksLikeDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
