package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"github.com/nexbuildhq/nexbuild-backend/internal/notify"
	"github.com/nexbuildhq/nexbuild-backend/internal/payment"
	"github.com/nexbuildhq/nexbuild-backend/internal/repository"
)

// In-memory fakes behind the repository interfaces. They reproduce the
// guard semantics (status CAS, decide-once) the real gorm repos implement.

type fakeOrderRepo struct {
	orders     map[uint64]*model.Order
	selections map[uint64][]model.BuildSelection
	updates    map[uint64][]model.OrderUpdate
	nextID     uint64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:     map[uint64]*model.Order{},
		selections: map[uint64][]model.BuildSelection{},
		updates:    map[uint64][]model.OrderUpdate{},
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *model.Order, sels []model.BuildSelection, first *model.OrderUpdate) error {
	for _, existing := range r.orders {
		if existing.TrackingCode == o.TrackingCode {
			return fmt.Errorf("Error 1062: Duplicate entry '%s'", o.TrackingCode)
		}
	}
	r.nextID++
	o.ID = r.nextID
	cp := *o
	r.orders[o.ID] = &cp
	for i := range sels {
		sels[i].OrderID = o.ID
	}
	r.selections[o.ID] = append([]model.BuildSelection(nil), sels...)
	if first != nil {
		first.OrderID = o.ID
		r.updates[o.ID] = append(r.updates[o.ID], *first)
	}
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uint64) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByTrackingCode(_ context.Context, code string) (*model.Order, error) {
	for _, o := range r.orders {
		if o.TrackingCode == code {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, uid string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.CustomerUID == uid {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeOrderRepo) List(_ context.Context, status model.OrderStatus, _, _ int) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListSelections(_ context.Context, orderID uint64) ([]model.BuildSelection, error) {
	return r.selections[orderID], nil
}

func (r *fakeOrderRepo) ListUpdates(_ context.Context, orderID uint64) ([]model.OrderUpdate, error) {
	return r.updates[orderID], nil
}

func (r *fakeOrderRepo) TransitionStatus(_ context.Context, orderID uint64, from, to model.OrderStatus, message string) (int64, error) {
	o, ok := r.orders[orderID]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	r.updates[orderID] = append(r.updates[orderID], model.OrderUpdate{
		OrderID: orderID,
		Status:  to,
		Message: message,
	})
	return 1, nil
}

func (r *fakeOrderRepo) SetInvoiceURL(_ context.Context, orderID uint64, url string) error {
	if o, ok := r.orders[orderID]; ok {
		o.InvoiceURL = url
	}
	return nil
}

func (r *fakeOrderRepo) SetDB(_ *gorm.DB) {}

type fakeComponentRepo struct {
	components map[uint64]model.Component
}

func newFakeComponentRepo(list ...model.Component) *fakeComponentRepo {
	m := map[uint64]model.Component{}
	for _, c := range list {
		m[c.ID] = c
	}
	return &fakeComponentRepo{components: m}
}

func (r *fakeComponentRepo) Create(_ context.Context, c *model.Component) error {
	r.components[c.ID] = *c
	return nil
}

func (r *fakeComponentRepo) FindByID(_ context.Context, id uint64) (*model.Component, error) {
	c, ok := r.components[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeComponentRepo) FindByIDs(_ context.Context, ids []uint64) ([]model.Component, error) {
	var out []model.Component
	for _, id := range ids {
		if c, ok := r.components[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeComponentRepo) List(_ context.Context, category model.ComponentCategory) ([]model.Component, error) {
	var out []model.Component
	for _, c := range r.components {
		if category == "" || c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeComponentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.components)), nil
}

func (r *fakeComponentRepo) SetDB(_ *gorm.DB) {}

type fakeQuotationRepo struct {
	quotations map[string]*model.VendorQuotation
	lines      map[string][]model.ComponentQuotation
	stats      map[string]*model.VendorStats
	nextID     uint64
}

func newFakeQuotationRepo() *fakeQuotationRepo {
	return &fakeQuotationRepo{
		quotations: map[string]*model.VendorQuotation{},
		lines:      map[string][]model.ComponentQuotation{},
		stats:      map[string]*model.VendorStats{},
	}
}

func quotationKey(vendorUID string, orderID uint64) string {
	return fmt.Sprintf("%s/%d", vendorUID, orderID)
}

func (r *fakeQuotationRepo) CreateQuotation(_ context.Context, vq *model.VendorQuotation, lines []model.ComponentQuotation) error {
	key := quotationKey(vq.VendorUID, vq.OrderID)
	if _, ok := r.quotations[key]; ok {
		return fmt.Errorf("Error 1062: Duplicate entry '%s'", key)
	}
	r.nextID++
	vq.ID = r.nextID
	cp := *vq
	r.quotations[key] = &cp
	for i := range lines {
		lines[i].VendorUID = vq.VendorUID
		lines[i].OrderID = vq.OrderID
		lines[i].Status = vq.Status
	}
	r.lines[key] = append([]model.ComponentQuotation(nil), lines...)
	return nil
}

func (r *fakeQuotationRepo) FindVendorQuotation(_ context.Context, vendorUID string, orderID uint64) (*model.VendorQuotation, error) {
	vq, ok := r.quotations[quotationKey(vendorUID, orderID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *vq
	return &cp, nil
}

func (r *fakeQuotationRepo) ListByVendor(_ context.Context, vendorUID string) ([]model.VendorQuotation, error) {
	var out []model.VendorQuotation
	for _, vq := range r.quotations {
		if vq.VendorUID == vendorUID {
			out = append(out, *vq)
		}
	}
	return out, nil
}

func (r *fakeQuotationRepo) ListByOrder(_ context.Context, orderID uint64) ([]model.VendorQuotation, error) {
	var out []model.VendorQuotation
	for _, vq := range r.quotations {
		if vq.OrderID == orderID {
			out = append(out, *vq)
		}
	}
	return out, nil
}

func (r *fakeQuotationRepo) ListLines(_ context.Context, vendorUID string, orderID uint64) ([]model.ComponentQuotation, error) {
	return r.lines[quotationKey(vendorUID, orderID)], nil
}

func (r *fakeQuotationRepo) Decide(_ context.Context, vendorUID string, orderID uint64, status model.QuotationStatus) (*model.VendorQuotation, error) {
	key := quotationKey(vendorUID, orderID)
	vq, ok := r.quotations[key]
	if !ok {
		var sum int64
		for _, ln := range r.lines[key] {
			sum += ln.UnitPrice * int64(ln.Quantity)
		}
		r.nextID++
		vq = &model.VendorQuotation{
			ID:        r.nextID,
			VendorUID: vendorUID,
			OrderID:   orderID,
			Price:     sum,
			Status:    model.QuotationPending,
		}
		r.quotations[key] = vq
	}
	if vq.Status != model.QuotationPending {
		return nil, repository.ErrAlreadyDecided
	}
	vq.Status = status
	for i := range r.lines[key] {
		r.lines[key][i].Status = status
	}
	st, ok := r.stats[vendorUID]
	if !ok {
		st = &model.VendorStats{VendorUID: vendorUID}
		r.stats[vendorUID] = st
	}
	if status == model.QuotationAccepted {
		st.OrdersWon++
	} else {
		st.OrdersLost++
	}
	cp := *vq
	return &cp, nil
}

func (r *fakeQuotationRepo) SetDB(_ *gorm.DB) {}

type fakeStatsRepo struct {
	quotes *fakeQuotationRepo
}

func (r *fakeStatsRepo) Get(_ context.Context, vendorUID string) (*model.VendorStats, error) {
	if st, ok := r.quotes.stats[vendorUID]; ok {
		cp := *st
		return &cp, nil
	}
	return &model.VendorStats{VendorUID: vendorUID}, nil
}

func (r *fakeStatsRepo) List(_ context.Context) ([]model.VendorStats, error) {
	var out []model.VendorStats
	for _, st := range r.quotes.stats {
		out = append(out, *st)
	}
	return out, nil
}

func (r *fakeStatsRepo) SetDB(_ *gorm.DB) {}

type fakeNotificationRepo struct {
	created []model.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, uid string, _ bool, _ int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.created {
		if n.UserUID == uid {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ string) error { return nil }

func (r *fakeNotificationRepo) MarkByOrder(_ context.Context, _ string, _ uint64) error { return nil }

func (r *fakeNotificationRepo) CountUnread(_ context.Context, _ string) (int64, error) { return 0, nil }

func (r *fakeNotificationRepo) SetDB(_ *gorm.DB) {}

type fakeGateway struct {
	calls []int64
	fail  bool
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountRupees int64, _ string) (*payment.Order, error) {
	if g.fail {
		return nil, fmt.Errorf("gateway unavailable")
	}
	g.calls = append(g.calls, amountRupees)
	return &payment.Order{ID: fmt.Sprintf("pi_test_%d", len(g.calls)), Amount: amountRupees, Currency: "inr"}, nil
}

type fakePublisher struct {
	orderEvents     []notify.Event
	quotationEvents []notify.Event
}

func (p *fakePublisher) PublishOrder(_ context.Context, ev notify.Event) {
	p.orderEvents = append(p.orderEvents, ev)
}

func (p *fakePublisher) PublishQuotation(_ context.Context, ev notify.Event) {
	p.quotationEvents = append(p.quotationEvents, ev)
}
