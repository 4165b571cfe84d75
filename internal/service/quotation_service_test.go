package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
)

func newQuotationServiceForTest(t *testing.T) (QuotationService, *fakeQuotationRepo, uint64) {
	t.Helper()
	orders := newFakeOrderRepo()
	comps := newFakeComponentRepo(testCatalog()...)
	orderSvc := NewOrderService(orders, comps, nil, nil, nil, nil, nil, nil)
	o, err := orderSvc.Checkout(context.Background(), CheckoutInput{
		CustomerUID:   "cust-1",
		CustomerEmail: "cust@example.com",
		Selections:    fullSelection(),
	})
	require.NoError(t, err)

	quotes := newFakeQuotationRepo()
	svc := NewQuotationService(quotes, orders, &fakeStatsRepo{quotes: quotes}, &fakeNotificationRepo{}, &fakePublisher{}, nil)
	return svc, quotes, o.ID
}

func TestSubmitSumsLines(t *testing.T) {
	svc, quotes, orderID := newQuotationServiceForTest(t)

	vq, err := svc.Submit(context.Background(), "vendor-1", orderID, []LineInput{
		{ComponentID: 1, UnitPrice: 26000, Quantity: 1},
		{ComponentID: 3, UnitPrice: 2800, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(26000+2*2800), vq.Price)
	assert.Equal(t, model.QuotationPending, vq.Status)

	lines := quotes.lines[quotationKey("vendor-1", orderID)]
	require.Len(t, lines, 2)
	for _, ln := range lines {
		assert.Equal(t, model.QuotationPending, ln.Status)
	}
}

func TestSubmitRejectsSecondQuotation(t *testing.T) {
	svc, _, orderID := newQuotationServiceForTest(t)

	_, err := svc.Submit(context.Background(), "vendor-1", orderID, []LineInput{
		{ComponentID: 1, UnitPrice: 26000},
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "vendor-1", orderID, []LineInput{
		{ComponentID: 1, UnitPrice: 25000},
	})
	require.ErrorIs(t, err, ErrAlreadyQuoted)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, orderID := newQuotationServiceForTest(t)

	_, err := svc.Submit(context.Background(), "vendor-1", orderID, nil)
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), "vendor-1", orderID, []LineInput{
		{ComponentID: 1, UnitPrice: 0},
	})
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), "vendor-1", 999, []LineInput{
		{ComponentID: 1, UnitPrice: 100},
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptQuotation(t *testing.T) {
	svc, quotes, orderID := newQuotationServiceForTest(t)

	_, err := svc.Submit(context.Background(), "vendor-1", orderID, []LineInput{
		{ComponentID: 1, UnitPrice: 26000},
		{ComponentID: 3, UnitPrice: 2800},
	})
	require.NoError(t, err)

	vq, err := svc.Decide(context.Background(), "vendor-1", orderID, true)
	require.NoError(t, err)
	assert.Equal(t, model.QuotationAccepted, vq.Status)

	for _, ln := range quotes.lines[quotationKey("vendor-1", orderID)] {
		assert.Equal(t, model.QuotationAccepted, ln.Status)
	}

	stats, err := svc.Stats(context.Background(), "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OrdersWon)
	assert.Equal(t, int64(0), stats.OrdersLost)
}

func TestDecideIsIdempotentGuarded(t *testing.T) {
	svc, _, orderID := newQuotationServiceForTest(t)

	_, err := svc.Submit(context.Background(), "vendor-1", orderID, []LineInput{
		{ComponentID: 1, UnitPrice: 26000},
	})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), "vendor-1", orderID, true)
	require.NoError(t, err)

	// A repeated accept must not double-increment the win counter.
	_, err = svc.Decide(context.Background(), "vendor-1", orderID, true)
	require.ErrorIs(t, err, ErrAlreadyDecided)

	stats, err := svc.Stats(context.Background(), "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OrdersWon)

	// Nor may it be flipped to rejected afterwards.
	_, err = svc.Decide(context.Background(), "vendor-1", orderID, false)
	require.ErrorIs(t, err, ErrAlreadyDecided)
	stats, _ = svc.Stats(context.Background(), "vendor-1")
	assert.Equal(t, int64(0), stats.OrdersLost)
}

func TestRejectQuotation(t *testing.T) {
	svc, _, orderID := newQuotationServiceForTest(t)

	_, err := svc.Submit(context.Background(), "vendor-2", orderID, []LineInput{
		{ComponentID: 2, UnitPrice: 4200},
	})
	require.NoError(t, err)

	vq, err := svc.Decide(context.Background(), "vendor-2", orderID, false)
	require.NoError(t, err)
	assert.Equal(t, model.QuotationRejected, vq.Status)

	stats, err := svc.Stats(context.Background(), "vendor-2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.OrdersWon)
	assert.Equal(t, int64(1), stats.OrdersLost)
}

func TestDecideSynthesizesMissingAggregate(t *testing.T) {
	svc, quotes, orderID := newQuotationServiceForTest(t)

	// Component lines exist without an aggregate row: the decision must
	// synthesize one from the summed lines before applying the status.
	key := quotationKey("vendor-3", orderID)
	quotes.lines[key] = []model.ComponentQuotation{
		{VendorUID: "vendor-3", OrderID: orderID, ComponentID: 1, UnitPrice: 27000, Quantity: 1, Status: model.QuotationPending},
		{VendorUID: "vendor-3", OrderID: orderID, ComponentID: 2, UnitPrice: 4100, Quantity: 2, Status: model.QuotationPending},
	}

	vq, err := svc.Decide(context.Background(), "vendor-3", orderID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(27000+2*4100), vq.Price)
	assert.Equal(t, model.QuotationAccepted, vq.Status)

	stats, _ := svc.Stats(context.Background(), "vendor-3")
	assert.Equal(t, int64(1), stats.OrdersWon)
}
