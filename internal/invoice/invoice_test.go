package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
)

func TestRender(t *testing.T) {
	o := &model.Order{
		ID:             42,
		TrackingCode:   "NXB-123456",
		Status:         model.StatusOrderReceived,
		ComponentCost:  45000,
		BuildCharge:    3500,
		DeliveryCharge: 1000,
		GST:            8910,
		Total:          58410,
		CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	sels := []model.BuildSelection{
		{Category: model.CategoryProcessor, ComponentName: "Ryzen 7 7700X", UnitPrice: 28000, Quantity: 1},
		{Category: model.CategoryMemory, ComponentName: "32GB DDR5", UnitPrice: 9000, Quantity: 1},
	}
	pdf, err := Render(o, sels)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("empty pdf output")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", pdf[:8])
	}
}
