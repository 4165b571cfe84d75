package pricing

import "testing"

func TestBuildCharge(t *testing.T) {
	tests := []struct {
		name string
		cost int64
		want int64
	}{
		{"zero", 0, 2500},
		{"just below first tier", 24999, 2500},
		{"first tier boundary", 25000, 3500},
		{"mid second tier", 45000, 3500},
		{"second tier boundary", 50000, 5000},
		{"just below third tier", 99999, 5000},
		{"third tier boundary", 100000, 7500},
		{"high end", 500000, 7500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildCharge(tt.cost); got != tt.want {
				t.Fatalf("BuildCharge(%d)=%d want %d", tt.cost, got, tt.want)
			}
		})
	}
}

func TestBuildChargeMonotonic(t *testing.T) {
	var prev int64
	for cost := int64(0); cost <= 150000; cost += 500 {
		got := BuildCharge(cost)
		if got < prev {
			t.Fatalf("BuildCharge decreased at cost=%d: %d < %d", cost, got, prev)
		}
		switch got {
		case 2500, 3500, 5000, 7500:
		default:
			t.Fatalf("BuildCharge(%d)=%d outside allowed tiers", cost, got)
		}
		prev = got
	}
}

func TestDeliveryCharge(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		want   int64
	}{
		{"zero clamps to floor", 0, 500},
		{"light clamps to floor", 1, 500},
		{"boundary of floor", 2.5, 500},
		{"default weight", 5, 1000},
		{"heavy", 8.5, 1700},
		{"boundary of ceiling", 10, 2000},
		{"very heavy clamps to ceiling", 40, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeliveryCharge(tt.weight); got != tt.want {
				t.Fatalf("DeliveryCharge(%v)=%d want %d", tt.weight, got, tt.want)
			}
		})
	}
}

func TestDeliveryChargeBounds(t *testing.T) {
	for w := 0.0; w <= 50; w += 0.25 {
		got := DeliveryCharge(w)
		if got < 500 || got > 2000 {
			t.Fatalf("DeliveryCharge(%v)=%d outside [500,2000]", w, got)
		}
	}
}

func TestCalculate(t *testing.T) {
	// The canonical worked example: 45000 in components at the default 5 kg.
	q := Calculate(45000, DefaultWeightKG)
	if q.BuildCharge != 3500 {
		t.Fatalf("BuildCharge=%d want 3500", q.BuildCharge)
	}
	if q.DeliveryCharge != 1000 {
		t.Fatalf("DeliveryCharge=%d want 1000", q.DeliveryCharge)
	}
	if q.GST != 8910 {
		t.Fatalf("GST=%d want 8910", q.GST)
	}
	if q.Total != 58410 {
		t.Fatalf("Total=%d want 58410", q.Total)
	}
}

func TestCalculateTotalIdentity(t *testing.T) {
	for _, cost := range []int64{0, 1, 24999, 25000, 49999, 77777, 100000, 240000} {
		q := Calculate(cost, DefaultWeightKG)
		taxable := q.ComponentCost + q.BuildCharge + q.DeliveryCharge
		if q.GST != GST(taxable) {
			t.Fatalf("cost=%d: GST=%d want %d", cost, q.GST, GST(taxable))
		}
		if q.Total != taxable+q.GST {
			t.Fatalf("cost=%d: Total=%d want %d", cost, q.Total, taxable+q.GST)
		}
	}
}
