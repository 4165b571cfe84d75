// Package pricing turns a build's component cost into the final amount the
// customer pays. All money values are whole rupees.
package pricing

import "github.com/shopspring/decimal"

const (
	// DefaultWeightKG is used until components carry real weights.
	DefaultWeightKG = 5.0

	deliveryPerKG = 200
	deliveryFloor = 500
	deliveryCeil  = 2000
)

var gstRate = decimal.NewFromFloat(0.18)

// Quote is the full price breakdown for one build.
type Quote struct {
	ComponentCost  int64
	BuildCharge    int64
	WeightKG       float64
	DeliveryCharge int64
	GST            int64
	Total          int64
}

// BuildCharge is the flat assembly fee, tiered by component cost.
func BuildCharge(componentCost int64) int64 {
	switch {
	case componentCost < 25000:
		return 2500
	case componentCost < 50000:
		return 3500
	case componentCost < 100000:
		return 5000
	default:
		return 7500
	}
}

// DeliveryCharge scales with weight and is clamped to [500, 2000].
func DeliveryCharge(weightKG float64) int64 {
	charge := decimal.NewFromFloat(weightKG).
		Mul(decimal.NewFromInt(deliveryPerKG)).
		Round(0).IntPart()
	if charge < deliveryFloor {
		return deliveryFloor
	}
	if charge > deliveryCeil {
		return deliveryCeil
	}
	return charge
}

// GST is 18% of the pre-tax subtotal, rounded half away from zero.
func GST(taxable int64) int64 {
	return decimal.NewFromInt(taxable).Mul(gstRate).Round(0).IntPart()
}

// Calculate prices a build. componentCost must be non-negative and weightKG
// positive; callers validate inputs before invoking.
func Calculate(componentCost int64, weightKG float64) Quote {
	build := BuildCharge(componentCost)
	delivery := DeliveryCharge(weightKG)
	taxable := componentCost + build + delivery
	gst := GST(taxable)
	return Quote{
		ComponentCost:  componentCost,
		BuildCharge:    build,
		WeightKG:       weightKG,
		DeliveryCharge: delivery,
		GST:            gst,
		Total:          taxable + gst,
	}
}
