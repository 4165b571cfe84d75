package model

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	StatusOrderReceived      OrderStatus = "order_received"
	StatusComponentsOrdered  OrderStatus = "components_ordered"
	StatusComponentsReceived OrderStatus = "components_received"
	StatusPCBuilding         OrderStatus = "pc_building"
	StatusPCTesting          OrderStatus = "pc_testing"
	StatusShipped            OrderStatus = "shipped"
	StatusDelivered          OrderStatus = "delivered"
	StatusCancelled          OrderStatus = "cancelled"
)

// ErrTerminalStatus is returned when an order in a terminal state is asked to
// move again. Terminal orders are immutable.
var ErrTerminalStatus = errors.New("order is in a terminal status")

// statusSequence is the forward fulfilment path. Cancellation sits outside
// the sequence and is reachable from any non-terminal state.
var statusSequence = []OrderStatus{
	StatusOrderReceived,
	StatusComponentsOrdered,
	StatusComponentsReceived,
	StatusPCBuilding,
	StatusPCTesting,
	StatusShipped,
	StatusDelivered,
}

var statusMessages = map[OrderStatus]string{
	StatusOrderReceived:      "We have received your order and are reviewing your build.",
	StatusComponentsOrdered:  "Components for your build have been ordered from our vendors.",
	StatusComponentsReceived: "All components have arrived at our workshop.",
	StatusPCBuilding:         "Your PC is being assembled.",
	StatusPCTesting:          "Your PC is undergoing stress testing and quality checks.",
	StatusShipped:            "Your PC has been shipped.",
	StatusDelivered:          "Your PC has been delivered. Enjoy your new build!",
	StatusCancelled:          "Your order has been cancelled.",
}

func (s OrderStatus) Valid() bool {
	_, ok := statusMessages[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Next returns the status that follows s on the fulfilment path.
func (s OrderStatus) Next() (OrderStatus, error) {
	if s.Terminal() {
		return "", ErrTerminalStatus
	}
	for i, st := range statusSequence {
		if st == s {
			return statusSequence[i+1], nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", string(s))
}

// DefaultMessage is the customer-facing text recorded when an admin does not
// supply one.
func (s OrderStatus) DefaultMessage() string {
	return statusMessages[s]
}
