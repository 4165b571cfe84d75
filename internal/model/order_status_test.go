package model

import (
	"errors"
	"testing"
)

func TestOrderStatusNext(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		want    OrderStatus
		wantErr error
	}{
		{"order received", StatusOrderReceived, StatusComponentsOrdered, nil},
		{"components ordered", StatusComponentsOrdered, StatusComponentsReceived, nil},
		{"components received", StatusComponentsReceived, StatusPCBuilding, nil},
		{"building", StatusPCBuilding, StatusPCTesting, nil},
		{"testing", StatusPCTesting, StatusShipped, nil},
		{"shipped", StatusShipped, StatusDelivered, nil},
		{"delivered is terminal", StatusDelivered, "", ErrTerminalStatus},
		{"cancelled is terminal", StatusCancelled, "", ErrTerminalStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Next()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err=%v want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Next(%s)=%s want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestOrderStatusNextUnknown(t *testing.T) {
	if _, err := OrderStatus("processing").Next(); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestOrderStatusDefaultMessages(t *testing.T) {
	all := append([]OrderStatus{}, statusSequence...)
	all = append(all, StatusCancelled)
	for _, s := range all {
		if s.DefaultMessage() == "" {
			t.Fatalf("status %s has no default message", s)
		}
		if !s.Valid() {
			t.Fatalf("status %s should be valid", s)
		}
	}
	if OrderStatus("processing").Valid() {
		t.Fatal("processing must not be a valid status")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range statusSequence[:len(statusSequence)-1] {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
	if !StatusDelivered.Terminal() || !StatusCancelled.Terminal() {
		t.Fatal("delivered and cancelled must be terminal")
	}
}
