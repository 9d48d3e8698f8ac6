package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"0", 0},
		{"10", 1000},
		{"10.5", 1050},
		{"0.1", 10},
		{"19.999", 2000},
		{"1234.56", 123456},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := ToMinorUnits(decimal.RequireFromString(tt.amount)); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	t.Run("should read the gateway fields", func(t *testing.T) {
		order, err := parseOrder(map[string]interface{}{
			"id":       "order_abc",
			"amount":   float64(1050),
			"currency": "INR",
			"receipt":  "rcpt_1",
			"status":   "created",
		})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if order.Id != "order_abc" || order.Amount != 1050 || order.Currency != "INR" || order.Status != "created" {
			t.Fatalf("unexpected order: %+v", order)
		}
	})

	t.Run("should return an error if id is missing", func(t *testing.T) {
		if _, err := parseOrder(map[string]interface{}{"amount": float64(1)}); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{}.CreateOrder(context.TODO(), decimal.NewFromInt(1), "INR", "r")

	if !errors.Is(err, ErrGatewayNotConfigured) {
		t.Fatalf("expected %v, got %v", ErrGatewayNotConfigured, err)
	}

	_, err = Unconfigured{}.FetchOrder(context.TODO(), "order_1")

	if !errors.Is(err, ErrGatewayNotConfigured) {
		t.Fatalf("expected %v, got %v", ErrGatewayNotConfigured, err)
	}
}
