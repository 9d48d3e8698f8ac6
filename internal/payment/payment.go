package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/oseayemenre/bookstore/internal/models"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

var ErrGatewayNotConfigured = errors.New("payment gateway is not configured")

type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency string, receipt string) (*models.GatewayOrder, error)
	FetchOrder(ctx context.Context, id string) (*models.GatewayOrder, error)
}

// ToMinorUnits converts an amount to the smallest currency unit (paise for
// INR), rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyId string, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyId, keySecret),
	}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string, receipt string) (*models.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   ToMinorUnits(amount),
		"currency": currency,
		"receipt":  receipt,
	}, nil)

	if err != nil {
		return nil, fmt.Errorf("error creating gateway order: %v", err)
	}

	return parseOrder(body)
}

func (g *RazorpayGateway) FetchOrder(ctx context.Context, id string) (*models.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.client.Order.Fetch(id, nil, nil)

	if err != nil {
		return nil, fmt.Errorf("error fetching gateway order: %v", err)
	}

	return parseOrder(body)
}

func parseOrder(body map[string]interface{}) (*models.GatewayOrder, error) {
	id, _ := body["id"].(string)

	if id == "" {
		return nil, fmt.Errorf("gateway order response has no id")
	}

	order := &models.GatewayOrder{Id: id}
	order.Currency, _ = body["currency"].(string)
	order.Receipt, _ = body["receipt"].(string)
	order.Status, _ = body["status"].(string)

	switch v := body["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	}

	return order, nil
}

// Unconfigured stands in when no gateway credentials are set.
type Unconfigured struct{}

func (Unconfigured) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string, receipt string) (*models.GatewayOrder, error) {
	return nil, ErrGatewayNotConfigured
}

func (Unconfigured) FetchOrder(ctx context.Context, id string) (*models.GatewayOrder, error) {
	return nil, ErrGatewayNotConfigured
}
