package services

import (
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrInvalidAmount rejects charges that would be zero or negative after
// minor-unit conversion.
var ErrInvalidAmount = errors.New("payment amount must be greater than zero")

// PaymentProvider mints a client-usable payment handle for an amount in
// currency minor units. The handlers depend on this interface, not on
// Stripe directly.
type PaymentProvider interface {
	CreateIntent(amountMinor int64, currency string) (id string, clientSecret string, err error)
}

// MinorUnits converts a decimal price to currency minor units, rounding
// half-up at the cent: 45.00 -> 4500.
func MinorUnits(price decimal.Decimal) (int64, error) {
	cents := price.Mul(decimal.NewFromInt(100)).Round(0)
	if !cents.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// StripeProvider is the production PaymentProvider.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	if secretKey == "" {
		log.Println("⚠️  STRIPE_SECRET_KEY not set, payment intents will fail")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateIntent(amountMinor int64, currency string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", err
	}
	return intent.ID, intent.ClientSecret, nil
}
