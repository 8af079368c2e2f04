package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrProviderUnavailable means the payment provider could not be reached
// or reported an outage.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

type Provider interface {
	CreateSheet(ctx context.Context, amountInCents int64, currency string) (Sheet, error)
}

type StripeProvider struct {
	api            *client.API
	publishableKey string
	apiVersion     string
}

var _ Provider = StripeProvider{}

func NewStripeProvider(secretKey, publishableKey, apiVersion string) StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return StripeProvider{
		api:            sc,
		publishableKey: publishableKey,
		apiVersion:     apiVersion,
	}
}

// CreateSheet creates a customer, an ephemeral key for it and a payment
// intent for the amount.
func (p StripeProvider) CreateSheet(ctx context.Context, amountInCents int64, currency string) (Sheet, error) {
	customerParams := &stripe.CustomerParams{}
	customerParams.Context = ctx
	customer, err := p.api.Customers.New(customerParams)
	if err != nil {
		return Sheet{}, classify("create customer", err)
	}

	keyParams := &stripe.EphemeralKeyParams{
		Customer:      stripe.String(customer.ID),
		StripeVersion: stripe.String(p.apiVersion),
	}
	keyParams.Context = ctx
	key, err := p.api.EphemeralKeys.New(keyParams)
	if err != nil {
		return Sheet{}, classify("create ephemeral key", err)
	}

	intentParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
		Customer: stripe.String(customer.ID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	intentParams.Context = ctx
	intent, err := p.api.PaymentIntents.New(intentParams)
	if err != nil {
		return Sheet{}, classify("create payment intent", err)
	}

	return Sheet{
		PaymentIntentSecret: intent.ClientSecret,
		EphemeralKeySecret:  key.Secret,
		CustomerID:          customer.ID,
		PublishableKey:      p.publishableKey,
	}, nil
}

// classify maps transport failures and provider-side 5xx to
// ErrProviderUnavailable; every other error is passed through.
func classify(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%s: %w: %v", op, ErrProviderUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrProviderUnavailable, err)
}
