package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/omniwatch/cinema-client/internal/domain"
	appvalidator "github.com/omniwatch/cinema-client/internal/validator"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentmethod"
)

// CardDetails is the raw card input collected from the user. It exists only
// long enough to be tokenized; it is never part of any backend payload.
type CardDetails struct {
	Number   string `validate:"required,credit_card"`
	ExpMonth int64  `validate:"required,min=1,max=12"`
	ExpYear  int64  `validate:"required,min=2000"`
	CVC      string `validate:"required,numeric,min=3,max=4"`
	Name     string `validate:"required"`
	Email    string `validate:"omitempty,email"`
}

// Tokenizer turns raw card details into an opaque payment-method token the
// backend can charge without ever seeing the card.
type Tokenizer interface {
	Tokenize(ctx context.Context, card CardDetails) (string, error)
}

// StripeTokenizer creates Stripe PaymentMethods with the publishable key,
// the same client-side half of the integration a browser performs with
// Stripe.js.
type StripeTokenizer struct {
	validator *validator.Validate
}

func NewStripeTokenizer(publishableKey string, v *validator.Validate) *StripeTokenizer {
	stripe.Key = publishableKey

	return &StripeTokenizer{validator: v}
}

func (s *StripeTokenizer) Tokenize(ctx context.Context, card CardDetails) (string, error) {
	err := s.validator.Struct(card)
	if err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return "", appvalidator.ToValidationError(fieldErrs)
		}

		return "", err
	}

	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(card.ExpMonth),
			ExpYear:  stripe.Int64(card.ExpYear),
			CVC:      stripe.String(card.CVC),
		},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name:  stripe.String(card.Name),
			Email: stripe.String(card.Email),
		},
	}
	params.Context = ctx

	pm, err := paymentmethod.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return "", &domain.PaymentError{Message: stripeErr.Msg}
		}

		return "", &domain.PaymentError{Message: fmt.Sprintf("card could not be tokenized: %v", err)}
	}

	return pm.ID, nil
}
