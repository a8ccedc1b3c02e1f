package payment

import (
	"context"
	"testing"

	"github.com/omniwatch/cinema-client/internal/domain"
	appvalidator "github.com/omniwatch/cinema-client/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() CardDetails {
	return CardDetails{
		Number:   "4242424242424242",
		ExpMonth: 12,
		ExpYear:  2030,
		CVC:      "123",
		Name:     "Amara Osei",
		Email:    "amara@example.com",
	}
}

func TestTokenizeRejectsInvalidCards(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(card *CardDetails)
		wantField string
	}{
		{
			name:      "should reject a card number failing the Luhn check",
			mutate:    func(card *CardDetails) { card.Number = "4242424242424241" },
			wantField: "number",
		},
		{
			name:      "should reject a missing card number",
			mutate:    func(card *CardDetails) { card.Number = "" },
			wantField: "number",
		},
		{
			name:      "should reject an out-of-range expiry month",
			mutate:    func(card *CardDetails) { card.ExpMonth = 13 },
			wantField: "expmonth",
		},
		{
			name:      "should reject a non-numeric CVC",
			mutate:    func(card *CardDetails) { card.CVC = "12a" },
			wantField: "cvc",
		},
		{
			name:      "should reject a missing cardholder name",
			mutate:    func(card *CardDetails) { card.Name = "" },
			wantField: "name",
		},
		{
			name:      "should reject a malformed email",
			mutate:    func(card *CardDetails) { card.Email = "not-an-email" },
			wantField: "email",
		},
	}

	tokenizer := NewStripeTokenizer("pk_test_123", appvalidator.NewValidator())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)

			_, err := tokenizer.Tokenize(context.Background(), card)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotEmpty(t, validationErr.Fields)
			assert.Equal(t, tt.wantField, validationErr.Fields[0].Field)
		})
	}
}

func TestTokenizeAllowsEmptyEmail(t *testing.T) {
	card := validCard()
	card.Email = ""

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the cancelled context stops the request before it leaves the machine;
	// reaching the transport at all means validation accepted the card
	_, err := NewStripeTokenizer("pk_test_123", appvalidator.NewValidator()).
		Tokenize(ctx, card)

	var validationErr *domain.ValidationError
	assert.NotErrorAs(t, err, &validationErr, "empty email must not fail validation")
}

func TestMockTokenizer(t *testing.T) {
	tokenizer := &MockTokenizer{}

	token, err := tokenizer.Tokenize(context.Background(), validCard())
	require.NoError(t, err)
	assert.Equal(t, "pm_mock", token)

	tokenizer.Token = "pm_custom"
	token, err = tokenizer.Tokenize(context.Background(), CardDetails{})
	require.NoError(t, err)
	assert.Equal(t, "pm_custom", token)
}
