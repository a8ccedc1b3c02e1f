package payment

import "context"

// MockTokenizer returns a canned payment-method token, for tests and for
// running the CLI against a backend that simulates its payment leg.
type MockTokenizer struct {
	Token string
	Err   error
}

func (m *MockTokenizer) Tokenize(ctx context.Context, card CardDetails) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}

	if m.Token != "" {
		return m.Token, nil
	}

	return "pm_mock", nil
}
