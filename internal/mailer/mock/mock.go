package mock

import (
	"context"
	"log/slog"
	"time"

	"github.com/utafrali/bookvault/internal/mailer"
)

// MockMailer is a mailer implementation that logs email and always succeeds.
// It simulates a 10ms delay to mimic real delivery latency.
type MockMailer struct {
	logger *slog.Logger
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer(logger *slog.Logger) *MockMailer {
	return &MockMailer{logger: logger}
}

// Name returns the name of this mailer.
func (m *MockMailer) Name() string {
	return "mock"
}

// Send logs the email details and simulates a 10ms delivery delay.
func (m *MockMailer) Send(ctx context.Context, email mailer.Email) error {
	// Simulate delivery delay.
	time.Sleep(10 * time.Millisecond)

	m.logger.InfoContext(ctx, "mock mailer: email sent",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
	)

	return nil
}
