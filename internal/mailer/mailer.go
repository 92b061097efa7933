package mailer

import "context"

// Email is a single outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer defines the interface for delivering email through a specific backend.
type Mailer interface {
	Name() string
	Send(ctx context.Context, email Email) error
}
