package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/bookvault/internal/domain"
	pkgkafka "github.com/utafrali/bookvault/pkg/kafka"
)

// Kafka topic constants for user domain events.
const (
	TopicUserRegistered      = "bookvault.user.registered"
	TopicUserPasswordChanged = "bookvault.user.password_changed"
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from this service.
const SourceBookvault = "bookvault-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserPasswordChangedData is the payload for a user.password_changed event.
// Reason distinguishes a self-service update from a token-based reset.
type UserPasswordChangedData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// Password change reasons.
const (
	ReasonUpdate = "update"
	ReasonReset  = "reset"
)

// Producer publishes user domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceBookvault, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishUserPasswordChanged publishes a user.password_changed event.
func (p *Producer) PublishUserPasswordChanged(ctx context.Context, user *domain.User, reason string) error {
	data := UserPasswordChangedData{
		UserID: user.ID,
		Email:  user.Email,
		Reason: reason,
	}

	event, err := pkgkafka.NewEvent(TopicUserPasswordChanged, user.ID, AggregateTypeUser, SourceBookvault, data)
	if err != nil {
		return fmt.Errorf("create user.password_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserPasswordChanged, event); err != nil {
		return fmt.Errorf("publish user.password_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.password_changed event",
		slog.String("user_id", user.ID),
		slog.String("reason", reason),
	)

	return nil
}
