package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Deba1597/backendProject/internal/domain"
	"github.com/Deba1597/backendProject/internal/kafka"
	"github.com/Deba1597/backendProject/internal/logger"
)

// Kafka topics for user domain events.
const (
	TopicUserRegistered = "backend.user.registered"
	TopicUserUpdated    = "backend.user.updated"
)

const aggregateTypeUser = "user"

// Source identifier for events originating from this service.
const sourceBackendAPI = "backend-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// UserUpdatedData is the payload for a user.updated event.
type UserUpdatedData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Publisher sends user lifecycle events to the broker. The service layer
// depends on this interface so tests can capture published events.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishUserUpdated(ctx context.Context, user *domain.User) error
}

// Producer publishes user domain events to Kafka.
type Producer struct {
	kafka  *kafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(k *kafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  k,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
	return p.publish(ctx, TopicUserRegistered, user.ID, data)
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	data := UserUpdatedData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
	return p.publish(ctx, TopicUserUpdated, user.ID, data)
}

func (p *Producer) publish(ctx context.Context, topic, userID string, data any) error {
	ev, err := kafka.NewEvent(topic, userID, aggregateTypeUser, sourceBackendAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		ev.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "user event published",
		slog.String("topic", topic),
		slog.String("user_id", userID),
	)
	return nil
}
