package service

import (
	"context"
)

// LoginEvent is published after a successful federated login for audit and
// downstream consumers (CRM sync, analytics).
type LoginEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	UserID    string `json:"user_id"`
	Provider  string `json:"provider"`
	Email     string `json:"email"`
	NewUser   bool   `json:"new_user"`
	LoginAt   string `json:"login_at"` // RFC3339
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishLoginEvent publishes a login event for async processing
	PublishLoginEvent(ctx context.Context, event *LoginEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
