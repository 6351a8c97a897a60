package notifications

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus tracks the outcome of a notification delivery attempt.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "PENDING"
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusFailed    DeliveryStatus = "FAILED"
)

// SentNotification records one transition notification.
type SentNotification struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	ActorID     uuid.UUID      `gorm:"type:uuid;not null" json:"actor_id"`
	RecipientID *uuid.UUID     `gorm:"type:uuid" json:"recipient_id,omitempty"`
	Event       string         `gorm:"not null" json:"event"`
	Subject     string         `json:"subject"`
	Body        string         `json:"body"`
	Status      DeliveryStatus `gorm:"not null;default:'PENDING'" json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
}
