package models

import (
	"encoding/json"
	"time"
)

// NotificationType classifies a notification for presentation and routing.
type NotificationType string

// Notification types produced by the backend.
const (
	NotifyJobStatus      NotificationType = "job_status"
	NotifyNewBid         NotificationType = "new_bid"
	NotifyBidUpdate      NotificationType = "bid_update"
	NotifyJobUpdate      NotificationType = "job_update"
	NotifyServiceRequest NotificationType = "service_request"
	NotifyCustomMessage  NotificationType = "custom_message"
)

// Notification is a message produced by the backend for the current user.
// The client treats notifications as read-only apart from the local read
// marker; delivery happens via REST pull or the realtime channel, and the
// same notification may arrive through both, so consumers deduplicate by ID.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Content   string           `json:"content"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"is_read"`
	Timestamp time.Time        `json:"timestamp"`
}

// Event is a single JSON frame received on the realtime channel. Payload
// holds the type-specific body; notification events decode into
// [Notification].
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
