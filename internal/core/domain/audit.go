package domain

import "time"

// AuditEvent records one state-changing operation for later review.
type AuditEvent struct {
	EventID    string    `json:"eventID"`
	Actor      string    `json:"actor"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	Action     string    `json:"action"`
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus,omitempty"`
	Before     any       `json:"before,omitempty"`
	After      any       `json:"after,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
