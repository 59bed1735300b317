package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// AuditEvent records an out-of-band administrative action, such as a forced
// memo status transition. Events are append-only.
type AuditEvent struct {
	EventID    string    `json:"eventID"`
	EntityType string    `json:"entityType"` // e.g. "memo", "folder"
	EntityID   string    `json:"entityID"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actorID"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"createdAt"`
}
