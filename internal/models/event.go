package models

import "time"

// LifecycleEvent is broadcast to staff dashboards over the websocket feed
// whenever a complaint is created or changes status. It carries no submitter
// PII; dashboards fetch the full record over the REST surface.
type LifecycleEvent struct {
	ComplaintID     string    `json:"complaint_id"`
	ReferenceNumber string    `json:"reference_number"`
	Action          string    `json:"action"`
	FromStatus      Status    `json:"from_status,omitempty"`
	ToStatus        Status    `json:"to_status"`
	Department      string    `json:"department,omitempty"`
	Category        string    `json:"category"`
	OccurredAt      time.Time `json:"occurred_at"`
}
