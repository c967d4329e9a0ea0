package models

// Tenant lifecycle operations carried in published events.
const (
	OpProvision = "provision"
	OpStart     = "start"
	OpResize    = "resize"
	OpDestroy   = "destroy"
)

// TenantEvent is a tenant lifecycle event published to Kafka.
type TenantEvent struct {
	EventID   string `json:"event_id"`          // Unique event identifier
	UserID    int64  `json:"user_id"`           // Owner of the tenant
	Operation string `json:"operation"`         // One of the Op* constants
	SizeGB    int64  `json:"size_gb,omitempty"` // Quota involved, when applicable
	Port      int64  `json:"port,omitempty"`    // Tenant port, when applicable
	Timestamp int64  `json:"timestamp"`         // Unix time the event was published
}
