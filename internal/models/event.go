package models

import "time"

// Event represents a loggable admin action or alert in the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "product.create", "auth.login"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	ProductID *int64    `json:"productId,omitempty"` // Nullable for system-wide events
	CreatedAt time.Time `json:"createdAt"`
}
