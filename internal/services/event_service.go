package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/saiinfotech/catalog-be/internal/models"
)

// EventBroadcaster pushes a recorded event to live listeners (the admin
// dashboard websocket feed).
type EventBroadcaster interface {
	BroadcastEvent(event models.Event)
}

// EventServiceProvider defines the interface for audit event services.
type EventServiceProvider interface {
	Record(eventType, level, message string, productID *int64) error
	GetRecentEvents(limit int) ([]models.Event, error)
	PruneOlderThan(cutoff time.Time) (int64, error)
}

// EventService keeps an audit trail of admin actions.
type EventService struct {
	db       *sql.DB
	notifier EventBroadcaster // may be nil
}

// NewEventService creates a new EventService. notifier may be nil when no live
// feed is attached (tests, CLI tooling).
func NewEventService(db *sql.DB, notifier EventBroadcaster) *EventService {
	return &EventService{db: db, notifier: notifier}
}

// Record logs a new audit event and forwards it to the live feed.
func (s *EventService) Record(eventType, level, message string, productID *int64) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, product_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.ProductID, event.CreatedAt)
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.BroadcastEvent(event)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events, newest first.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, product_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.ProductID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneOlderThan removes events recorded before the cutoff and reports how
// many were deleted.
func (s *EventService) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
