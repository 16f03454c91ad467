package service

import (
	"context"

	"mensa/pkg/kafka"
)

// Reservation lifecycle event types.
const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventNoShowRegistered     = "reservation.no_show"
	EventStudentBlocked       = "student.blocked"
)

const eventSource = "reservations"

// EventPublisher is satisfied by kafka.Producer. A nil publisher disables
// events entirely.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type reservationEvent struct {
	PackageID string `json:"package_id"`
	StudentID string `json:"student_id,omitempty"`
}

type noShowEvent struct {
	PackageID   string `json:"package_id"`
	StudentID   string `json:"student_id"`
	EmployeeID  string `json:"employee_id"`
	NoShowCount int    `json:"no_show_count"`
}

type studentBlockedEvent struct {
	StudentID         string `json:"student_id"`
	NoShowCount       int    `json:"no_show_count"`
	CancelledPackages int    `json:"cancelled_packages"`
}

// publishEvent is best-effort. Event delivery is diagnostics and downstream
// notification, never control flow: a publish failure is logged and dropped.
func (s *reservationService) publishEvent(ctx context.Context, eventType, key string, payload any) {
	if s.events == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}
