package events

import "time"

// NotificationsTopic carries every outbound notification; the mailer service
// consumes it and renders the templated emails.
const NotificationsTopic = "care.notifications.v1"

const (
	TypeShiftScheduled = "SHIFT_SCHEDULED"
	TypeShiftUpdated   = "SHIFT_UPDATED"
	TypeShiftCancelled = "SHIFT_CANCELLED"
	TypeLeaveRequested = "LEAVE_REQUESTED"
	TypeLeaveDecided   = "LEAVE_DECIDED"
)

// ShiftNotificationEvent is emitted when a published roster entry is
// created, changed or cancelled.
type ShiftNotificationEvent struct {
	EventType   string    `json:"event_type"`
	RosterID    string    `json:"roster_id"`
	CaregiverID string    `json:"caregiver_id"`
	LocationID  string    `json:"location_id"`
	ShiftDate   string    `json:"shift_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// LeaveNotificationEvent covers both the admin alert on submission and the
// caregiver alert on decision.
type LeaveNotificationEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	CaregiverID    string    `json:"caregiver_id"`
	LocationID     string    `json:"location_id"`
	Date           string    `json:"date"`
	LeaveType      string    `json:"leave_type"`
	Decision       string    `json:"decision,omitempty"`
	DecisionNote   string    `json:"decision_note,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
