package roster

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Publication lifecycle, driven by admins.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Execution lifecycle, driven by the caregiver working the shift.
const (
	ShiftStatusScheduled  = "SCHEDULED"
	ShiftStatusConfirmed  = "CONFIRMED"
	ShiftStatusInProgress = "IN_PROGRESS"
	ShiftStatusCompleted  = "COMPLETED"
	ShiftStatusCancelled  = "CANCELLED"
	ShiftStatusNoShow     = "NO_SHOW"
)

const (
	ShiftTypeMorning   = "MORNING"
	ShiftTypeAfternoon = "AFTERNOON"
	ShiftTypeNight     = "NIGHT"
	ShiftTypeFullDay   = "FULL_DAY"
)

// RosterEntry is one scheduled block of work for a caregiver. StartTime and
// EndTime are wall-clock "HH:MM" strings; overlap math compares them
// lexicographically, which is correct for zero-padded 24h times.
type RosterEntry struct {
	ID                      uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID              uuid.UUID      `gorm:"type:uuid;not null;index:idx_rosters_location"`
	CaregiverID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_rosters_caregiver_date;uniqueIndex:uq_roster_caregiver_window,where:deleted_at IS NULL"`
	RoomBedID               *uuid.UUID     `gorm:"type:uuid"`
	ShiftDate               time.Time      `gorm:"type:date;not null;index:idx_rosters_caregiver_date;uniqueIndex:uq_roster_caregiver_window"`
	ShiftType               string         `gorm:"size:20;not null"`
	StartTime               string         `gorm:"size:5;not null;uniqueIndex:uq_roster_caregiver_window"`
	EndTime                 string         `gorm:"size:5;not null;uniqueIndex:uq_roster_caregiver_window"`
	Status                  string         `gorm:"size:20;not null;default:'DRAFT';index:idx_rosters_status"`
	ShiftStatus             string         `gorm:"size:20;not null;default:'SCHEDULED'"`
	IsRecurring             bool           `gorm:"not null;default:false"`
	RecurrencePattern       datatypes.JSONMap `gorm:"type:jsonb"`
	Notes                   string         `gorm:"type:text"`
	ExternalCalendarEventID string         `gorm:"size:255"`
	ConfirmedAt             *time.Time
	StartedAt               *time.Time
	CompletedAt             *time.Time
	CreatedAt               time.Time      `gorm:"autoCreateTime"`
	UpdatedAt               time.Time      `gorm:"autoUpdateTime"`
	DeletedAt               gorm.DeletedAt `gorm:"index"`
}

func (RosterEntry) TableName() string {
	return "roster_entries"
}
