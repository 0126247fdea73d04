package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeFullDay   = "FULL_DAY"
	TypeHalfDayAM = "HALF_DAY_AM"
	TypeHalfDayPM = "HALF_DAY_PM"
)

// LeaveRequest is a caregiver's request for a day (or half day) off.
// Attachments holds stored-file metadata; the bytes live on disk.
type LeaveRequest struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaregiverID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_leaves_caregiver_date;uniqueIndex:uq_leave_pending_per_day,where:status = 'PENDING' AND deleted_at IS NULL"`
	LocationID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_leaves_location"`
	Date         time.Time      `gorm:"type:date;not null;index:idx_leaves_caregiver_date;uniqueIndex:uq_leave_pending_per_day"`
	Type         string         `gorm:"size:20;not null"`
	Status       string         `gorm:"size:20;not null;default:'PENDING';index:idx_leaves_status"`
	Reason       string         `gorm:"type:text"`
	Attachments  datatypes.JSON `gorm:"type:jsonb"`
	RequestedAt  time.Time      `gorm:"not null"`
	DecidedAt    *time.Time
	DecidedBy    *uuid.UUID `gorm:"type:uuid"`
	DecisionNote string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// AttachmentMeta is what gets persisted per uploaded file.
type AttachmentMeta struct {
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
