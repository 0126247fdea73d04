package carereceiver

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusActive     = "ACTIVE"
	StatusDischarged = "DISCHARGED"
)

// CareReceiver is a resident of a care home location. CurrentRoomBedID is
// owned by the occupancy ledger and only changes through it.
type CareReceiver struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID       uuid.UUID         `gorm:"type:uuid;not null;index:idx_care_receivers_location"`
	CurrentRoomBedID *uuid.UUID        `gorm:"type:uuid"`
	FirstName        string            `gorm:"size:100;not null"`
	LastName         string            `gorm:"size:100;not null"`
	DateOfBirth      time.Time         `gorm:"type:date"`
	Gender           string            `gorm:"size:20"`
	CareLevel        string            `gorm:"size:30"`
	Status           string            `gorm:"size:20;not null;default:'ACTIVE';index:idx_care_receivers_status"`
	AdmissionDate    time.Time         `gorm:"type:date"`
	DischargeDate    *time.Time        `gorm:"type:date"`
	EmergencyContact datatypes.JSONMap `gorm:"type:jsonb"`
	MedicalNotes     string            `gorm:"type:text"`
	CreatedAt        time.Time         `gorm:"autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt    `gorm:"index"`
}

func (CareReceiver) TableName() string {
	return "care_receivers"
}
