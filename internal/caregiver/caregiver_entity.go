package caregiver

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Caregiver struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_caregivers_location"`
	FirstName    string         `gorm:"size:100;not null"`
	LastName     string         `gorm:"size:100;not null"`
	Email        string         `gorm:"size:255;not null;uniqueIndex:uq_caregiver_email"`
	Phone        string         `gorm:"size:30"`
	PasswordHash string         `gorm:"size:100;not null"`
	Status       string         `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	HireDate     time.Time      `gorm:"type:date"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Caregiver) TableName() string {
	return "caregivers"
}

func (c Caregiver) FullName() string {
	return c.FirstName + " " + c.LastName
}
