package location

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"size:255;not null;uniqueIndex:uq_location_name"`
	Address   string         `gorm:"type:text;not null"`
	City      string         `gorm:"size:100"`
	Postcode  string         `gorm:"size:20"`
	Phone     string         `gorm:"size:30"`
	Email     string         `gorm:"size:255"`
	Capacity  int            `gorm:"not null;default:0"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Location) TableName() string {
	return "locations"
}
