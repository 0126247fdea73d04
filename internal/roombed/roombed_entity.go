package roombed

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomBed is one physical bed within a room. isOccupied is denormalized and
// only ever flipped together with the occupant's bed reference, inside one
// transaction.
type RoomBed struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID uuid.UUID         `gorm:"type:uuid;not null;index:idx_room_beds_location;uniqueIndex:uq_room_bed_combination"`
	RoomNumber string            `gorm:"size:20;not null;uniqueIndex:uq_room_bed_combination"`
	BedNumber  string            `gorm:"size:20;not null;uniqueIndex:uq_room_bed_combination"`
	IsOccupied bool              `gorm:"not null;default:false;index:idx_room_beds_occupied"`
	Floor      string            `gorm:"size:20"`
	Wing       string            `gorm:"size:50"`
	Features   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt    `gorm:"index"`
}

func (RoomBed) TableName() string {
	return "room_beds"
}

// OccupantRef is the slice of the care_receivers table the ledger needs:
// identity, location and the owning bed reference.
type OccupantRef struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LocationID       uuid.UUID  `gorm:"column:location_id"`
	CurrentRoomBedID *uuid.UUID `gorm:"column:current_room_bed_id"`
	FirstName        string     `gorm:"column:first_name"`
	LastName         string     `gorm:"column:last_name"`
}

func (OccupantRef) TableName() string {
	return "care_receivers"
}
