package roombed

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=roombed_repo.go -destination=mock/roombed_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, b *RoomBed) error
	FindByID(ctx context.Context, id string) (*RoomBed, error)
	// FindByIDForUpdate takes a row lock so occupancy checks and flips are
	// serialized against concurrent assignments of the same bed.
	FindByIDForUpdate(ctx context.Context, id string) (*RoomBed, error)
	FindAllByLocation(ctx context.Context, locationID string) ([]RoomBed, error)
	FindAvailableByLocation(ctx context.Context, locationID string) ([]RoomBed, error)
	SetOccupied(ctx context.Context, id uuid.UUID, occupied bool) error
	CombinationExists(ctx context.Context, locationID, roomNumber, bedNumber string) (bool, error)
	LocationExists(ctx context.Context, locationID string) (bool, error)

	FindOccupantForUpdate(ctx context.Context, careReceiverID string) (*OccupantRef, error)
	SetOccupantBed(ctx context.Context, careReceiverID uuid.UUID, bedID *uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, b *RoomBed) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*RoomBed, error) {
	var b RoomBed
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*RoomBed, error) {
	var b RoomBed
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) FindAllByLocation(ctx context.Context, locationID string) ([]RoomBed, error) {
	var beds []RoomBed
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("room_number ASC, bed_number ASC").
		Find(&beds).Error
	return beds, err
}

func (r *repository) FindAvailableByLocation(ctx context.Context, locationID string) ([]RoomBed, error) {
	var beds []RoomBed
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Where("is_occupied = ?", false).
		Order("room_number ASC, bed_number ASC").
		Find(&beds).Error
	return beds, err
}

func (r *repository) SetOccupied(ctx context.Context, id uuid.UUID, occupied bool) error {
	return r.db.WithContext(ctx).
		Model(&RoomBed{}).
		Where("id = ?", id).
		Update("is_occupied", occupied).Error
}

func (r *repository) CombinationExists(ctx context.Context, locationID, roomNumber, bedNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RoomBed{}).
		Where("location_id = ?", locationID).
		Where("room_number = ?", roomNumber).
		Where("bed_number = ?", bedNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) LocationExists(ctx context.Context, locationID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("locations").
		Where("id = ?", locationID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindOccupantForUpdate(ctx context.Context, careReceiverID string) (*OccupantRef, error) {
	var o OccupantRef
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", careReceiverID).Error
	return &o, err
}

func (r *repository) SetOccupantBed(ctx context.Context, careReceiverID uuid.UUID, bedID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&OccupantRef{}).
		Where("id = ?", careReceiverID).
		Update("current_room_bed_id", bedID).Error
}
