package roster

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=roster_repo.go -destination=mock/roster_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *RosterEntry) error
	Update(ctx context.Context, e *RosterEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id string) (*RosterEntry, error)
	FindByIDForUpdate(ctx context.Context, id string) (*RosterEntry, error)
	FindByDateRange(ctx context.Context, start, end time.Time, locationID string) ([]RosterEntry, error)
	// HasOverlappingShift reports whether the caregiver already has a
	// PUBLISHED or ACTIVE entry on the date whose [start,end) window
	// intersects the given one. excludeID skips the entry being updated.
	HasOverlappingShift(ctx context.Context, caregiverID uuid.UUID, date time.Time, startTime, endTime string, excludeID *uuid.UUID) (bool, error)
	// HasAnyOnDate reports whether the caregiver has any entry on the date,
	// in any status. Used by the leave gate for full-day clashes.
	HasAnyOnDate(ctx context.Context, caregiverID uuid.UUID, date time.Time) (bool, error)
	CaregiverExists(ctx context.Context, id string) (bool, error)
	LocationExists(ctx context.Context, id string) (bool, error)
	RoomBedExists(ctx context.Context, id string) (bool, error)
	CaregiverEmail(ctx context.Context, id uuid.UUID) (string, error)
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

func (r *repository) Create(ctx context.Context, e *RosterEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Update(ctx context.Context, e *RosterEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&RosterEntry{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*RosterEntry, error) {
	var e RosterEntry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*RosterEntry, error) {
	var e RosterEntry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByDateRange(ctx context.Context, start, end time.Time, locationID string) ([]RosterEntry, error) {
	q := r.db.WithContext(ctx).
		Where("shift_date >= ?", start).
		Where("shift_date <= ?", end)
	if locationID != "" {
		q = q.Where("location_id = ?", locationID)
	}

	var entries []RosterEntry
	err := q.Order("shift_date ASC, start_time ASC").Find(&entries).Error
	return entries, err
}

func (r *repository) HasOverlappingShift(ctx context.Context, caregiverID uuid.UUID, date time.Time, startTime, endTime string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&RosterEntry{}).
		Where("caregiver_id = ?", caregiverID).
		Where("shift_date = ?", date).
		Where("status IN ?", []string{StatusPublished, StatusActive}).
		Where("start_time < ?", endTime).
		Where("end_time > ?", startTime)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) HasAnyOnDate(ctx context.Context, caregiverID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RosterEntry{}).
		Where("caregiver_id = ?", caregiverID).
		Where("shift_date = ?", date).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CaregiverExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("caregivers").
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) LocationExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("locations").
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) RoomBedExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("room_beds").
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CaregiverEmail(ctx context.Context, id uuid.UUID) (string, error) {
	var email string
	err := r.db.WithContext(ctx).
		Table("caregivers").
		Select("email").
		Where("id = ?", id).
		Scan(&email).Error
	return email, err
}
