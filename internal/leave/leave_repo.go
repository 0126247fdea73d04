package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	Update(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	List(ctx context.Context, filters ListFilters) ([]LeaveRequest, error)
	// HasPendingOnDate backs the one-pending-per-date rule; callers run it
	// inside the insert transaction.
	HasPendingOnDate(ctx context.Context, caregiverID uuid.UUID, date time.Time) (bool, error)
	CaregiverLocation(ctx context.Context, caregiverID string) (uuid.UUID, error)
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

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) Update(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).First(&lr, "id = ?", id).Error
	return &lr, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lr, "id = ?", id).Error
	return &lr, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).Model(&LeaveRequest{})
	if filters.CaregiverID != "" {
		q = q.Where("caregiver_id = ?", filters.CaregiverID)
	}
	if filters.LocationID != "" {
		q = q.Where("location_id = ?", filters.LocationID)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.StartDate != "" {
		q = q.Where("date >= ?", filters.StartDate)
	}
	if filters.EndDate != "" {
		q = q.Where("date <= ?", filters.EndDate)
	}

	var requests []LeaveRequest
	err := q.Order("date DESC, requested_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) HasPendingOnDate(ctx context.Context, caregiverID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("caregiver_id = ?", caregiverID).
		Where("date = ?", date).
		Where("status = ?", StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CaregiverLocation(ctx context.Context, caregiverID string) (uuid.UUID, error) {
	var locationID uuid.UUID
	err := r.db.WithContext(ctx).
		Table("caregivers").
		Select("location_id").
		Where("id = ?", caregiverID).
		Where("deleted_at IS NULL").
		Take(&locationID).Error
	return locationID, err
}
