package carereceiver

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=carereceiver_repo.go -destination=mock/carereceiver_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, cr *CareReceiver) error
	Update(ctx context.Context, cr *CareReceiver) error
	FindByID(ctx context.Context, id string) (*CareReceiver, error)
	FindAll(ctx context.Context, locationID, status string) ([]CareReceiver, error)
	LocationExists(ctx context.Context, locationID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, cr *CareReceiver) error {
	return r.db.WithContext(ctx).Create(cr).Error
}

func (r *repository) Update(ctx context.Context, cr *CareReceiver) error {
	return r.db.WithContext(ctx).Save(cr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*CareReceiver, error) {
	var cr CareReceiver
	err := r.db.WithContext(ctx).First(&cr, "id = ?", id).Error
	return &cr, err
}

func (r *repository) FindAll(ctx context.Context, locationID, status string) ([]CareReceiver, error) {
	q := r.db.WithContext(ctx).Model(&CareReceiver{})
	if locationID != "" {
		q = q.Where("location_id = ?", locationID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var receivers []CareReceiver
	err := q.Order("last_name ASC, first_name ASC").Find(&receivers).Error
	return receivers, err
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
