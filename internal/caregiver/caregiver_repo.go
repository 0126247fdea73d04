package caregiver

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=caregiver_repo.go -destination=mock/caregiver_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, c *Caregiver) error
	FindByID(ctx context.Context, id string) (*Caregiver, error)
	FindByEmail(ctx context.Context, email string) (*Caregiver, error)
	FindAll(ctx context.Context, locationID string) ([]Caregiver, error)
	Update(ctx context.Context, c *Caregiver) error
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

func (r *repository) Create(ctx context.Context, c *Caregiver) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Caregiver, error) {
	var c Caregiver
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Caregiver, error) {
	var c Caregiver
	err := r.db.WithContext(ctx).First(&c, "email = ?", email).Error
	return &c, err
}

func (r *repository) FindAll(ctx context.Context, locationID string) ([]Caregiver, error) {
	db := r.db.WithContext(ctx)
	if locationID != "" {
		db = db.Where("location_id = ?", locationID)
	}
	var caregivers []Caregiver
	err := db.Order("last_name ASC, first_name ASC").Find(&caregivers).Error
	return caregivers, err
}

func (r *repository) Update(ctx context.Context, c *Caregiver) error {
	return r.db.WithContext(ctx).Save(c).Error
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
