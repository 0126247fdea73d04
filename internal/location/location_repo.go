package location

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=location_repo.go -destination=mock/location_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *Location) error
	FindAll(ctx context.Context) ([]Location, error)
	FindByID(ctx context.Context, id string) (*Location, error)
	FindByName(ctx context.Context, name string) (*Location, error)
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

func (r *repository) Create(ctx context.Context, l *Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Location, error) {
	var locations []Location
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&locations).Error
	return locations, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Location, error) {
	var l Location
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByName(ctx context.Context, name string) (*Location, error) {
	var l Location
	err := r.db.WithContext(ctx).First(&l, "name = ?", name).Error
	return &l, err
}
