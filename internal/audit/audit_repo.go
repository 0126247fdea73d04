package audit

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Query struct {
	UserID     string
	EntityType string
	EntityID   string
	Action     string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

type ActionCount struct {
	Action string
	Count  int64
}

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	Find(ctx context.Context, q Query) ([]AuditLog, int64, error)
	CountByStatus(ctx context.Context, status string, from, to *time.Time) (int64, error)
	CountByAction(ctx context.Context, from, to *time.Time) ([]ActionCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) scoped(ctx context.Context, q Query) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&AuditLog{})
	if q.UserID != "" {
		db = db.Where("user_id = ?", q.UserID)
	}
	if q.EntityType != "" {
		db = db.Where("entity_type = ?", q.EntityType)
	}
	if q.EntityID != "" {
		db = db.Where("entity_id = ?", q.EntityID)
	}
	if q.Action != "" {
		db = db.Where("action = ?", q.Action)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.StartDate != nil {
		db = db.Where("created_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		db = db.Where("created_at <= ?", *q.EndDate)
	}
	return db
}

func (r *repository) Find(ctx context.Context, q Query) ([]AuditLog, int64, error) {
	var total int64
	if err := r.scoped(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var rows []AuditLog
	err := r.scoped(ctx, q).
		Order("created_at DESC").
		Limit(limit).
		Offset(q.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) CountByStatus(ctx context.Context, status string, from, to *time.Time) (int64, error) {
	var count int64
	err := r.scoped(ctx, Query{Status: status, StartDate: from, EndDate: to}).Count(&count).Error
	return count, err
}

func (r *repository) CountByAction(ctx context.Context, from, to *time.Time) ([]ActionCount, error) {
	var rows []ActionCount
	err := r.scoped(ctx, Query{StartDate: from, EndDate: to}).
		Select("action, COUNT(*) AS count").
		Group("action").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
