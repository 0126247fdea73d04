package location

import (
	"context"
	"errors"

	"go-carehome/internal/audit"
	locationerrors "go-carehome/internal/location/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=location_service.go -destination=mock/location_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLocationRequest) (LocationResponse, error)
	GetAll(ctx context.Context) ([]LocationResponse, error)
	GetByID(ctx context.Context, id string) (LocationResponse, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("location.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("location.service")
	}
	return &service{db: db, repo: repo, auditor: auditor, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLocationRequest) (LocationResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create location begin tx failed", zap.Error(tx.Error))
		return LocationResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByName(ctx, req.Name); err == nil {
		return LocationResponse{}, locationerrors.ErrLocationNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return LocationResponse{}, err
	}

	l := &Location{
		ID:       uuid.New(),
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Postcode: req.Postcode,
		Phone:    req.Phone,
		Email:    req.Email,
		Capacity: req.Capacity,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create location persist failed", zap.Error(err))
		return LocationResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create location commit failed", zap.Error(err))
		return LocationResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "LOCATION_CREATE",
		EntityType: "LOCATION",
		EntityID:   l.ID.String(),
		UserID:     actorID,
		Changes:    map[string]any{"operation": "CREATE", "name": l.Name},
	})
	s.logger.Info("create location success", zap.String("location_id", l.ID.String()))

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LocationResponse, error) {
	locations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]LocationResponse, len(locations))
	for i, l := range locations {
		resp[i] = mapToResponse(l)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LocationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LocationResponse{}, locationerrors.ErrInvalidLocationID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LocationResponse{}, locationerrors.ErrLocationNotFound
		}
		return LocationResponse{}, err
	}
	return mapToResponse(*l), nil
}

func mapToResponse(l Location) LocationResponse {
	return LocationResponse{
		ID:       l.ID.String(),
		Name:     l.Name,
		Address:  l.Address,
		City:     l.City,
		Postcode: l.Postcode,
		Phone:    l.Phone,
		Email:    l.Email,
		Capacity: l.Capacity,
	}
}
