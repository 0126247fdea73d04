package caregiver

import (
	"context"
	"errors"
	"time"

	"go-carehome/internal/audit"
	caregivererrors "go-carehome/internal/caregiver/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=caregiver_service.go -destination=mock/caregiver_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, actorID string, req RegisterCaregiverRequest) (CaregiverResponse, error)
	GetByID(ctx context.Context, id string) (CaregiverResponse, error)
	GetAll(ctx context.Context, locationID string) ([]CaregiverResponse, error)
	SetStatus(ctx context.Context, actorID, id, status string) (CaregiverResponse, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("caregiver.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("caregiver.service")
	}
	return &service{db: db, repo: repo, auditor: auditor, logger: l}
}

func (s *service) Register(ctx context.Context, actorID string, req RegisterCaregiverRequest) (CaregiverResponse, error) {
	s.logger.Debug("register caregiver requested",
		zap.String("actor_id", actorID),
		zap.String("location_id", req.LocationID),
		zap.String("email", req.Email),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("register caregiver begin tx failed", zap.Error(tx.Error))
		return CaregiverResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.LocationExists(ctx, req.LocationID)
	if err != nil {
		return CaregiverResponse{}, err
	}
	if !exists {
		return CaregiverResponse{}, caregivererrors.ErrLocationNotFound
	}

	if _, err := qtx.FindByEmail(ctx, req.Email); err == nil {
		return CaregiverResponse{}, caregivererrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return CaregiverResponse{}, err
	}

	var hireDate time.Time
	if req.HireDate != "" {
		hireDate, err = time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return CaregiverResponse{}, caregivererrors.ErrInvalidHireDate
		}
	}

	initialPassword, err := generatePassword(12)
	if err != nil {
		return CaregiverResponse{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(initialPassword), bcrypt.DefaultCost)
	if err != nil {
		return CaregiverResponse{}, err
	}

	c := &Caregiver{
		ID:           uuid.New(),
		LocationID:   uuid.MustParse(req.LocationID),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Status:       StatusActive,
		HireDate:     hireDate,
	}

	if err := qtx.Create(ctx, c); err != nil {
		s.logger.Error("register caregiver persist failed", zap.Error(err))
		return CaregiverResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("register caregiver commit failed", zap.Error(err))
		return CaregiverResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "CAREGIVER_REGISTER",
		EntityType: "CAREGIVER",
		EntityID:   c.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation":   "CREATE",
			"location_id": req.LocationID,
			"email":       req.Email,
		},
	})
	s.logger.Info("register caregiver success", zap.String("caregiver_id", c.ID.String()))

	resp := mapToResponse(*c)
	resp.InitialPassword = initialPassword
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (CaregiverResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CaregiverResponse{}, caregivererrors.ErrInvalidCaregiverID
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CaregiverResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context, locationID string) ([]CaregiverResponse, error) {
	caregivers, err := s.repo.FindAll(ctx, locationID)
	if err != nil {
		return nil, err
	}
	resp := make([]CaregiverResponse, len(caregivers))
	for i, c := range caregivers {
		resp[i] = mapToResponse(c)
	}
	return resp, nil
}

func (s *service) SetStatus(ctx context.Context, actorID, id, status string) (CaregiverResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return CaregiverResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByID(ctx, id)
	if err != nil {
		return CaregiverResponse{}, mapRepositoryError(err)
	}

	previous := c.Status
	c.Status = status
	if err := qtx.Update(ctx, c); err != nil {
		return CaregiverResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return CaregiverResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "CAREGIVER_STATUS_UPDATE",
		EntityType: "CAREGIVER",
		EntityID:   c.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation": "UPDATE",
			"from":      previous,
			"to":        status,
		},
	})

	return mapToResponse(*c), nil
}

func mapToResponse(c Caregiver) CaregiverResponse {
	resp := CaregiverResponse{
		ID:         c.ID.String(),
		LocationID: c.LocationID.String(),
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Status:     c.Status,
	}
	if !c.HireDate.IsZero() {
		resp.HireDate = c.HireDate.Format("2006-01-02")
	}
	return resp
}
