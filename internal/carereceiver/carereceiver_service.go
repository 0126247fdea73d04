package carereceiver

import (
	"context"
	"errors"
	"time"

	"go-carehome/internal/audit"
	carereceivererrors "go-carehome/internal/carereceiver/errors"
	"go-carehome/internal/roombed"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:generate mockgen -source=carereceiver_service.go -destination=mock/carereceiver_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, actorID string, req RegisterCareReceiverRequest) (CareReceiverResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateCareReceiverRequest) (CareReceiverResponse, error)
	Discharge(ctx context.Context, actorID, id string) (CareReceiverResponse, error)
	GetByID(ctx context.Context, id string) (CareReceiverResponse, error)
	GetAll(ctx context.Context, locationID, status string) ([]CareReceiverResponse, error)
}

type service struct {
	repo    Repository
	beds    roombed.Service
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(repo Repository, beds roombed.Service, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("carereceiver.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("carereceiver.service")
	}
	return &service{repo: repo, beds: beds, auditor: auditor, logger: l}
}

func (s *service) Register(ctx context.Context, actorID string, req RegisterCareReceiverRequest) (CareReceiverResponse, error) {
	exists, err := s.repo.LocationExists(ctx, req.LocationID)
	if err != nil {
		return CareReceiverResponse{}, err
	}
	if !exists {
		return CareReceiverResponse{}, carereceivererrors.ErrLocationNotFound
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return CareReceiverResponse{}, carereceivererrors.ErrInvalidDate
	}

	admission := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AdmissionDate != "" {
		admission, err = time.Parse("2006-01-02", req.AdmissionDate)
		if err != nil {
			return CareReceiverResponse{}, carereceivererrors.ErrInvalidDate
		}
	}

	cr := &CareReceiver{
		ID:               uuid.New(),
		LocationID:       uuid.MustParse(req.LocationID),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      dob,
		Gender:           req.Gender,
		CareLevel:        req.CareLevel,
		Status:           StatusActive,
		AdmissionDate:    admission,
		EmergencyContact: datatypes.JSONMap(req.EmergencyContact),
		MedicalNotes:     req.MedicalNotes,
	}
	if err := s.repo.Create(ctx, cr); err != nil {
		s.logger.Error("register care receiver persist failed", zap.Error(err))
		return CareReceiverResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "CARE_RECEIVER_REGISTER",
		EntityType: "CARE_RECEIVER",
		EntityID:   cr.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation":   "CREATE",
			"location_id": req.LocationID,
		},
	})
	s.logger.Info("care receiver registered", zap.String("care_receiver_id", cr.ID.String()))

	// The initial placement goes through the ledger so occupancy and the
	// bed reference still change atomically.
	if req.InitialRoomBedID != "" {
		assigned, err := s.beds.Assign(ctx, actorID, roombed.AssignRequest{
			CareReceiverID: cr.ID.String(),
			RoomBedID:      req.InitialRoomBedID,
		})
		if err != nil {
			return CareReceiverResponse{}, err
		}
		bedID := uuid.MustParse(assigned.RoomBed.ID)
		cr.CurrentRoomBedID = &bedID
	}

	return mapToResponse(*cr), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateCareReceiverRequest) (CareReceiverResponse, error) {
	cr, err := s.findByID(ctx, id)
	if err != nil {
		return CareReceiverResponse{}, err
	}

	changes := map[string]any{"operation": "UPDATE"}
	if req.FirstName != "" && req.FirstName != cr.FirstName {
		changes["first_name"] = req.FirstName
		cr.FirstName = req.FirstName
	}
	if req.LastName != "" && req.LastName != cr.LastName {
		changes["last_name"] = req.LastName
		cr.LastName = req.LastName
	}
	if req.CareLevel != "" && req.CareLevel != cr.CareLevel {
		changes["care_level"] = req.CareLevel
		cr.CareLevel = req.CareLevel
	}
	if req.EmergencyContact != nil {
		changes["emergency_contact"] = "updated"
		cr.EmergencyContact = datatypes.JSONMap(req.EmergencyContact)
	}
	if req.MedicalNotes != "" {
		changes["medical_notes"] = "updated"
		cr.MedicalNotes = req.MedicalNotes
	}

	if err := s.repo.Update(ctx, cr); err != nil {
		s.logger.Error("update care receiver persist failed", zap.Error(err))
		return CareReceiverResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "CARE_RECEIVER_UPDATE",
		EntityType: "CARE_RECEIVER",
		EntityID:   cr.ID.String(),
		UserID:     actorID,
		Changes:    changes,
	})

	return mapToResponse(*cr), nil
}

// Discharge frees the resident's bed through the ledger, then marks the
// record discharged.
func (s *service) Discharge(ctx context.Context, actorID, id string) (CareReceiverResponse, error) {
	cr, err := s.findByID(ctx, id)
	if err != nil {
		return CareReceiverResponse{}, err
	}
	if cr.Status == StatusDischarged {
		return CareReceiverResponse{}, carereceivererrors.ErrAlreadyDischarged
	}

	if cr.CurrentRoomBedID != nil {
		if _, err := s.beds.Unassign(ctx, actorID, cr.ID.String()); err != nil {
			return CareReceiverResponse{}, err
		}
		cr.CurrentRoomBedID = nil
	}

	now := time.Now().UTC()
	cr.Status = StatusDischarged
	cr.DischargeDate = &now
	if err := s.repo.Update(ctx, cr); err != nil {
		s.logger.Error("discharge care receiver persist failed", zap.Error(err))
		return CareReceiverResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "CARE_RECEIVER_DISCHARGE",
		EntityType: "CARE_RECEIVER",
		EntityID:   cr.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation": "DISCHARGE",
		},
	})
	s.logger.Info("care receiver discharged", zap.String("care_receiver_id", cr.ID.String()))

	return mapToResponse(*cr), nil
}

func (s *service) GetByID(ctx context.Context, id string) (CareReceiverResponse, error) {
	cr, err := s.findByID(ctx, id)
	if err != nil {
		return CareReceiverResponse{}, err
	}
	return mapToResponse(*cr), nil
}

func (s *service) GetAll(ctx context.Context, locationID, status string) ([]CareReceiverResponse, error) {
	receivers, err := s.repo.FindAll(ctx, locationID, status)
	if err != nil {
		return nil, err
	}
	resp := make([]CareReceiverResponse, len(receivers))
	for i, cr := range receivers {
		resp[i] = mapToResponse(cr)
	}
	return resp, nil
}

func (s *service) findByID(ctx context.Context, id string) (*CareReceiver, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, carereceivererrors.ErrInvalidCareReceiverID
	}
	cr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, carereceivererrors.ErrCareReceiverNotFound
		}
		return nil, err
	}
	return cr, nil
}

func mapToResponse(cr CareReceiver) CareReceiverResponse {
	resp := CareReceiverResponse{
		ID:               cr.ID.String(),
		LocationID:       cr.LocationID.String(),
		FirstName:        cr.FirstName,
		LastName:         cr.LastName,
		Gender:           cr.Gender,
		CareLevel:        cr.CareLevel,
		Status:           cr.Status,
		EmergencyContact: map[string]any(cr.EmergencyContact),
		MedicalNotes:     cr.MedicalNotes,
	}
	if cr.CurrentRoomBedID != nil {
		resp.CurrentRoomBedID = cr.CurrentRoomBedID.String()
	}
	if !cr.DateOfBirth.IsZero() {
		resp.DateOfBirth = cr.DateOfBirth.Format("2006-01-02")
	}
	if !cr.AdmissionDate.IsZero() {
		resp.AdmissionDate = cr.AdmissionDate.Format("2006-01-02")
	}
	if cr.DischargeDate != nil {
		resp.DischargeDate = cr.DischargeDate.Format("2006-01-02")
	}
	return resp
}
