package leave

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"time"

	"go-carehome/internal/audit"
	"go-carehome/internal/events"
	leaveerrors "go-carehome/internal/leave/errors"
	"go-carehome/internal/messaging/kafka"
	"go-carehome/internal/roster"
	"go-carehome/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission cutoffs, anchored to the leave date itself. A full-day request
// must arrive before 06:00 on that date, a half-day before 05:00.
const (
	fullDayCutoffHour = 6
	halfDayCutoffHour = 5
)

// Clock supplies wall-clock time; injectable so cutoff boundaries are
// testable.
type Clock func() time.Time

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, caregiverID string, req CreateLeaveRequest, attachments []*multipart.FileHeader) (LeaveResponse, error)
	Approve(ctx context.Context, adminID, id, decisionNote string) (LeaveResponse, error)
	Reject(ctx context.Context, adminID, id, decisionNote string) (LeaveResponse, error)
	Cancel(ctx context.Context, caregiverID, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, caregiverID string, filters ListFilters) ([]LeaveResponse, error)
	ListAll(ctx context.Context, filters ListFilters) ([]LeaveResponse, error)
}

type service struct {
	db          *gorm.DB
	repo        Repository
	rosters     roster.Repository
	attachments AttachmentStore
	outbox      kafka.OutboxRepository
	auditor     audit.Recorder
	clock       Clock
	logger      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	rosters roster.Repository,
	attachments AttachmentStore,
	outbox kafka.OutboxRepository,
	auditor audit.Recorder,
	clock Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{
		db:          db,
		repo:        repo,
		rosters:     rosters,
		attachments: attachments,
		outbox:      outbox,
		auditor:     auditor,
		clock:       clock,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, caregiverID string, req CreateLeaveRequest, attachments []*multipart.FileHeader) (LeaveResponse, error) {
	if len(attachments) > MaxAttachments {
		return LeaveResponse{}, leaveerrors.ErrTooManyAttachments
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveDate
	}

	cgID, err := uuid.Parse(caregiverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrCaregiverNotFound
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(tx.Error))
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	locationID, err := qtx.CaregiverLocation(ctx, caregiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrCaregiverNotFound
		}
		return LeaveResponse{}, err
	}

	if err := s.checkCutoff(date, req.Type); err != nil {
		return LeaveResponse{}, err
	}

	// A full-day request clashes with any roster entry on the date, no
	// matter the entry's status.
	if req.Type == TypeFullDay {
		clash, err := s.rosters.WithTx(tx).HasAnyOnDate(ctx, cgID, date)
		if err != nil {
			return LeaveResponse{}, err
		}
		if clash {
			return LeaveResponse{}, leaveerrors.ErrRosterClash
		}
	}

	pending, err := qtx.HasPendingOnDate(ctx, cgID, date)
	if err != nil {
		return LeaveResponse{}, err
	}
	if pending {
		return LeaveResponse{}, leaveerrors.ErrDuplicatePending
	}

	metas := make([]AttachmentMeta, 0, len(attachments))
	for _, fh := range attachments {
		meta, err := s.attachments.Save(fh)
		if err != nil {
			s.logger.Error("attachment persistence failed",
				zap.String("file", fh.Filename),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
		metas = append(metas, meta)
	}

	lr := &LeaveRequest{
		ID:          uuid.New(),
		CaregiverID: cgID,
		LocationID:  locationID,
		Date:        date,
		Type:        req.Type,
		Status:      StatusPending,
		Reason:      req.Reason,
		RequestedAt: s.clock().UTC(),
	}
	if len(metas) > 0 {
		raw, err := json.Marshal(metas)
		if err != nil {
			return LeaveResponse{}, err
		}
		lr.Attachments = datatypes.JSON(raw)
	}

	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueLeaveNotification(ctx, tx, events.TypeLeaveRequested, lr); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "LEAVE_CREATE",
		EntityType: "LEAVE_REQUEST",
		EntityID:   lr.ID.String(),
		UserID:     caregiverID,
		Changes: map[string]any{
			"operation": "CREATE",
			"date":      req.Date,
			"type":      req.Type,
		},
	})
	s.logger.Info("leave request created",
		zap.String("leave_id", lr.ID.String()),
		zap.String("caregiver_id", caregiverID),
		zap.String("type", req.Type),
	)

	return mapToResponse(*lr), nil
}

// checkCutoff compares the current wall clock against the cutoff instant on
// the leave date. Requests for future dates pass trivially; same-day requests
// must beat the cutoff; past dates are always beyond it.
func (s *service) checkCutoff(date time.Time, leaveType string) error {
	cutoffHour := halfDayCutoffHour
	cutoffErr := leaveerrors.ErrHalfDayCutoff
	if leaveType == TypeFullDay {
		cutoffHour = fullDayCutoffHour
		cutoffErr = leaveerrors.ErrFullDayCutoff
	}

	now := s.clock()
	cutoff := time.Date(date.Year(), date.Month(), date.Day(), cutoffHour, 0, 0, 0, now.Location())
	if !now.Before(cutoff) {
		return cutoffErr
	}
	return nil
}

func (s *service) Approve(ctx context.Context, adminID, id, decisionNote string) (LeaveResponse, error) {
	return s.decide(ctx, adminID, id, StatusApproved, decisionNote)
}

func (s *service) Reject(ctx context.Context, adminID, id, decisionNote string) (LeaveResponse, error) {
	return s.decide(ctx, adminID, id, StatusRejected, decisionNote)
}

func (s *service) decide(ctx context.Context, adminID, id, decision, decisionNote string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	decidedBy, err := uuid.Parse(adminID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	now := s.clock().UTC()
	lr.Status = decision
	lr.DecidedAt = &now
	lr.DecidedBy = &decidedBy
	lr.DecisionNote = decisionNote

	if err := qtx.Update(ctx, lr); err != nil {
		return LeaveResponse{}, err
	}

	if err := s.enqueueLeaveNotification(ctx, tx, events.TypeLeaveDecided, lr); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("decide leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "LEAVE_DECIDE",
		EntityType: "LEAVE_REQUEST",
		EntityID:   lr.ID.String(),
		UserID:     adminID,
		Changes: map[string]any{
			"operation": "DECIDE",
			"decision":  decision,
		},
	})
	s.logger.Info("leave request decided",
		zap.String("leave_id", lr.ID.String()),
		zap.String("decision", decision),
	)

	return mapToResponse(*lr), nil
}

func (s *service) Cancel(ctx context.Context, caregiverID, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if lr.CaregiverID.String() != caregiverID {
		return LeaveResponse{}, leaveerrors.ErrNotRequester
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	lr.Status = StatusCancelled
	if err := qtx.Update(ctx, lr); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return LeaveResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "LEAVE_CANCEL",
		EntityType: "LEAVE_REQUEST",
		EntityID:   lr.ID.String(),
		UserID:     caregiverID,
		Changes: map[string]any{
			"operation": "CANCEL",
		},
	})

	return mapToResponse(*lr), nil
}

func (s *service) ListMine(ctx context.Context, caregiverID string, filters ListFilters) ([]LeaveResponse, error) {
	filters.CaregiverID = caregiverID
	filters.LocationID = ""
	return s.list(ctx, filters)
}

func (s *service) ListAll(ctx context.Context, filters ListFilters) ([]LeaveResponse, error) {
	filters.CaregiverID = ""
	return s.list(ctx, filters)
}

func (s *service) list(ctx context.Context, filters ListFilters) ([]LeaveResponse, error) {
	requests, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp, nil
}

func (s *service) enqueueLeaveNotification(ctx context.Context, tx *gorm.DB, eventType string, lr *LeaveRequest) error {
	evt := events.LeaveNotificationEvent{
		EventType:      eventType,
		LeaveRequestID: lr.ID.String(),
		CaregiverID:    lr.CaregiverID.String(),
		LocationID:     lr.LocationID.String(),
		Date:           lr.Date.Format("2006-01-02"),
		LeaveType:      lr.Type,
		OccurredAt:     s.clock().UTC(),
	}
	if eventType == events.TypeLeaveDecided {
		evt.Decision = lr.Status
		evt.DecisionNote = lr.DecisionNote
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "LEAVE_REQUEST",
		AggregateID:   lr.ID.String(),
		EventType:     eventType,
		Topic:         events.NotificationsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(lr LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           lr.ID.String(),
		CaregiverID:  lr.CaregiverID.String(),
		LocationID:   lr.LocationID.String(),
		Date:         lr.Date.Format("2006-01-02"),
		Type:         lr.Type,
		Status:       lr.Status,
		Reason:       lr.Reason,
		RequestedAt:  lr.RequestedAt.Format(time.RFC3339),
		DecisionNote: lr.DecisionNote,
	}
	if len(lr.Attachments) > 0 {
		_ = json.Unmarshal(lr.Attachments, &resp.Attachments)
	}
	if lr.DecidedAt != nil {
		resp.DecidedAt = lr.DecidedAt.Format(time.RFC3339)
	}
	if lr.DecidedBy != nil {
		resp.DecidedBy = lr.DecidedBy.String()
	}
	return resp
}
