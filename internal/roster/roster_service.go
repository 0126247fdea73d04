package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go-carehome/internal/audit"
	"go-carehome/internal/calendar"
	"go-carehome/internal/events"
	"go-carehome/internal/messaging/kafka"
	rostererrors "go-carehome/internal/roster/errors"
	"go-carehome/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// shiftStatusRank orders the execution lifecycle so transitions cannot move
// backwards. CANCELLED and NO_SHOW sit outside the forward chain.
var shiftStatusRank = map[string]int{
	ShiftStatusScheduled:  0,
	ShiftStatusConfirmed:  1,
	ShiftStatusInProgress: 2,
	ShiftStatusCompleted:  3,
}

//go:generate mockgen -source=roster_service.go -destination=mock/roster_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateRosterRequest) (RosterResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateRosterRequest) (RosterResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	GetByID(ctx context.Context, id string) (RosterResponse, error)
	GetByDateRange(ctx context.Context, startDate, endDate, locationID string) ([]RosterResponse, error)
	Confirm(ctx context.Context, actorID, callerCaregiverID, id string) (RosterResponse, error)
	Start(ctx context.Context, actorID, callerCaregiverID, id string) (RosterResponse, error)
	Complete(ctx context.Context, actorID, callerCaregiverID, id string) (RosterResponse, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	calendar calendar.Client
	auditor  audit.Recorder
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	cal calendar.Client,
	auditor audit.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("roster.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.service")
	}
	if cal == nil {
		cal = calendar.Noop{}
	}
	return &service{db: db, repo: repo, outbox: outbox, calendar: cal, auditor: auditor, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateRosterRequest) (RosterResponse, error) {
	shiftDate, err := parseShiftDate(req.ShiftDate)
	if err != nil {
		return RosterResponse{}, err
	}
	if err := validateTimeWindow(req.StartTime, req.EndTime); err != nil {
		return RosterResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create roster begin tx failed", zap.Error(tx.Error))
		return RosterResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.checkReferences(ctx, qtx, req.CaregiverID, req.LocationID, req.RoomBedID); err != nil {
		return RosterResponse{}, err
	}

	caregiverID := uuid.MustParse(req.CaregiverID)
	overlap, err := qtx.HasOverlappingShift(ctx, caregiverID, shiftDate, req.StartTime, req.EndTime, nil)
	if err != nil {
		return RosterResponse{}, err
	}
	if overlap {
		return RosterResponse{}, rostererrors.ErrShiftOverlap
	}

	e := &RosterEntry{
		ID:                uuid.New(),
		LocationID:        uuid.MustParse(req.LocationID),
		CaregiverID:       caregiverID,
		ShiftDate:         shiftDate,
		ShiftType:         req.ShiftType,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            status,
		ShiftStatus:       ShiftStatusScheduled,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: datatypes.JSONMap(req.RecurrencePattern),
		Notes:             req.Notes,
	}
	if req.RoomBedID != "" {
		bedID := uuid.MustParse(req.RoomBedID)
		e.RoomBedID = &bedID
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create roster persist failed", zap.Error(err))
		return RosterResponse{}, mapRepositoryError(err)
	}

	if status == StatusPublished {
		if err := s.enqueueShiftNotification(ctx, tx, events.TypeShiftScheduled, e); err != nil {
			return RosterResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create roster commit failed", zap.Error(err))
		return RosterResponse{}, err
	}

	if status == StatusPublished {
		s.syncCalendarCreate(ctx, e)
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "ROSTER_CREATE",
		EntityType: "ROSTER_ENTRY",
		EntityID:   e.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation":    "CREATE",
			"caregiver_id": req.CaregiverID,
			"shift_date":   req.ShiftDate,
			"start_time":   req.StartTime,
			"end_time":     req.EndTime,
			"status":       status,
		},
	})
	s.logger.Info("roster entry created",
		zap.String("roster_id", e.ID.String()),
		zap.String("caregiver_id", req.CaregiverID),
		zap.String("status", status),
	)

	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateRosterRequest) (RosterResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RosterResponse{}, rostererrors.ErrInvalidRosterID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return RosterResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RosterResponse{}, rostererrors.ErrRosterNotFound
		}
		return RosterResponse{}, err
	}

	wasPublished := e.Status == StatusPublished || e.Status == StatusActive
	changes := map[string]any{"operation": "UPDATE"}
	scheduleChanged := false

	if req.CaregiverID != "" && req.CaregiverID != e.CaregiverID.String() {
		exists, err := qtx.CaregiverExists(ctx, req.CaregiverID)
		if err != nil {
			return RosterResponse{}, err
		}
		if !exists {
			return RosterResponse{}, rostererrors.ErrCaregiverNotFound
		}
		changes["caregiver_id"] = req.CaregiverID
		e.CaregiverID = uuid.MustParse(req.CaregiverID)
		scheduleChanged = true
	}
	if req.RoomBedID != "" {
		exists, err := qtx.RoomBedExists(ctx, req.RoomBedID)
		if err != nil {
			return RosterResponse{}, err
		}
		if !exists {
			return RosterResponse{}, rostererrors.ErrRoomBedNotFound
		}
		bedID := uuid.MustParse(req.RoomBedID)
		changes["room_bed_id"] = req.RoomBedID
		e.RoomBedID = &bedID
	}
	if req.ShiftDate != "" {
		shiftDate, err := parseShiftDate(req.ShiftDate)
		if err != nil {
			return RosterResponse{}, err
		}
		if !shiftDate.Equal(e.ShiftDate) {
			changes["shift_date"] = req.ShiftDate
			e.ShiftDate = shiftDate
			scheduleChanged = true
		}
	}
	if req.ShiftType != "" && req.ShiftType != e.ShiftType {
		changes["shift_type"] = req.ShiftType
		e.ShiftType = req.ShiftType
	}
	if req.StartTime != "" && req.StartTime != e.StartTime {
		changes["start_time"] = req.StartTime
		e.StartTime = req.StartTime
		scheduleChanged = true
	}
	if req.EndTime != "" && req.EndTime != e.EndTime {
		changes["end_time"] = req.EndTime
		e.EndTime = req.EndTime
		scheduleChanged = true
	}
	if err := validateTimeWindow(e.StartTime, e.EndTime); err != nil {
		return RosterResponse{}, err
	}
	becamePublished := false
	if req.Status != "" && req.Status != e.Status {
		changes["status"] = map[string]any{"from": e.Status, "to": req.Status}
		becamePublished = req.Status == StatusPublished && e.Status != StatusPublished
		e.Status = req.Status
	}
	if req.IsRecurring != nil {
		e.IsRecurring = *req.IsRecurring
	}
	if req.RecurrencePattern != nil {
		e.RecurrencePattern = datatypes.JSONMap(req.RecurrencePattern)
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}

	if scheduleChanged || becamePublished {
		overlap, err := qtx.HasOverlappingShift(ctx, e.CaregiverID, e.ShiftDate, e.StartTime, e.EndTime, &e.ID)
		if err != nil {
			return RosterResponse{}, err
		}
		if overlap {
			return RosterResponse{}, rostererrors.ErrShiftOverlap
		}
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update roster persist failed", zap.Error(err))
		return RosterResponse{}, mapRepositoryError(err)
	}

	notify := becamePublished || (wasPublished && scheduleChanged)
	if notify {
		eventType := events.TypeShiftUpdated
		if becamePublished {
			eventType = events.TypeShiftScheduled
		}
		if err := s.enqueueShiftNotification(ctx, tx, eventType, e); err != nil {
			return RosterResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update roster commit failed", zap.Error(err))
		return RosterResponse{}, err
	}

	if notify {
		if e.ExternalCalendarEventID == "" {
			s.syncCalendarCreate(ctx, e)
		} else {
			s.syncCalendarUpdate(ctx, e)
		}
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "ROSTER_UPDATE",
		EntityType: "ROSTER_ENTRY",
		EntityID:   e.ID.String(),
		UserID:     actorID,
		Changes:    changes,
	})

	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return rostererrors.ErrInvalidRosterID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rostererrors.ErrRosterNotFound
		}
		return err
	}

	if e.Status == StatusPublished || e.Status == StatusActive {
		if err := s.enqueueShiftNotification(ctx, tx, events.TypeShiftCancelled, e); err != nil {
			return err
		}
	}

	if err := qtx.Delete(ctx, e.ID); err != nil {
		s.logger.Error("delete roster persist failed", zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("delete roster commit failed", zap.Error(err))
		return err
	}

	if e.ExternalCalendarEventID != "" {
		if err := s.calendar.DeleteEvent(ctx, e.ExternalCalendarEventID); err != nil {
			s.logger.Warn("calendar event deletion failed",
				zap.String("roster_id", e.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "ROSTER_DELETE",
		EntityType: "ROSTER_ENTRY",
		EntityID:   e.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation": "DELETE",
			"status":    e.Status,
		},
	})
	s.logger.Info("roster entry deleted", zap.String("roster_id", e.ID.String()))

	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (RosterResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RosterResponse{}, rostererrors.ErrInvalidRosterID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RosterResponse{}, rostererrors.ErrRosterNotFound
		}
		return RosterResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) GetByDateRange(ctx context.Context, startDate, endDate, locationID string) ([]RosterResponse, error) {
	start, err := parseShiftDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseShiftDate(endDate)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindByDateRange(ctx, start, end, locationID)
	if err != nil {
		return nil, err
	}
	resp := make([]RosterResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) Confirm(ctx context.Context, actorID, callerCaregiverID, id string) (RosterResponse, error) {
	return s.transitionShift(ctx, actorID, callerCaregiverID, id, ShiftStatusConfirmed)
}

func (s *service) Start(ctx context.Context, actorID, callerCaregiverID, id string) (RosterResponse, error) {
	return s.transitionShift(ctx, actorID, callerCaregiverID, id, ShiftStatusInProgress)
}

func (s *service) Complete(ctx context.Context, actorID, callerCaregiverID, id string) (RosterResponse, error) {
	return s.transitionShift(ctx, actorID, callerCaregiverID, id, ShiftStatusCompleted)
}

// transitionShift moves the execution lifecycle forward one state and stamps
// the matching timestamp. Backward moves are rejected.
func (s *service) transitionShift(ctx context.Context, actorID, callerCaregiverID, id, target string) (RosterResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RosterResponse{}, rostererrors.ErrInvalidRosterID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return RosterResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RosterResponse{}, rostererrors.ErrRosterNotFound
		}
		return RosterResponse{}, err
	}

	if callerCaregiverID != "" && callerCaregiverID != e.CaregiverID.String() {
		return RosterResponse{}, rostererrors.ErrNotShiftOwner
	}

	currentRank, ok := shiftStatusRank[e.ShiftStatus]
	if !ok {
		return RosterResponse{}, rostererrors.ErrInvalidShiftTransition
	}
	if shiftStatusRank[target] <= currentRank {
		return RosterResponse{}, rostererrors.ErrInvalidShiftTransition
	}

	previous := e.ShiftStatus
	now := time.Now().UTC()
	e.ShiftStatus = target
	switch target {
	case ShiftStatusConfirmed:
		e.ConfirmedAt = &now
	case ShiftStatusInProgress:
		e.StartedAt = &now
	case ShiftStatusCompleted:
		e.CompletedAt = &now
	}

	if err := qtx.Update(ctx, e); err != nil {
		return RosterResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return RosterResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "ROSTER_SHIFT_STATUS",
		EntityType: "ROSTER_ENTRY",
		EntityID:   e.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation": "SHIFT_TRANSITION",
			"from":      previous,
			"to":        target,
		},
	})
	s.logger.Info("shift status transitioned",
		zap.String("roster_id", e.ID.String()),
		zap.String("from", previous),
		zap.String("to", target),
	)

	return mapToResponse(*e), nil
}

func (s *service) checkReferences(ctx context.Context, qtx Repository, caregiverID, locationID, roomBedID string) error {
	exists, err := qtx.CaregiverExists(ctx, caregiverID)
	if err != nil {
		return err
	}
	if !exists {
		return rostererrors.ErrCaregiverNotFound
	}

	exists, err = qtx.LocationExists(ctx, locationID)
	if err != nil {
		return err
	}
	if !exists {
		return rostererrors.ErrLocationNotFound
	}

	if roomBedID != "" {
		exists, err = qtx.RoomBedExists(ctx, roomBedID)
		if err != nil {
			return err
		}
		if !exists {
			return rostererrors.ErrRoomBedNotFound
		}
	}
	return nil
}

// enqueueShiftNotification writes the notification into the outbox inside the
// caller's transaction, so the event only exists if the roster change commits.
func (s *service) enqueueShiftNotification(ctx context.Context, tx *gorm.DB, eventType string, e *RosterEntry) error {
	payload, err := json.Marshal(events.ShiftNotificationEvent{
		EventType:   eventType,
		RosterID:    e.ID.String(),
		CaregiverID: e.CaregiverID.String(),
		LocationID:  e.LocationID.String(),
		ShiftDate:   e.ShiftDate.Format("2006-01-02"),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "ROSTER_ENTRY",
		AggregateID:   e.ID.String(),
		EventType:     eventType,
		Topic:         events.NotificationsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// syncCalendarCreate pushes a published shift to the calendar collaborator
// and stores the returned event id. Failures are logged only.
func (s *service) syncCalendarCreate(ctx context.Context, e *RosterEntry) {
	eventID, err := s.calendar.CreateEvent(ctx, s.calendarEvent(ctx, e))
	if err != nil {
		s.logger.Warn("calendar event creation failed",
			zap.String("roster_id", e.ID.String()),
			zap.Error(err),
		)
		return
	}
	if eventID == "" {
		return
	}
	e.ExternalCalendarEventID = eventID
	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Warn("storing calendar event id failed",
			zap.String("roster_id", e.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) syncCalendarUpdate(ctx context.Context, e *RosterEntry) {
	if err := s.calendar.UpdateEvent(ctx, e.ExternalCalendarEventID, s.calendarEvent(ctx, e)); err != nil {
		s.logger.Warn("calendar event update failed",
			zap.String("roster_id", e.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) calendarEvent(ctx context.Context, e *RosterEntry) calendar.Event {
	date := e.ShiftDate.Format("2006-01-02")
	email, err := s.repo.CaregiverEmail(ctx, e.CaregiverID)
	if err != nil {
		s.logger.Debug("caregiver email lookup failed", zap.Error(err))
	}
	return calendar.Event{
		Summary:       fmt.Sprintf("%s shift", e.ShiftType),
		Description:   e.Notes,
		Start:         fmt.Sprintf("%sT%s:00Z", date, e.StartTime),
		End:           fmt.Sprintf("%sT%s:00Z", date, e.EndTime),
		AttendeeEmail: email,
		Location:      e.LocationID.String(),
	}
}

func parseShiftDate(raw string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, rostererrors.ErrInvalidShiftDate
	}
	return d, nil
}

func validateTimeWindow(start, end string) error {
	if !timeOfDayPattern.MatchString(start) || !timeOfDayPattern.MatchString(end) {
		return rostererrors.ErrInvalidTimeWindow
	}
	if start >= end {
		return rostererrors.ErrInvalidTimeWindow
	}
	return nil
}

func mapToResponse(e RosterEntry) RosterResponse {
	resp := RosterResponse{
		ID:                e.ID.String(),
		LocationID:        e.LocationID.String(),
		CaregiverID:       e.CaregiverID.String(),
		ShiftDate:         e.ShiftDate.Format("2006-01-02"),
		ShiftType:         e.ShiftType,
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		Status:            e.Status,
		ShiftStatus:       e.ShiftStatus,
		IsRecurring:       e.IsRecurring,
		RecurrencePattern: map[string]any(e.RecurrencePattern),
		Notes:             e.Notes,
	}
	if e.RoomBedID != nil {
		resp.RoomBedID = e.RoomBedID.String()
	}
	if e.ConfirmedAt != nil {
		resp.ConfirmedAt = e.ConfirmedAt.Format(time.RFC3339)
	}
	if e.StartedAt != nil {
		resp.StartedAt = e.StartedAt.Format(time.RFC3339)
	}
	if e.CompletedAt != nil {
		resp.CompletedAt = e.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
