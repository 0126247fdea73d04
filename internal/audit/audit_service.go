package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry is what the domain services hand to the sink.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	UserID     string
	Changes    map[string]any
	IPAddress  string
	UserAgent  string
	Status     string
}

// Recorder is the write side of the audit trail. Recording is best-effort:
// a failed audit write is logged and never fails the action that produced it.
//
//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type Service interface {
	Recorder
	List(ctx context.Context, q Query) ([]LogResponse, int64, error)
	Stats(ctx context.Context, from, to *time.Time) (StatsResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, entry Entry) {
	row := &AuditLog{
		ID:         uuid.New(),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		Changes:    entry.Changes,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Status:     entry.Status,
	}
	if row.Status == "" {
		row.Status = StatusSuccess
	}
	if id, err := uuid.Parse(entry.EntityID); err == nil {
		row.EntityID = &id
	}
	if id, err := uuid.Parse(entry.UserID); err == nil {
		row.UserID = &id
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("audit write failed",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("audit event recorded",
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
	)
}

func (s *service) List(ctx context.Context, q Query) ([]LogResponse, int64, error) {
	rows, total, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]LogResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, total, nil
}

func (s *service) Stats(ctx context.Context, from, to *time.Time) (StatsResponse, error) {
	success, err := s.repo.CountByStatus(ctx, StatusSuccess, from, to)
	if err != nil {
		return StatsResponse{}, err
	}
	failure, err := s.repo.CountByStatus(ctx, StatusFailure, from, to)
	if err != nil {
		return StatsResponse{}, err
	}
	actions, err := s.repo.CountByAction(ctx, from, to)
	if err != nil {
		return StatsResponse{}, err
	}

	breakdown := make(map[string]int64, len(actions))
	for _, a := range actions {
		breakdown[a.Action] = a.Count
	}

	return StatsResponse{
		TotalLogs:       success + failure,
		SuccessCount:    success,
		FailureCount:    failure,
		ActionBreakdown: breakdown,
	}, nil
}

func mapToResponse(row AuditLog) LogResponse {
	resp := LogResponse{
		ID:         row.ID.String(),
		Action:     row.Action,
		EntityType: row.EntityType,
		Changes:    row.Changes,
		IPAddress:  row.IPAddress,
		UserAgent:  row.UserAgent,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt.Format(time.RFC3339),
	}
	if row.EntityID != nil {
		v := row.EntityID.String()
		resp.EntityID = &v
	}
	if row.UserID != nil {
		v := row.UserID.String()
		resp.UserID = &v
	}
	return resp
}

// NopRecorder is used in tests and in the worker binary, which audits nothing.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) {}
