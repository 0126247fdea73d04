package leave

import (
	"context"
	"mime/multipart"
	"reflect"
	"testing"
	"time"

	"go-carehome/internal/audit"
	leaveerrors "go-carehome/internal/leave/errors"
	"go-carehome/internal/messaging/kafka"
	"go-carehome/internal/roster"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRepo struct {
	requests map[uuid.UUID]*LeaveRequest

	createFn            func(ctx context.Context, lr *LeaveRequest) error
	caregiverLocationFn func(ctx context.Context, caregiverID string) (uuid.UUID, error)
	hasPendingOnDateFn  func(ctx context.Context, caregiverID uuid.UUID, date time.Time) (bool, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: map[uuid.UUID]*LeaveRequest{}}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, lr *LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, lr)
	}
	f.requests[lr.ID] = lr
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, lr *LeaveRequest) error {
	f.requests[lr.ID] = lr
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	lr, ok := f.requests[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *lr
	return &cp, nil
}

func (f *fakeRepo) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRepo) List(ctx context.Context, filters ListFilters) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, lr := range f.requests {
		if filters.CaregiverID != "" && lr.CaregiverID.String() != filters.CaregiverID {
			continue
		}
		if filters.Status != "" && lr.Status != filters.Status {
			continue
		}
		out = append(out, *lr)
	}
	return out, nil
}

func (f *fakeRepo) HasPendingOnDate(ctx context.Context, caregiverID uuid.UUID, date time.Time) (bool, error) {
	if f.hasPendingOnDateFn != nil {
		return f.hasPendingOnDateFn(ctx, caregiverID, date)
	}
	for _, lr := range f.requests {
		if lr.CaregiverID == caregiverID && lr.Date.Equal(date) && lr.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CaregiverLocation(ctx context.Context, caregiverID string) (uuid.UUID, error) {
	if f.caregiverLocationFn != nil {
		return f.caregiverLocationFn(ctx, caregiverID)
	}
	return uuid.New(), nil
}

// fakeRosterRepo only answers the clash question; everything else is unused
// by the leave gate.
type fakeRosterRepo struct {
	hasAnyOnDate bool
}

func (f *fakeRosterRepo) WithTx(tx *gorm.DB) roster.Repository { return f }
func (f *fakeRosterRepo) Create(ctx context.Context, e *roster.RosterEntry) error { return nil }
func (f *fakeRosterRepo) Update(ctx context.Context, e *roster.RosterEntry) error { return nil }
func (f *fakeRosterRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakeRosterRepo) FindByID(ctx context.Context, id string) (*roster.RosterEntry, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRosterRepo) FindByIDForUpdate(ctx context.Context, id string) (*roster.RosterEntry, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRosterRepo) FindByDateRange(ctx context.Context, start, end time.Time, locationID string) ([]roster.RosterEntry, error) {
	return nil, nil
}
func (f *fakeRosterRepo) HasOverlappingShift(ctx context.Context, caregiverID uuid.UUID, date time.Time, startTime, endTime string, excludeID *uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeRosterRepo) HasAnyOnDate(ctx context.Context, caregiverID uuid.UUID, date time.Time) (bool, error) {
	return f.hasAnyOnDate, nil
}
func (f *fakeRosterRepo) CaregiverExists(ctx context.Context, id string) (bool, error) { return true, nil }
func (f *fakeRosterRepo) LocationExists(ctx context.Context, id string) (bool, error)  { return true, nil }
func (f *fakeRosterRepo) RoomBedExists(ctx context.Context, id string) (bool, error)   { return true, nil }
func (f *fakeRosterRepo) CaregiverEmail(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, e kafka.OutboxEvent) error {
	f.created = append(f.created, e)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newService(gdb *gorm.DB, repo Repository, rosters roster.Repository, outbox kafka.OutboxRepository, clock Clock) Service {
	return NewService(gdb, repo, rosters, NewDiskAttachmentStore("testdata/uploads"), outbox, audit.NopRecorder{}, clock)
}

func TestService_Create_FullDayCutoffBoundary(t *testing.T) {
	leaveDate := "2025-06-10"

	cases := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"one second before cutoff", time.Date(2025, 6, 10, 5, 59, 59, 0, time.UTC), nil},
		{"exactly at cutoff", time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC), leaveerrors.ErrFullDayCutoff},
		{"after cutoff", time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC), leaveerrors.ErrFullDayCutoff},
		{"day before", time.Date(2025, 6, 9, 23, 0, 0, 0, time.UTC), nil},
		{"far future leave", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gdb, mock := newGormMock(t)
			repo := newFakeRepo()
			outbox := &fakeOutbox{}
			svc := newService(gdb, repo, &fakeRosterRepo{}, outbox, fixedClock(tc.now))

			// the caregiver is resolved inside the transaction before the
			// cutoff is evaluated, so a rejection still rolls back
			mock.ExpectBegin()
			if tc.wantErr == nil {
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			resp, err := svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
				Date:   leaveDate,
				Type:   TypeFullDay,
				Reason: "family matter",
			}, nil)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.NoError(t, mock.ExpectationsWereMet())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, StatusPending, resp.Status)
			assert.Len(t, outbox.created, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestService_Create_HalfDayCutoff(t *testing.T) {
	gdb, mock := newGormMock(t)
	svc := newService(gdb, newFakeRepo(), &fakeRosterRepo{}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 10, 5, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		Date:   "2025-06-10",
		Type:   TypeHalfDayAM,
		Reason: "appointment",
	}, nil)
	assert.ErrorIs(t, err, leaveerrors.ErrHalfDayCutoff)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_UnknownCaregiverBeatsCutoff(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := newFakeRepo()
	repo.caregiverLocationFn = func(ctx context.Context, caregiverID string) (uuid.UUID, error) {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	// the clock is past the cutoff; the missing caregiver must win
	svc := newService(gdb, repo, &fakeRosterRepo{}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		Date:   "2025-06-10",
		Type:   TypeFullDay,
		Reason: "family matter",
	}, nil)
	assert.ErrorIs(t, err, leaveerrors.ErrCaregiverNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_FullDayRejectedOnRosterClash(t *testing.T) {
	gdb, mock := newGormMock(t)
	svc := newService(gdb, newFakeRepo(), &fakeRosterRepo{hasAnyOnDate: true}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		Date:   "2025-06-10",
		Type:   TypeFullDay,
		Reason: "family matter",
	}, nil)
	assert.ErrorIs(t, err, leaveerrors.ErrRosterClash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_HalfDayIgnoresRoster(t *testing.T) {
	gdb, mock := newGormMock(t)
	svc := newService(gdb, newFakeRepo(), &fakeRosterRepo{hasAnyOnDate: true}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		Date:   "2025-06-10",
		Type:   TypeHalfDayPM,
		Reason: "appointment",
	}, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_RejectsDuplicatePending(t *testing.T) {
	gdb, mock := newGormMock(t)

	caregiverID := uuid.New()
	repo := newFakeRepo()
	date, _ := time.Parse("2006-01-02", "2025-06-10")
	existing := &LeaveRequest{ID: uuid.New(), CaregiverID: caregiverID, Date: date, Status: StatusPending}
	repo.requests[existing.ID] = existing

	svc := newService(gdb, repo, &fakeRosterRepo{}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), caregiverID.String(), CreateLeaveRequest{
		Date:   "2025-06-10",
		Type:   TypeFullDay,
		Reason: "family matter",
	}, nil)
	assert.ErrorIs(t, err, leaveerrors.ErrDuplicatePending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent submission can slip past HasPendingOnDate; the partial unique
// index rejects the second insert and the violation surfaces as the same
// duplicate conflict.
func TestService_Create_DuplicateBackstopOnInsert(t *testing.T) {
	gdb, mock := newGormMock(t)

	repo := newFakeRepo()
	repo.createFn = func(ctx context.Context, lr *LeaveRequest) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_pending_per_day"}
	}

	svc := newService(gdb, repo, &fakeRosterRepo{}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		Date:   "2025-06-10",
		Type:   TypeFullDay,
		Reason: "family matter",
	}, nil)
	assert.ErrorIs(t, err, leaveerrors.ErrDuplicatePending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_PendingUniqueIndexCoversLiveRows(t *testing.T) {
	var (
		caregiverTag string
		dateTag      string
	)
	typ := reflect.TypeOf(LeaveRequest{})
	if f, ok := typ.FieldByName("CaregiverID"); ok {
		caregiverTag = f.Tag.Get("gorm")
	}
	if f, ok := typ.FieldByName("Date"); ok {
		dateTag = f.Tag.Get("gorm")
	}

	assert.Contains(t, caregiverTag, "uniqueIndex:uq_leave_pending_per_day")
	assert.Contains(t, dateTag, "uniqueIndex:uq_leave_pending_per_day")
	assert.Contains(t, caregiverTag, "where:status = 'PENDING' AND deleted_at IS NULL")
}

func TestService_Decide_RejectsNonUUIDActor(t *testing.T) {
	gdb, _ := newGormMock(t)
	repo := newFakeRepo()
	lr := pendingRequest(repo, uuid.New())

	svc := newService(gdb, repo, &fakeRosterRepo{}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)))

	_, err := svc.Approve(context.Background(), "service-account", lr.ID.String(), "ok")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidActorID)
}

func pendingRequest(repo *fakeRepo, caregiverID uuid.UUID) *LeaveRequest {
	date, _ := time.Parse("2006-01-02", "2025-06-10")
	lr := &LeaveRequest{
		ID:          uuid.New(),
		CaregiverID: caregiverID,
		LocationID:  uuid.New(),
		Date:        date,
		Type:        TypeFullDay,
		Status:      StatusPending,
		RequestedAt: time.Now().UTC(),
	}
	repo.requests[lr.ID] = lr
	return lr
}

func TestService_ApproveThenReject_InvalidState(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	repo := newFakeRepo()
	lr := pendingRequest(repo, uuid.New())
	adminID := uuid.NewString()

	outbox := &fakeOutbox{}
	svc := newService(gdb, repo, &fakeRosterRepo{}, outbox,
		fixedClock(time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(ctx, adminID, lr.ID.String(), "enjoy")
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.Equal(t, adminID, resp.DecidedBy)
	assert.NotEmpty(t, resp.DecidedAt)
	assert.Len(t, outbox.created, 1)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Reject(ctx, adminID, lr.ID.String(), "too late")
	assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Cancel_OnlyRequester(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	caregiverID := uuid.New()
	repo := newFakeRepo()
	lr := pendingRequest(repo, caregiverID)

	svc := newService(gdb, repo, &fakeRosterRepo{}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Cancel(ctx, uuid.NewString(), lr.ID.String())
	assert.ErrorIs(t, err, leaveerrors.ErrNotRequester)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Cancel(ctx, caregiverID.String(), lr.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_TooManyAttachments(t *testing.T) {
	gdb, _ := newGormMock(t)
	svc := newService(gdb, newFakeRepo(), &fakeRosterRepo{}, &fakeOutbox{},
		fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	// length is checked before any file is opened
	attachments := make([]*multipart.FileHeader, 6)
	_, err := svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		Date:   "2025-06-10",
		Type:   TypeFullDay,
		Reason: "family matter",
	}, attachments)
	assert.ErrorIs(t, err, leaveerrors.ErrTooManyAttachments)
}
