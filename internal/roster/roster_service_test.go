package roster

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go-carehome/internal/audit"
	"go-carehome/internal/calendar"
	"go-carehome/internal/messaging/kafka"
	rostererrors "go-carehome/internal/roster/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRepo struct {
	entries map[uuid.UUID]*RosterEntry

	createFn              func(ctx context.Context, e *RosterEntry) error
	hasOverlappingShiftFn func(ctx context.Context, caregiverID uuid.UUID, date time.Time, startTime, endTime string, excludeID *uuid.UUID) (bool, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: map[uuid.UUID]*RosterEntry{}}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, e *RosterEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	f.entries[e.ID] = e
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, e *RosterEntry) error {
	f.entries[e.ID] = e
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*RosterEntry, error) {
	e, ok := f.entries[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRepo) FindByIDForUpdate(ctx context.Context, id string) (*RosterEntry, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRepo) FindByDateRange(ctx context.Context, start, end time.Time, locationID string) ([]RosterEntry, error) {
	var out []RosterEntry
	for _, e := range f.entries {
		if !e.ShiftDate.Before(start) && !e.ShiftDate.After(end) {
			out = append(out, *e)
		}
	}
	return out, nil
}

// in-memory rendition of the store's overlap query
func (f *fakeRepo) HasOverlappingShift(ctx context.Context, caregiverID uuid.UUID, date time.Time, startTime, endTime string, excludeID *uuid.UUID) (bool, error) {
	if f.hasOverlappingShiftFn != nil {
		return f.hasOverlappingShiftFn(ctx, caregiverID, date, startTime, endTime, excludeID)
	}
	for _, e := range f.entries {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		if e.CaregiverID != caregiverID || !e.ShiftDate.Equal(date) {
			continue
		}
		if e.Status != StatusPublished && e.Status != StatusActive {
			continue
		}
		if startTime < e.EndTime && e.StartTime < endTime {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) HasAnyOnDate(ctx context.Context, caregiverID uuid.UUID, date time.Time) (bool, error) {
	for _, e := range f.entries {
		if e.CaregiverID == caregiverID && e.ShiftDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CaregiverExists(ctx context.Context, id string) (bool, error) { return true, nil }
func (f *fakeRepo) LocationExists(ctx context.Context, id string) (bool, error)  { return true, nil }
func (f *fakeRepo) RoomBedExists(ctx context.Context, id string) (bool, error)   { return true, nil }
func (f *fakeRepo) CaregiverEmail(ctx context.Context, id uuid.UUID) (string, error) {
	return "caregiver@example.com", nil
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
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error             { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error   { return nil }

type fakeCalendar struct {
	created []calendar.Event
	updated []string
	deleted []string
	failErr error
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, e calendar.Event) (string, error) {
	if f.failErr != nil {
		return "", f.failErr
	}
	f.created = append(f.created, e)
	return "cal-" + uuid.NewString(), nil
}
func (f *fakeCalendar) UpdateEvent(ctx context.Context, id string, e calendar.Event) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.updated = append(f.updated, id)
	return nil
}
func (f *fakeCalendar) DeleteEvent(ctx context.Context, id string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func publishedEntry(repo *fakeRepo, caregiverID uuid.UUID, date, start, end string) *RosterEntry {
	d, _ := time.Parse("2006-01-02", date)
	e := &RosterEntry{
		ID:          uuid.New(),
		LocationID:  uuid.New(),
		CaregiverID: caregiverID,
		ShiftDate:   d,
		ShiftType:   ShiftTypeMorning,
		StartTime:   start,
		EndTime:     end,
		Status:      StatusPublished,
		ShiftStatus: ShiftStatusScheduled,
	}
	repo.entries[e.ID] = e
	return e
}

func TestService_Create_RejectsOverlap(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	caregiverID := uuid.New()
	repo := newFakeRepo()
	publishedEntry(repo, caregiverID, "2025-01-10", "08:00", "16:00")

	svc := NewService(gdb, repo, &fakeOutbox{}, &fakeCalendar{}, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(ctx, uuid.NewString(), CreateRosterRequest{
		LocationID:  uuid.NewString(),
		CaregiverID: caregiverID.String(),
		ShiftDate:   "2025-01-10",
		ShiftType:   ShiftTypeAfternoon,
		StartTime:   "15:00",
		EndTime:     "23:00",
		Status:      StatusPublished,
	})
	assert.ErrorIs(t, err, rostererrors.ErrShiftOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_AcceptsTouchingWindows(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	caregiverID := uuid.New()
	repo := newFakeRepo()
	publishedEntry(repo, caregiverID, "2025-01-10", "08:00", "16:00")

	outbox := &fakeOutbox{}
	svc := NewService(gdb, repo, outbox, &fakeCalendar{}, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, uuid.NewString(), CreateRosterRequest{
		LocationID:  uuid.NewString(),
		CaregiverID: caregiverID.String(),
		ShiftDate:   "2025-01-10",
		ShiftType:   ShiftTypeAfternoon,
		StartTime:   "16:00",
		EndTime:     "23:00",
		Status:      StatusPublished,
	})
	assert.NoError(t, err)
	assert.Equal(t, ShiftStatusScheduled, resp.ShiftStatus)
	assert.Len(t, outbox.created, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_DraftSkipsNotification(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	repo := newFakeRepo()
	outbox := &fakeOutbox{}
	cal := &fakeCalendar{}
	svc := NewService(gdb, repo, outbox, cal, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, uuid.NewString(), CreateRosterRequest{
		LocationID:  uuid.NewString(),
		CaregiverID: uuid.NewString(),
		ShiftDate:   "2025-03-01",
		ShiftType:   ShiftTypeNight,
		StartTime:   "22:00",
		EndTime:     "23:30",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, resp.Status)
	assert.Empty(t, outbox.created)
	assert.Empty(t, cal.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidWindow(t *testing.T) {
	gdb, _ := newGormMock(t)

	svc := NewService(gdb, newFakeRepo(), &fakeOutbox{}, &fakeCalendar{}, audit.NopRecorder{})

	_, err := svc.Create(context.Background(), uuid.NewString(), CreateRosterRequest{
		LocationID:  uuid.NewString(),
		CaregiverID: uuid.NewString(),
		ShiftDate:   "2025-03-01",
		ShiftType:   ShiftTypeMorning,
		StartTime:   "16:00",
		EndTime:     "08:00",
	})
	assert.ErrorIs(t, err, rostererrors.ErrInvalidTimeWindow)
}

func TestService_Update_PublishTriggersSync(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	caregiverID := uuid.New()
	repo := newFakeRepo()
	e := publishedEntry(repo, caregiverID, "2025-01-10", "08:00", "16:00")
	e.Status = StatusDraft

	outbox := &fakeOutbox{}
	cal := &fakeCalendar{}
	svc := NewService(gdb, repo, outbox, cal, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(ctx, uuid.NewString(), e.ID.String(), UpdateRosterRequest{
		Status: StatusPublished,
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPublished, resp.Status)
	assert.Len(t, outbox.created, 1)
	assert.Len(t, cal.created, 1)
	assert.NotEmpty(t, repo.entries[e.ID].ExternalCalendarEventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The overlap check's insert backstop must cover live rows only. With
// deleted_at in the key, Postgres treats each NULL as distinct and two
// identical windows would both commit; the index is partial instead.
func TestRosterEntry_UniqueWindowIndexCoversLiveRows(t *testing.T) {
	typ := reflect.TypeOf(RosterEntry{})

	keyFields := []string{"CaregiverID", "ShiftDate", "StartTime", "EndTime"}
	for _, name := range keyFields {
		f, ok := typ.FieldByName(name)
		assert.True(t, ok, name)
		assert.Contains(t, f.Tag.Get("gorm"), "uniqueIndex:uq_roster_caregiver_window", name)
	}

	caregiver, _ := typ.FieldByName("CaregiverID")
	assert.Contains(t, caregiver.Tag.Get("gorm"), "where:deleted_at IS NULL")

	deleted, _ := typ.FieldByName("DeletedAt")
	assert.NotContains(t, deleted.Tag.Get("gorm"), "uq_roster_caregiver_window")
}

// Calendar sync runs after commit and is best-effort; an unreachable calendar
// service must never roll back or fail the roster mutation.
func TestService_CalendarFailureDoesNotFailMutation(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	repo := newFakeRepo()
	outbox := &fakeOutbox{}
	cal := &fakeCalendar{failErr: errors.New("calendar unreachable")}
	svc := NewService(gdb, repo, outbox, cal, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, uuid.NewString(), CreateRosterRequest{
		LocationID:  uuid.NewString(),
		CaregiverID: uuid.NewString(),
		ShiftDate:   "2025-01-10",
		ShiftType:   ShiftTypeMorning,
		StartTime:   "08:00",
		EndTime:     "16:00",
		Status:      StatusPublished,
	})
	assert.NoError(t, err)
	assert.Len(t, repo.entries, 1)
	assert.Len(t, outbox.created, 1)

	e := repo.entries[uuid.MustParse(resp.ID)]
	assert.Empty(t, e.ExternalCalendarEventID)
	e.ExternalCalendarEventID = "cal-123"

	mock.ExpectBegin()
	mock.ExpectCommit()
	err = svc.Delete(ctx, uuid.NewString(), resp.ID)
	assert.NoError(t, err)
	assert.Empty(t, repo.entries)
	assert.Len(t, outbox.created, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_PublishedSendsCancellation(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	repo := newFakeRepo()
	e := publishedEntry(repo, uuid.New(), "2025-01-10", "08:00", "16:00")
	e.ExternalCalendarEventID = "cal-123"

	outbox := &fakeOutbox{}
	cal := &fakeCalendar{}
	svc := NewService(gdb, repo, outbox, cal, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := svc.Delete(ctx, uuid.NewString(), e.ID.String())
	assert.NoError(t, err)
	assert.Len(t, outbox.created, 1)
	assert.Equal(t, []string{"cal-123"}, cal.deleted)
	assert.Empty(t, repo.entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ShiftTransitions_ForwardOnly(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	caregiverID := uuid.New()
	repo := newFakeRepo()
	e := publishedEntry(repo, caregiverID, "2025-01-10", "08:00", "16:00")

	svc := NewService(gdb, repo, &fakeOutbox{}, &fakeCalendar{}, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Confirm(ctx, uuid.NewString(), caregiverID.String(), e.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, ShiftStatusConfirmed, resp.ShiftStatus)
	assert.NotEmpty(t, resp.ConfirmedAt)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.Start(ctx, uuid.NewString(), caregiverID.String(), e.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, ShiftStatusInProgress, resp.ShiftStatus)
	assert.NotEmpty(t, resp.StartedAt)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.Complete(ctx, uuid.NewString(), caregiverID.String(), e.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, ShiftStatusCompleted, resp.ShiftStatus)
	assert.NotEmpty(t, resp.CompletedAt)

	// COMPLETED cannot go back to CONFIRMED
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Confirm(ctx, uuid.NewString(), caregiverID.String(), e.ID.String())
	assert.ErrorIs(t, err, rostererrors.ErrInvalidShiftTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ShiftTransition_RejectsWrongCaregiver(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	repo := newFakeRepo()
	e := publishedEntry(repo, uuid.New(), "2025-01-10", "08:00", "16:00")

	svc := NewService(gdb, repo, &fakeOutbox{}, &fakeCalendar{}, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Confirm(ctx, uuid.NewString(), uuid.NewString(), e.ID.String())
	assert.ErrorIs(t, err, rostererrors.ErrNotShiftOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
