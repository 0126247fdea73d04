package roombed

import (
	"context"
	"encoding/json"
	"testing"

	"go-carehome/internal/audit"
	roombederrors "go-carehome/internal/roombed/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn                  func(tx *gorm.DB) Repository
	createFn                  func(ctx context.Context, b *RoomBed) error
	findByIDFn                func(ctx context.Context, id string) (*RoomBed, error)
	findByIDForUpdateFn       func(ctx context.Context, id string) (*RoomBed, error)
	findAllByLocationFn       func(ctx context.Context, locationID string) ([]RoomBed, error)
	findAvailableByLocationFn func(ctx context.Context, locationID string) ([]RoomBed, error)
	setOccupiedFn             func(ctx context.Context, id uuid.UUID, occupied bool) error
	combinationExistsFn       func(ctx context.Context, locationID, roomNumber, bedNumber string) (bool, error)
	locationExistsFn          func(ctx context.Context, locationID string) (bool, error)
	findOccupantForUpdateFn   func(ctx context.Context, careReceiverID string) (*OccupantRef, error)
	setOccupantBedFn          func(ctx context.Context, careReceiverID uuid.UUID, bedID *uuid.UUID) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, b *RoomBed) error {
	return f.createFn(ctx, b)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*RoomBed, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByIDForUpdate(ctx context.Context, id string) (*RoomBed, error) {
	return f.findByIDForUpdateFn(ctx, id)
}
func (f *fakeRepo) FindAllByLocation(ctx context.Context, locationID string) ([]RoomBed, error) {
	return f.findAllByLocationFn(ctx, locationID)
}
func (f *fakeRepo) FindAvailableByLocation(ctx context.Context, locationID string) ([]RoomBed, error) {
	return f.findAvailableByLocationFn(ctx, locationID)
}
func (f *fakeRepo) SetOccupied(ctx context.Context, id uuid.UUID, occupied bool) error {
	return f.setOccupiedFn(ctx, id, occupied)
}
func (f *fakeRepo) CombinationExists(ctx context.Context, locationID, roomNumber, bedNumber string) (bool, error) {
	return f.combinationExistsFn(ctx, locationID, roomNumber, bedNumber)
}
func (f *fakeRepo) LocationExists(ctx context.Context, locationID string) (bool, error) {
	return f.locationExistsFn(ctx, locationID)
}
func (f *fakeRepo) FindOccupantForUpdate(ctx context.Context, careReceiverID string) (*OccupantRef, error) {
	return f.findOccupantForUpdateFn(ctx, careReceiverID)
}
func (f *fakeRepo) SetOccupantBed(ctx context.Context, careReceiverID uuid.UUID, bedID *uuid.UUID) error {
	return f.setOccupantBedFn(ctx, careReceiverID, bedID)
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

// assign → idempotent re-assign → unassign, tracking occupancy and the
// occupant reference the whole way.
func TestService_AssignReassignUnassign(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	locationID := uuid.New()
	bed := RoomBed{ID: uuid.New(), LocationID: locationID, RoomNumber: "12", BedNumber: "12-A"}
	occupant := OccupantRef{ID: uuid.New(), LocationID: locationID}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *gorm.DB) Repository { return repo }
	repo.findOccupantForUpdateFn = func(ctx context.Context, id string) (*OccupantRef, error) {
		o := occupant
		return &o, nil
	}
	repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*RoomBed, error) {
		b := bed
		return &b, nil
	}
	repo.setOccupiedFn = func(ctx context.Context, id uuid.UUID, occupied bool) error {
		if id == bed.ID {
			bed.IsOccupied = occupied
		}
		return nil
	}
	repo.setOccupantBedFn = func(ctx context.Context, id uuid.UUID, bedID *uuid.UUID) error {
		occupant.CurrentRoomBedID = bedID
		return nil
	}

	svc := NewService(gdb, repo, nil, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Assign(ctx, uuid.NewString(), AssignRequest{
		CareReceiverID: occupant.ID.String(),
		RoomBedID:      bed.ID.String(),
	})
	assert.NoError(t, err)
	assert.True(t, resp.RoomBed.IsOccupied)
	assert.True(t, bed.IsOccupied)
	assert.Equal(t, bed.ID, *occupant.CurrentRoomBedID)

	// same bed again: audited no-op
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.Assign(ctx, uuid.NewString(), AssignRequest{
		CareReceiverID: occupant.ID.String(),
		RoomBedID:      bed.ID.String(),
	})
	assert.NoError(t, err)
	assert.Equal(t, "care receiver already assigned to this bed", resp.Message)
	assert.True(t, bed.IsOccupied)
	assert.Equal(t, bed.ID, *occupant.CurrentRoomBedID)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.Unassign(ctx, uuid.NewString(), occupant.ID.String())
	assert.NoError(t, err)
	assert.False(t, resp.RoomBed.IsOccupied)
	assert.False(t, bed.IsOccupied)
	assert.Nil(t, occupant.CurrentRoomBedID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Assign_MovesBetweenBeds(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	locationID := uuid.New()
	bedA := RoomBed{ID: uuid.New(), LocationID: locationID, RoomNumber: "1", BedNumber: "1-A", IsOccupied: true}
	bedB := RoomBed{ID: uuid.New(), LocationID: locationID, RoomNumber: "2", BedNumber: "2-A"}
	occupant := OccupantRef{ID: uuid.New(), LocationID: locationID, CurrentRoomBedID: &bedA.ID}

	beds := map[uuid.UUID]*RoomBed{bedA.ID: &bedA, bedB.ID: &bedB}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *gorm.DB) Repository { return repo }
	repo.findOccupantForUpdateFn = func(ctx context.Context, id string) (*OccupantRef, error) {
		o := occupant
		return &o, nil
	}
	repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*RoomBed, error) {
		b := *beds[uuid.MustParse(id)]
		return &b, nil
	}
	repo.setOccupiedFn = func(ctx context.Context, id uuid.UUID, occupied bool) error {
		beds[id].IsOccupied = occupied
		return nil
	}
	repo.setOccupantBedFn = func(ctx context.Context, id uuid.UUID, bedID *uuid.UUID) error {
		occupant.CurrentRoomBedID = bedID
		return nil
	}

	svc := NewService(gdb, repo, nil, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Assign(ctx, uuid.NewString(), AssignRequest{
		CareReceiverID: occupant.ID.String(),
		RoomBedID:      bedB.ID.String(),
	})
	assert.NoError(t, err)
	assert.False(t, bedA.IsOccupied)
	assert.True(t, bedB.IsOccupied)
	assert.Equal(t, bedB.ID, *occupant.CurrentRoomBedID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Assign_Conflicts(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	locationID := uuid.New()
	otherLocation := uuid.New()
	occupiedBed := RoomBed{ID: uuid.New(), LocationID: locationID, IsOccupied: true}
	foreignBed := RoomBed{ID: uuid.New(), LocationID: otherLocation}
	occupant := OccupantRef{ID: uuid.New(), LocationID: locationID}

	beds := map[uuid.UUID]*RoomBed{occupiedBed.ID: &occupiedBed, foreignBed.ID: &foreignBed}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *gorm.DB) Repository { return repo }
	repo.findOccupantForUpdateFn = func(ctx context.Context, id string) (*OccupantRef, error) {
		o := occupant
		return &o, nil
	}
	repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*RoomBed, error) {
		b := *beds[uuid.MustParse(id)]
		return &b, nil
	}

	svc := NewService(gdb, repo, nil, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Assign(ctx, uuid.NewString(), AssignRequest{
		CareReceiverID: occupant.ID.String(),
		RoomBedID:      occupiedBed.ID.String(),
	})
	assert.ErrorIs(t, err, roombederrors.ErrBedOccupied)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Assign(ctx, uuid.NewString(), AssignRequest{
		CareReceiverID: occupant.ID.String(),
		RoomBedID:      foreignBed.ID.String(),
	})
	assert.ErrorIs(t, err, roombederrors.ErrLocationMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Unassign_NoCurrentBed(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	occupant := OccupantRef{ID: uuid.New(), LocationID: uuid.New()}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *gorm.DB) Repository { return repo }
	repo.findOccupantForUpdateFn = func(ctx context.Context, id string) (*OccupantRef, error) {
		o := occupant
		return &o, nil
	}

	svc := NewService(gdb, repo, nil, audit.NopRecorder{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Unassign(ctx, uuid.NewString(), occupant.ID.String())
	assert.ErrorIs(t, err, roombederrors.ErrNoCurrentBed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_BedNumberMustCarryRoomPrefix(t *testing.T) {
	gdb, _ := newGormMock(t)

	svc := NewService(gdb, &fakeRepo{}, nil, audit.NopRecorder{})

	_, err := svc.Create(context.Background(), uuid.NewString(), CreateRoomBedRequest{
		LocationID: uuid.NewString(),
		RoomNumber: "12",
		BedNumber:  "13-A",
	})
	assert.ErrorIs(t, err, roombederrors.ErrInvalidBedNumber)
}

func TestService_GetAvailable_UsesCache(t *testing.T) {
	gdb, _ := newGormMock(t)
	ctx := context.Background()

	locationID := uuid.NewString()
	cached := []RoomBedResponse{{ID: uuid.NewString(), LocationID: locationID, RoomNumber: "3", BedNumber: "3-B"}}
	raw, err := json.Marshal(cached)
	assert.NoError(t, err)

	rdb, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectGet(AvailableCacheKey(locationID)).SetVal(string(raw))

	repo := &fakeRepo{}
	repo.findAvailableByLocationFn = func(ctx context.Context, locationID string) ([]RoomBed, error) {
		t.Fatal("repository must not be hit on cache hit")
		return nil, nil
	}

	svc := NewService(gdb, repo, rdb, audit.NopRecorder{})

	resp, err := svc.GetAvailable(ctx, locationID)
	assert.NoError(t, err)
	assert.Equal(t, cached, resp)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestService_GetAvailable_CacheMissFillsCache(t *testing.T) {
	gdb, _ := newGormMock(t)
	ctx := context.Background()

	locationID := uuid.New()
	bed := RoomBed{ID: uuid.New(), LocationID: locationID, RoomNumber: "7", BedNumber: "7-A"}
	expected := mapToResponses([]RoomBed{bed})
	raw, err := json.Marshal(expected)
	assert.NoError(t, err)

	rdb, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectGet(AvailableCacheKey(locationID.String())).RedisNil()
	cacheMock.ExpectSet(AvailableCacheKey(locationID.String()), raw, availableCacheTTL).SetVal("OK")

	repo := &fakeRepo{}
	repo.findAvailableByLocationFn = func(ctx context.Context, id string) ([]RoomBed, error) {
		return []RoomBed{bed}, nil
	}

	svc := NewService(gdb, repo, rdb, audit.NopRecorder{})

	resp, err := svc.GetAvailable(ctx, locationID.String())
	assert.NoError(t, err)
	assert.Equal(t, expected, resp)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}
