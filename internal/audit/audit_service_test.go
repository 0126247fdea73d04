package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	created   []*AuditLog
	createErr error
}

func (f *fakeRepo) Create(ctx context.Context, row *AuditLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, row)
	return nil
}

func (f *fakeRepo) Find(ctx context.Context, q Query) ([]AuditLog, int64, error) {
	out := make([]AuditLog, len(f.created))
	for i, row := range f.created {
		out[i] = *row
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) CountByStatus(ctx context.Context, status string, from, to *time.Time) (int64, error) {
	var n int64
	for _, row := range f.created {
		if row.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountByAction(ctx context.Context, from, to *time.Time) ([]ActionCount, error) {
	counts := map[string]int64{}
	for _, row := range f.created {
		counts[row.Action]++
	}
	out := make([]ActionCount, 0, len(counts))
	for action, n := range counts {
		out = append(out, ActionCount{Action: action, Count: n})
	}
	return out, nil
}

func TestService_Record_DefaultsAndIDs(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	entityID := uuid.New()
	userID := uuid.New()
	svc.Record(context.Background(), Entry{
		Action:     "ROSTER_CREATE",
		EntityType: "ROSTER_ENTRY",
		EntityID:   entityID.String(),
		UserID:     userID.String(),
		Changes:    map[string]any{"operation": "CREATE"},
	})

	assert.Len(t, repo.created, 1)
	row := repo.created[0]
	assert.Equal(t, StatusSuccess, row.Status)
	assert.Equal(t, entityID, *row.EntityID)
	assert.Equal(t, userID, *row.UserID)
}

// a failing audit write is swallowed; the caller never sees it
func TestService_Record_WriteFailureIsNonFatal(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("disk full")}
	svc := NewService(repo)

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), Entry{Action: "LEAVE_CREATE", EntityType: "LEAVE_REQUEST"})
	})
	assert.Empty(t, repo.created)
}

func TestService_Stats(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	svc.Record(context.Background(), Entry{Action: "ROSTER_CREATE", EntityType: "ROSTER_ENTRY"})
	svc.Record(context.Background(), Entry{Action: "ROSTER_CREATE", EntityType: "ROSTER_ENTRY"})
	svc.Record(context.Background(), Entry{Action: "LEAVE_CREATE", EntityType: "LEAVE_REQUEST", Status: StatusFailure})

	stats, err := svc.Stats(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalLogs)
	assert.Equal(t, int64(2), stats.SuccessCount)
	assert.Equal(t, int64(1), stats.FailureCount)
	assert.Equal(t, int64(2), stats.ActionBreakdown["ROSTER_CREATE"])
}
