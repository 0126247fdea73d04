package leave_test

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go-carehome/internal/leave"
	leaveerrors "go-carehome/internal/leave/errors"
	"go-carehome/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn   func(ctx context.Context, caregiverID string, req leave.CreateLeaveRequest, attachments []*multipart.FileHeader) (leave.LeaveResponse, error)
	approveFn  func(ctx context.Context, adminID, id, decisionNote string) (leave.LeaveResponse, error)
	rejectFn   func(ctx context.Context, adminID, id, decisionNote string) (leave.LeaveResponse, error)
	cancelFn   func(ctx context.Context, caregiverID, id string) (leave.LeaveResponse, error)
	listMineFn func(ctx context.Context, caregiverID string, filters leave.ListFilters) ([]leave.LeaveResponse, error)
	listAllFn  func(ctx context.Context, filters leave.ListFilters) ([]leave.LeaveResponse, error)
}

func (f *fakeService) Create(ctx context.Context, caregiverID string, req leave.CreateLeaveRequest, attachments []*multipart.FileHeader) (leave.LeaveResponse, error) {
	return f.createFn(ctx, caregiverID, req, attachments)
}
func (f *fakeService) Approve(ctx context.Context, adminID, id, decisionNote string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, adminID, id, decisionNote)
}
func (f *fakeService) Reject(ctx context.Context, adminID, id, decisionNote string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, adminID, id, decisionNote)
}
func (f *fakeService) Cancel(ctx context.Context, caregiverID, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, caregiverID, id)
}
func (f *fakeService) ListMine(ctx context.Context, caregiverID string, filters leave.ListFilters) ([]leave.LeaveResponse, error) {
	return f.listMineFn(ctx, caregiverID, filters)
}
func (f *fakeService) ListAll(ctx context.Context, filters leave.ListFilters) ([]leave.LeaveResponse, error) {
	return f.listAllFn(ctx, filters)
}

func TestHandler_Create_FormRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	caregiverID := uuid.NewString()

	svc := &fakeService{
		createFn: func(ctx context.Context, cid string, req leave.CreateLeaveRequest, attachments []*multipart.FileHeader) (leave.LeaveResponse, error) {
			assert.Equal(t, caregiverID, cid)
			assert.Equal(t, leave.TypeFullDay, req.Type)
			assert.Empty(t, attachments)
			return leave.LeaveResponse{ID: uuid.NewString(), Status: leave.StatusPending}, nil
		},
	}
	h := leave.NewHandler(svc)

	form := url.Values{}
	form.Set("date", "2025-06-10")
	form.Set("type", leave.TypeFullDay)
	form.Set("reason", "family matter")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxCaregiverID, caregiverID)
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), leave.StatusPending)
}

func TestHandler_Create_CutoffViolationIs400(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		createFn: func(ctx context.Context, cid string, req leave.CreateLeaveRequest, attachments []*multipart.FileHeader) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrFullDayCutoff
		},
	}
	h := leave.NewHandler(svc)

	form := url.Values{}
	form.Set("date", "2025-06-10")
	form.Set("type", leave.TypeFullDay)
	form.Set("reason", "family matter")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxCaregiverID, uuid.NewString())
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "before 06:00")
}

func TestHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	adminID := uuid.NewString()
	leaveID := uuid.NewString()

	svc := &fakeService{
		approveFn: func(ctx context.Context, aid, id, note string) (leave.LeaveResponse, error) {
			assert.Equal(t, adminID, aid)
			assert.Equal(t, leaveID, id)
			assert.Equal(t, "ok", note)
			return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
		},
	}
	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxUserID, adminID)
	c.Params = gin.Params{{Key: "id", Value: leaveID}}
	c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/approve", strings.NewReader(`{"decision_note":"ok"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), leave.StatusApproved)
}

func TestHandler_ListAll_AdminPinnedToOwnLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	locationID := uuid.NewString()

	svc := &fakeService{
		listAllFn: func(ctx context.Context, filters leave.ListFilters) ([]leave.LeaveResponse, error) {
			assert.Equal(t, locationID, filters.LocationID)
			assert.Equal(t, leave.StatusPending, filters.Status)
			return nil, nil
		},
	}
	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxRole, "ADMIN")
	c.Set(middleware.CtxLocationID, locationID)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaves?status=PENDING&location_id="+uuid.NewString(), nil)
	h.ListAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
