package leave

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"go-carehome/internal/middleware"
	"go-carehome/internal/shared/apperror"
	"go-carehome/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     redis.Cmdable
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb redis.Cmdable, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Create accepts multipart form data: date, type, reason plus up to five
// files under the "attachments" field.
func (h *Handler) Create(c *gin.Context) {
	// Release the idempotency lock whichever way this request ends; cache
	// the response only on success so a retry replays it.
	if h.rdb != nil {
		if lk := c.GetString("idempotency_lock_key"); lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateLeaveRequest
	if err := c.ShouldBind(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	var attachments []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		attachments = form.File["attachments"]
	}

	caregiverID := c.GetString(middleware.CtxCaregiverID)
	if caregiverID == "" {
		caregiverID = c.GetString(middleware.CtxUserID)
	}

	resp, err := h.service.Create(c.Request.Context(), caregiverID, req, attachments)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck := c.GetString("idempotency_cache_key"); ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, true)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *Handler) decide(c *gin.Context, approve bool) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	adminID := c.GetString(middleware.CtxUserID)
	var (
		resp LeaveResponse
		err  error
	)
	if approve {
		resp, err = h.service.Approve(c.Request.Context(), adminID, c.Param("id"), req.DecisionNote)
	} else {
		resp, err = h.service.Reject(c.Request.Context(), adminID, c.Param("id"), req.DecisionNote)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	caregiverID := c.GetString(middleware.CtxCaregiverID)
	if caregiverID == "" {
		caregiverID = c.GetString(middleware.CtxUserID)
	}

	resp, err := h.service.Cancel(c.Request.Context(), caregiverID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	caregiverID := c.GetString(middleware.CtxCaregiverID)
	if caregiverID == "" {
		caregiverID = c.GetString(middleware.CtxUserID)
	}

	resp, err := h.service.ListMine(c.Request.Context(), caregiverID, ListFilters{
		Status:    c.Query("status"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListAll(c *gin.Context) {
	locationID := c.Query("location_id")
	if c.GetString(middleware.CtxRole) != "SUPER_ADMIN" {
		locationID = c.GetString(middleware.CtxLocationID)
	}

	resp, err := h.service.ListAll(c.Request.Context(), ListFilters{
		Status:     c.Query("status"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		LocationID: locationID,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
