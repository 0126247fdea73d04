package roster

import (
	"encoding/json"
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
	l := zap.L().Named("roster.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.handler")
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
	h.logger.Warn("roster request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	// Release the idempotency lock taken by the middleware whichever way
	// this request ends; cache the response only on success so a retry
	// replays the created entry instead of re-running the mutation.
	if h.rdb != nil {
		if lk := c.GetString("idempotency_lock_key"); lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), req)
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

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByDateRange(c *gin.Context) {
	locationID := c.Query("location_id")
	if c.GetString(middleware.CtxRole) != "SUPER_ADMIN" {
		locationID = c.GetString(middleware.CtxLocationID)
	}

	resp, err := h.service.GetByDateRange(
		c.Request.Context(),
		c.Query("start_date"),
		c.Query("end_date"),
		locationID,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// callerCaregiverID pins shift transitions to the assigned caregiver; admins
// carry no caregiver claim and may drive any shift.
func callerCaregiverID(c *gin.Context) string {
	if c.GetString(middleware.CtxRole) == "CAREGIVER" {
		return c.GetString(middleware.CtxCaregiverID)
	}
	return ""
}

func (h *Handler) Confirm(c *gin.Context) {
	resp, err := h.service.Confirm(c.Request.Context(), c.GetString(middleware.CtxUserID), callerCaregiverID(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Start(c *gin.Context) {
	resp, err := h.service.Start(c.Request.Context(), c.GetString(middleware.CtxUserID), callerCaregiverID(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Complete(c *gin.Context) {
	resp, err := h.service.Complete(c.Request.Context(), c.GetString(middleware.CtxUserID), callerCaregiverID(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
