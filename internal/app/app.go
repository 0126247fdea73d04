package app

import (
	"os"

	"go-carehome/internal/audit"
	"go-carehome/internal/calendar"
	"go-carehome/internal/middleware"
	"go-carehome/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// BuildApp connects the infrastructure and registers every module on the
// router. The returned recorder lets the server audit its own lifecycle.
func BuildApp(router *gin.Engine) (audit.Recorder, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return nil, err
	}

	var cal calendar.Client = calendar.Noop{}
	if baseURL := os.Getenv("CALENDAR_BASE_URL"); baseURL != "" {
		cal = calendar.NewHTTPClient(baseURL, os.Getenv("CALENDAR_API_KEY"))
	}

	uploadDir := os.Getenv("LEAVE_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads/leaves"
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))
	router.Use(middleware.Idempotency(redisClient))

	return registerModules(router, gormDB, redisClient, cal, uploadDir)
}
