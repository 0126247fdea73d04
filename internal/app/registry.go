package app

import (
	"go-carehome/internal/audit"
	"go-carehome/internal/calendar"
	"go-carehome/internal/caregiver"
	"go-carehome/internal/carereceiver"
	"go-carehome/internal/leave"
	"go-carehome/internal/location"
	"go-carehome/internal/messaging/kafka"
	"go-carehome/internal/rbac"
	"go-carehome/internal/roombed"
	"go-carehome/internal/roster"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cal calendar.Client,
	uploadDir string,
) (audit.Recorder, error) {
	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	locationRepo := location.NewRepository(gormDB)
	caregiverRepo := caregiver.NewRepository(gormDB)
	careReceiverRepo := carereceiver.NewRepository(gormDB)
	roomBedRepo := roombed.NewRepository(gormDB)
	rosterRepo := roster.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return nil, err
	}

	// --- Services ---
	auditService := audit.NewService(auditRepo)
	locationService := location.NewService(gormDB, locationRepo, auditService)
	caregiverService := caregiver.NewService(gormDB, caregiverRepo, auditService)
	roomBedService := roombed.NewService(gormDB, roomBedRepo, rdb, auditService)
	careReceiverService := carereceiver.NewService(careReceiverRepo, roomBedService, auditService)
	rosterService := roster.NewService(gormDB, rosterRepo, outboxRepo, cal, auditService)
	leaveService := leave.NewService(
		gormDB,
		leaveRepo,
		rosterRepo,
		leave.NewDiskAttachmentStore(uploadDir),
		outboxRepo,
		auditService,
		nil,
	)

	// --- Handlers ---
	auditHandler := audit.NewHandler(auditService)
	locationHandler := location.NewHandler(locationService)
	caregiverHandler := caregiver.NewHandler(caregiverService)
	careReceiverHandler := carereceiver.NewHandler(careReceiverService)
	roomBedHandler := roombed.NewHandler(roomBedService)
	rosterHandler := roster.NewHandlerWithRedis(rosterService, rdb)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		audit.RegisterRoutes(api, auditHandler, enforcer)
		location.RegisterRoutes(api, locationHandler, enforcer)
		caregiver.RegisterRoutes(api, caregiverHandler, enforcer)
		carereceiver.RegisterRoutes(api, careReceiverHandler, enforcer)
		roombed.RegisterRoutes(api, roomBedHandler, enforcer)
		roster.RegisterRoutes(api, rosterHandler, enforcer)
		leave.RegisterRoutes(api, leaveHandler, enforcer)
	}

	return auditService, nil
}
