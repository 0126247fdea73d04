package caregiver

import (
	"go-carehome/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer middleware.Authorizer,
) {
	caregivers := r.Group("/caregivers")
	caregivers.Use(middleware.AuthMiddleware())
	{
		caregivers.GET("", middleware.RBACAuthorize(authorizer, "caregiver", "read"), handler.GetAll)
		caregivers.GET("/:id", middleware.RBACAuthorize(authorizer, "caregiver", "read"), handler.GetByID)
		caregivers.POST("", middleware.RBACAuthorize(authorizer, "caregiver", "manage"), handler.Register)
		caregivers.PATCH("/:id/status", middleware.RBACAuthorize(authorizer, "caregiver", "manage"), handler.SetStatus)
	}
}
