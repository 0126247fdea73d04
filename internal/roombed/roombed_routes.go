package roombed

import (
	"go-carehome/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer middleware.Authorizer,
) {
	beds := r.Group("/room-beds")
	beds.Use(middleware.AuthMiddleware())
	{
		beds.GET("", middleware.RBACAuthorize(authorizer, "room_bed", "read"), handler.GetByLocation)
		beds.GET("/available", middleware.RBACAuthorize(authorizer, "room_bed", "read"), handler.GetAvailable)
		beds.POST("", middleware.RBACAuthorize(authorizer, "room_bed", "manage"), handler.Create)
		beds.POST("/assign", middleware.RBACAuthorize(authorizer, "room_bed", "manage"), handler.Assign)
		beds.POST("/unassign/:careReceiverId", middleware.RBACAuthorize(authorizer, "room_bed", "manage"), handler.Unassign)
	}
}
