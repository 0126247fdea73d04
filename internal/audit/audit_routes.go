package audit

import (
	"go-carehome/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer middleware.Authorizer,
) {
	logs := r.Group("/audit-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.RBACAuthorize(authorizer, "audit", "read"), handler.List)
		logs.GET("/stats", middleware.RBACAuthorize(authorizer, "audit", "read"), handler.Stats)
	}
}
