package leave

import (
	"go-carehome/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer middleware.Authorizer,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.RBACAuthorize(authorizer, "leave", "create"), handler.Create)
		leaves.GET("/my", middleware.RBACAuthorize(authorizer, "leave", "read_own"), handler.ListMine)
		leaves.GET("", middleware.RBACAuthorize(authorizer, "leave", "read"), handler.ListAll)
		leaves.PATCH("/:id/approve", middleware.RBACAuthorize(authorizer, "leave", "manage"), handler.Approve)
		leaves.PATCH("/:id/reject", middleware.RBACAuthorize(authorizer, "leave", "manage"), handler.Reject)
		leaves.PATCH("/:id/cancel", middleware.RBACAuthorize(authorizer, "leave", "cancel"), handler.Cancel)
	}
}
