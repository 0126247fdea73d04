package roster

import (
	"go-carehome/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer middleware.Authorizer,
) {
	rosters := r.Group("/rosters")
	rosters.Use(middleware.AuthMiddleware())
	{
		rosters.GET("", middleware.RBACAuthorize(authorizer, "roster", "read"), handler.GetByDateRange)
		rosters.GET("/:id", middleware.RBACAuthorize(authorizer, "roster", "read"), handler.GetByID)
		rosters.POST("", middleware.RBACAuthorize(authorizer, "roster", "manage"), handler.Create)
		rosters.PUT("/:id", middleware.RBACAuthorize(authorizer, "roster", "manage"), handler.Update)
		rosters.DELETE("/:id", middleware.RBACAuthorize(authorizer, "roster", "manage"), handler.Delete)
		rosters.PATCH("/:id/confirm", middleware.RBACAuthorize(authorizer, "roster", "transition"), handler.Confirm)
		rosters.PATCH("/:id/start", middleware.RBACAuthorize(authorizer, "roster", "transition"), handler.Start)
		rosters.PATCH("/:id/complete", middleware.RBACAuthorize(authorizer, "roster", "transition"), handler.Complete)
	}
}
