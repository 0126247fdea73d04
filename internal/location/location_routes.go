package location

import (
	"go-carehome/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer middleware.Authorizer,
) {
	locations := r.Group("/locations")
	locations.Use(middleware.AuthMiddleware())
	{
		locations.GET("", middleware.RBACAuthorize(authorizer, "location", "read"), handler.GetAll)
		locations.GET("/:id", middleware.RBACAuthorize(authorizer, "location", "read"), handler.GetByID)
		locations.POST("", middleware.RBACAuthorize(authorizer, "location", "manage"), handler.Create)
	}
}
