package carereceiver

import (
	"go-carehome/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authorizer middleware.Authorizer,
) {
	receivers := r.Group("/care-receivers")
	receivers.Use(middleware.AuthMiddleware())
	{
		receivers.GET("", middleware.RBACAuthorize(authorizer, "care_receiver", "read"), handler.GetAll)
		receivers.GET("/:id", middleware.RBACAuthorize(authorizer, "care_receiver", "read"), handler.GetByID)
		receivers.POST("", middleware.RBACAuthorize(authorizer, "care_receiver", "manage"), handler.Register)
		receivers.PATCH("/:id", middleware.RBACAuthorize(authorizer, "care_receiver", "manage"), handler.Update)
		receivers.POST("/:id/discharge", middleware.RBACAuthorize(authorizer, "care_receiver", "manage"), handler.Discharge)
	}
}
