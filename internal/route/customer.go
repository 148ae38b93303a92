package route

import (
	"github.com/SeakMengs/SecCert/internal/controller"
	"github.com/SeakMengs/SecCert/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Customers(r *gin.RouterGroup, cc *controller.CustomerController, middleware *middleware.Middleware) {
	v1 := r.Group("/customers")
	v1.Use(middleware.SessionAuthMiddleware)
	{
		v1.POST("/regenerate-credentials", cc.RegenerateCredentials)
		v1.PUT("/:id", cc.Update)
	}
}
