package route

import (
	"github.com/SeakMengs/SecCert/internal/controller"
	"github.com/SeakMengs/SecCert/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Auth(r *gin.RouterGroup, authController *controller.AuthController, middleware *middleware.Middleware) {
	v1 := r.Group("/auth")
	{
		v1.POST("/register", authController.Register)
		v1.POST("/login", authController.Login)
		v1.GET("/profile", middleware.SessionAuthMiddleware, authController.Profile)
	}
}
