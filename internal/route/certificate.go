package route

import (
	"github.com/SeakMengs/SecCert/internal/controller"
	"github.com/SeakMengs/SecCert/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Certificates(r *gin.RouterGroup, cc *controller.CertificateController, middleware *middleware.Middleware) {
	public := r.Group("/certificates")
	{
		public.GET("/verify/:verificationToken", cc.Verify)
	}

	apiKey := r.Group("/certificates")
	apiKey.Use(middleware.APIKeyAuthMiddleware)
	{
		apiKey.POST("/generate", cc.Generate)
		apiKey.POST("/batch-generate", cc.BatchGenerate)
	}

	session := r.Group("/certificates")
	session.Use(middleware.SessionAuthMiddleware)
	{
		session.POST("/simulate", cc.Simulate)
		session.POST("/generate-ui", cc.Generate)
		session.GET("", cc.List)
		session.GET("/:id", cc.Get)
		session.GET("/:id/download", cc.Download)
		session.PUT("/:id/revoke", cc.Revoke)
	}
}
