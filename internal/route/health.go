package route

import (
	"github.com/SeakMengs/SecCert/internal/controller"
	"github.com/gin-gonic/gin"
)

func Health(r *gin.RouterGroup, hc *controller.HealthController) {
	r.GET("/health", hc.Health)
}
