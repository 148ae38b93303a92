package route

import (
	appcontext "github.com/SeakMengs/SecCert/internal/app_context"
	"github.com/SeakMengs/SecCert/internal/constant"
	"github.com/SeakMengs/SecCert/internal/controller"
	"github.com/SeakMengs/SecCert/internal/middleware"
	ratelimiter "github.com/SeakMengs/SecCert/internal/rate_limiter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every route mounted under /api.
func NewRouter(app *appcontext.Application, rateLimiter *ratelimiter.FixedWindowRateLimiter) *gin.Engine {
	_middleware := middleware.NewMiddleware(app, rateLimiter)

	r := gin.Default()

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = app.Config.Cors.AllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"*"}
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept", constant.HeaderAPIKey, constant.HeaderAPISecret}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	_controller := controller.NewController(app)

	rApi := r.Group("/api")

	Health(rApi, _controller.Health)
	V1_Auth(rApi, _controller.Auth, _middleware)
	V1_Customers(rApi, _controller.Customer, _middleware)
	V1_Templates(rApi, _controller.Template, _middleware)
	V1_Certificates(rApi, _controller.Certificate, _middleware)

	return r
}
