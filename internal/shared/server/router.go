package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-tracker/internal/auth"
	"resume-tracker/internal/resumes"
	"resume-tracker/internal/services/health"
	"resume-tracker/internal/shared/config"
	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/server/respond"
	"resume-tracker/internal/users"
)

// RouterDeps carries the handlers the router wires up. Everything is built
// in bootstrap and injected; the router owns no dependencies of its own.
type RouterDeps struct {
	Config         config.Config
	HealthService  *health.Service
	UsersHandler   *users.Handler
	ResumesHandler *resumes.Handler
	GoogleAuth     *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.RateLimitGroupAuth:   {Rate: 2, Burst: 10},
				middleware.RateLimitGroupMutate: {Rate: 10, Burst: 50},
			},
			GroupFor: middleware.RateLimitGroupFor,
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.HealthService.Status(c.Request.Context()))
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	deps.UsersHandler.RegisterRoutes(api)
	deps.ResumesHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
