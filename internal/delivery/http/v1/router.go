package v1

import (
	"net/http"
	"time"

	"go-recruitment-tracker/config"
	"go-recruitment-tracker/internal/delivery/http/middleware"
	"go-recruitment-tracker/internal/delivery/http/response"
	"go-recruitment-tracker/internal/domain"
	"go-recruitment-tracker/pkg/auth"
	"go-recruitment-tracker/pkg/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CandidateUC  domain.CandidateUsecase
	BulkUC       domain.BulkUsecase
	HistoryUC    domain.HistoryUsecase
	ResumeStore  *storage.ResumeStore
	JWKSProvider *auth.Provider
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Limit:     deps.Config.RateLimitGlobalThreshold,
		Window:    time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second,
		KeyPrefix: "rl:ip:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config))
	{
		// Upload endpoints carry a tighter rate limit on top of the global one
		uploadLimited := protected.Group("")
		uploadLimited.Use(middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(
			deps.Config.RateLimitUploadThreshold,
			time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
		)))

		NewCandidateHandler(protected, uploadLimited, deps.CandidateUC, deps.ResumeStore)
		NewBulkHandler(uploadLimited, deps.BulkUC)
		NewHistoryHandler(protected, deps.HistoryUC)
	}

	return r
}
