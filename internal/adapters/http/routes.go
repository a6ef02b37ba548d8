package router

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/nafijninja/genx/docs"
	"github.com/nafijninja/genx/internal/adapters/http/dto"
	"github.com/nafijninja/genx/internal/adapters/http/handler"
	"github.com/nafijninja/genx/internal/adapters/http/middleware"
	"github.com/nafijninja/genx/internal/domain"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterConfig struct {
	// Service names the deployment in logs and /health.
	Service string
	// Exactly one of DirectHandler and BrowserHandler is expected.
	DirectHandler  *handler.DirectHandler
	BrowserHandler *handler.BrowserHandler
	SessionActive  func() bool

	Logger            domain.LoggingRepository
	StaticDir         string
	MaxAllowedSize    int
	IpRateLimiter     *middleware.IPRateLimiter
	RateLimitCapacity float64
	RateLimitFillRate float64
}

func SetupRoutes(config RouterConfig) *gin.Engine {

	g := gin.New()
	g.Use(
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposeHeaders:   []string{"X-Request-Id"},
			MaxAge:          12 * time.Hour,
		}),
		middleware.AddRequestID(),
		middleware.LoggingRequestMiddleware(config.Logger),
		middleware.PanicRecoveryMiddleware(config.Logger),
	)

	generation := g.Group("")
	if config.IpRateLimiter != nil && config.RateLimitCapacity > 0 {
		generation.Use(middleware.RateLimiterMiddelware(
			config.IpRateLimiter,
			config.RateLimitCapacity,
			config.RateLimitFillRate,
			config.Logger))
	}
	checkPrompt := middleware.CheckContentBody[dto.GenerateRequest](config.MaxAllowedSize, dto.ErrInvalidPrompt, config.Logger)

	if h := config.DirectHandler; h != nil {
		generation.Handle("POST", "/generate", checkPrompt, h.GenerateHandler)
	}
	if h := config.BrowserHandler; h != nil {
		generation.Handle("POST", "/generate", checkPrompt, h.GenerateHandler)
		generation.Handle("GET", "/refresh", h.RefreshHandler)
	}

	g.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	g.Handle("GET", "/health", handler.HealthHandler(config.Service, config.SessionActive))

	// frontend bundle
	g.StaticFile("/", filepath.Join(config.StaticDir, "index.html"))
	files := http.FileServer(http.Dir(config.StaticDir))
	g.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})

	return g

}
