package handler

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/nafijninja/genx/internal/adapters/http/dto"
	"github.com/nafijninja/genx/internal/domain"
)

const (
	msgDirectGenerationFailed  = "Image generation failed"
	msgBrowserGenerationFailed = "Failed to generate images"
	msgBrowserRefreshFailed    = "Failed to refresh images"
)

// DirectHandler serves the service that calls the image API directly.
type DirectHandler struct {
	Svc    domain.DirectGenerator
	Logger domain.LoggingRepository
}

func NewDirectHandler(svc domain.DirectGenerator, logger domain.LoggingRepository) *DirectHandler {
	return &DirectHandler{Svc: svc, Logger: logger}
}

func (h *DirectHandler) GenerateHandler(c *gin.Context) {
	req := c.MustGet("payload").(dto.GenerateRequest)

	res, err := h.Svc.Generate(c.Request.Context(), domain.GenerationRequest{Prompt: req.Prompt})
	if err != nil {
		httpErr := dto.MapErr(err, msgDirectGenerationFailed)
		h.Logger.Error("generation error", "http.request.id", c.GetString("RequestID"), "error.code", httpErr.Code, "error.message", err.Error())
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}

	c.JSON(http.StatusOK, dto.ImageResponse{Prompt: res.Prompt, Image: res.Image})
}

// BrowserHandler serves the service that drives the headless browser.
type BrowserHandler struct {
	Svc    domain.BrowserGenerator
	Logger domain.LoggingRepository
}

func NewBrowserHandler(svc domain.BrowserGenerator, logger domain.LoggingRepository) *BrowserHandler {
	return &BrowserHandler{Svc: svc, Logger: logger}
}

func (h *BrowserHandler) GenerateHandler(c *gin.Context) {
	req := c.MustGet("payload").(dto.GenerateRequest)

	res, err := h.Svc.Generate(c.Request.Context(), domain.GenerationRequest{Prompt: req.Prompt})
	if err != nil {
		httpErr := dto.MapErr(err, msgBrowserGenerationFailed)
		h.Logger.Error("generation error", "http.request.id", c.GetString("RequestID"), "error.code", httpErr.Code, "error.message", err.Error())
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}

	c.JSON(http.StatusOK, dto.ImagesResponse{Prompt: res.Prompt, Images: res.Images})
}

func (h *BrowserHandler) RefreshHandler(c *gin.Context) {
	res, err := h.Svc.Refresh(c.Request.Context())
	if err != nil {
		httpErr := dto.MapErr(err, msgBrowserRefreshFailed)
		h.Logger.Error("refresh error", "http.request.id", c.GetString("RequestID"), "error.code", httpErr.Code, "error.message", err.Error())
		c.JSON(httpErr.StatusCode, httpErr)
		return
	}

	c.JSON(http.StatusOK, dto.ImagesResponse{Prompt: res.Prompt, Images: res.Images})
}

// HealthHandler reports liveness and memory figures. sessionActive may be
// nil for services without a browser.
func HealthHandler(service string, sessionActive func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var memStat runtime.MemStats
		runtime.ReadMemStats(&memStat)

		resp := dto.HealthResponse{
			Status:  "ok",
			Service: service,
			Memory: dto.MemoryStats{
				AllocMB:      memStat.Alloc / 1024 / 1024,
				TotalAllocMB: memStat.TotalAlloc / 1024 / 1024,
				SysMB:        memStat.Sys / 1024 / 1024,
				NumGC:        memStat.NumGC,
				NumGoroutine: runtime.NumGoroutine(),
			},
		}
		if sessionActive != nil {
			resp.BrowserSession = "idle"
			if sessionActive() {
				resp.BrowserSession = "active"
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
