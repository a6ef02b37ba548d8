package magicstudio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nafijninja/genx/internal/domain"
	"gopkg.in/resty.v1"
)

const (
	DefaultEndpoint = "https://ai-api.magicstudio.com/api/ai-art-generator"

	acceptHeader    = "application/json, text/plain, */*"
	refererHeader   = "https://magicstudio.com/ai-art-generator/"
	userAgentHeader = "Mozilla/5.0 (compatible; Node.js backend)"
)

type Client struct {
	resty    *resty.Client
	endpoint string
	Logger   domain.LoggingRepository
}

func NewClient(endpoint string, timeout time.Duration, logger domain.LoggingRepository) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	restyClient := resty.New().SetTimeout(timeout)
	return &Client{resty: restyClient, endpoint: endpoint, Logger: logger}
}

// GenerateImage posts prompt as the only multipart field and returns the raw
// image bytes from a successful response.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	log := c.Logger.With("event.action", "magicstudio_generate")

	log.Info("building form data for api")
	req := c.resty.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Accept":     acceptHeader,
			"Referer":    refererHeader,
			"User-Agent": userAgentHeader,
		}).
		SetMultipartField("prompt", "", "text/plain; charset=utf-8", strings.NewReader(prompt))

	log.Info("sending request to magicstudio api", "url.full", c.endpoint)
	start := time.Now()
	resp, err := req.Post(c.endpoint)
	if err != nil {
		log.Error("magicstudio request failed",
			"event.outcome", "failed",
			"error.message", err.Error(),
			"event.duration", time.Since(start).Nanoseconds())
		return nil, domain.NewDomainError(domain.ErrCodeUpstream, "MagicStudio API request failed", err)
	}

	if !resp.IsSuccess() {
		log.Error("magicstudio api failed",
			"event.outcome", "failed",
			"http.response.status_code", resp.StatusCode(),
			"event.duration", time.Since(start).Nanoseconds())
		return nil, domain.NewDomainError(domain.ErrCodeUpstream, fmt.Sprintf("MagicStudio API error: %d", resp.StatusCode()), nil)
	}

	log.Info("magicstudio api responded",
		"event.outcome", "success",
		"http.response.body.bytes", len(resp.Body()),
		"event.duration", time.Since(start).Nanoseconds())
	return resp.Body(), nil
}
