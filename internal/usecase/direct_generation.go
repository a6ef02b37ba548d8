package usecase

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/nafijninja/genx/internal/domain"
	"github.com/nafijninja/genx/internal/observability"
)

type DirectGenerationService struct {
	API    domain.ImageAPI
	Logger domain.LoggingRepository
}

func NewDirectGenerationService(api domain.ImageAPI, logger domain.LoggingRepository) *DirectGenerationService {
	return &DirectGenerationService{API: api, Logger: logger}
}

// Generate forwards the trimmed prompt upstream and wraps the returned bytes
// as a JPEG data URI. The result echoes the prompt as it was received.
func (s *DirectGenerationService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	prompt := req.Trimmed()
	if prompt == "" {
		return nil, domain.ErrInvalidPrompt
	}

	log := s.Logger.With("http.request.id", observability.GetRequestID(ctx), "event.category", []string{"process"}, "prompt", req.Prompt)
	log.Info("prompt received", "event.type", []string{"start"})

	start := time.Now()
	data, err := s.API.GenerateImage(ctx, prompt)
	if err != nil {
		log.Error("image generation failed",
			"event.type", []string{"error", "end"},
			"event.outcome", "failed",
			"error.message", err.Error(),
			"event.duration", time.Since(start).Nanoseconds())
		return nil, err
	}

	image := domain.ImageDataURIPrefix + base64.StdEncoding.EncodeToString(data)

	log.Info("sending image back to client",
		"event.type", []string{"end"},
		"event.outcome", "success",
		"event.duration", time.Since(start).Nanoseconds())
	return &domain.GenerationResult{Prompt: req.Prompt, Image: image}, nil
}
