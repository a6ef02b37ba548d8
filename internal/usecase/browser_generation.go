package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/nafijninja/genx/internal/domain"
	"github.com/nafijninja/genx/internal/observability"
)

// BrowserTimings are the fixed waits used while driving the page. The grace
// periods stand in for a completion signal the target page does not expose.
type BrowserTimings struct {
	SubmitGrace  time.Duration
	RefreshGrace time.Duration
	ScrollPause  time.Duration
	ScrollRounds int
}

func DefaultBrowserTimings() BrowserTimings {
	return BrowserTimings{
		SubmitGrace:  15 * time.Second,
		RefreshGrace: 12 * time.Second,
		ScrollPause:  time.Second,
		ScrollRounds: 5,
	}
}

type BrowserGenerationService struct {
	Session domain.BrowserSession
	Pool    domain.BrowserWorkerPool
	Timings BrowserTimings
	Logger  domain.LoggingRepository

	mu         sync.Mutex
	lastPrompt string
}

func NewBrowserGenerationService(
	session domain.BrowserSession,
	pool domain.BrowserWorkerPool,
	timings BrowserTimings,
	logger domain.LoggingRepository,
) *BrowserGenerationService {
	return &BrowserGenerationService{Session: session, Pool: pool, Timings: timings, Logger: logger}
}

func (s *BrowserGenerationService) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPrompt
}

func (s *BrowserGenerationService) setLastPrompt(prompt string) {
	s.mu.Lock()
	s.lastPrompt = prompt
	s.mu.Unlock()
}

func (s *BrowserGenerationService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	prompt := req.Trimmed()
	if prompt == "" {
		return nil, domain.ErrInvalidPrompt
	}

	log := s.Logger.With("http.request.id", observability.GetRequestID(ctx), "event.action", "browser_generate", "prompt", prompt)
	log.Info("generation requested", "event.type", []string{"start"})

	var images []string
	err := s.Pool.Submit(ctx, func(ctx context.Context) error {
		page, err := s.Session.Page(ctx)
		if err != nil {
			return err
		}

		if err := page.FillPrompt(ctx, prompt); err != nil {
			return err
		}
		s.setLastPrompt(prompt)
		log.Info("prompt typed")

		if err := page.Submit(ctx); err != nil {
			return err
		}
		log.Info("generate clicked, waiting for images", "grace", s.Timings.SubmitGrace.String())

		if err := sleep(ctx, s.Timings.SubmitGrace); err != nil {
			return err
		}

		images, err = s.collect(ctx, page, log)
		return err
	})
	if err != nil {
		log.Error("generation failed", "event.outcome", "failed", "error.message", err.Error())
		return nil, err
	}

	log.Info("generation completed", "event.outcome", "success", "images.count", len(images))
	return &domain.GenerationResult{Prompt: prompt, Images: images}, nil
}

// Refresh asks the page for a new batch and pairs it with the most recently
// submitted prompt, which is empty before the first Generate.
func (s *BrowserGenerationService) Refresh(ctx context.Context) (*domain.GenerationResult, error) {
	log := s.Logger.With("http.request.id", observability.GetRequestID(ctx), "event.action", "browser_refresh")
	log.Info("refresh requested", "event.type", []string{"start"})

	var images []string
	err := s.Pool.Submit(ctx, func(ctx context.Context) error {
		page, err := s.Session.Page(ctx)
		if err != nil {
			return err
		}

		if err := page.ClickRefresh(ctx); err != nil {
			return err
		}
		log.Info("refresh clicked, waiting for images", "grace", s.Timings.RefreshGrace.String())

		if err := sleep(ctx, s.Timings.RefreshGrace); err != nil {
			return err
		}

		images, err = s.collect(ctx, page, log)
		return err
	})
	if err != nil {
		log.Error("refresh failed", "event.outcome", "failed", "error.message", err.Error())
		return nil, err
	}

	log.Info("refresh completed", "event.outcome", "success", "images.count", len(images))
	return &domain.GenerationResult{Prompt: s.LastPrompt(), Images: images}, nil
}

func (s *BrowserGenerationService) collect(ctx context.Context, page domain.BrowserPage, log domain.LoggingRepository) ([]string, error) {
	rounds, err := ScrollToLoad(ctx, page, s.Timings.ScrollRounds, s.Timings.ScrollPause)
	if err != nil {
		return nil, err
	}
	log.Debug("gallery scrolled", "scroll.rounds", rounds)

	srcs, err := page.ImageSources(ctx)
	if err != nil {
		return nil, err
	}

	images := FilterImageSources(srcs)
	if len(images) == 0 {
		return nil, domain.NewDomainError(domain.ErrCodeNoImagesProduced, "no images found on the page", nil)
	}
	return images, nil
}
