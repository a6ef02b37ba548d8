package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/nafijninja/genx/internal/domain"
	"github.com/nafijninja/genx/pkg/logger"
)

func testLogger() domain.LoggingRepository {
	return logger.New(io.Discard, slog.LevelInfo)
}

type fakeImageAPI struct {
	calls   []string
	payload []byte
	err     error
}

func (f *fakeImageAPI) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.calls = append(f.calls, prompt)
	return f.payload, f.err
}

// fakePage records interactions and replays scripted scroll heights.
type fakePage struct {
	mu         sync.Mutex
	heights    []int64
	srcs       []string
	typed      []string
	submits    int
	refreshes  int
	scrolls    int
	tops       int
	fillErr    error
	submitErr  error
	refreshErr error
}

func (f *fakePage) FillPrompt(ctx context.Context, prompt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fillErr != nil {
		return f.fillErr
	}
	f.typed = append(f.typed, prompt)
	return nil
}

func (f *fakePage) Submit(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	return f.submitErr
}

func (f *fakePage) ClickRefresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshErr
}

func (f *fakePage) ScrollStep(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.scrolls
	f.scrolls++
	if len(f.heights) == 0 {
		return 0, nil
	}
	if i >= len(f.heights) {
		return f.heights[len(f.heights)-1], nil
	}
	return f.heights[i], nil
}

func (f *fakePage) ScrollToTop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tops++
	return nil
}

func (f *fakePage) ImageSources(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.srcs...), nil
}

type fakeSession struct {
	page   *fakePage
	err    error
	opened int
	closed bool
}

func (s *fakeSession) Page(ctx context.Context) (domain.BrowserPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.opened++
	return s.page, nil
}

func (s *fakeSession) Close() { s.closed = true }

// inlinePool runs every task on the caller's goroutine.
type inlinePool struct{ submitted int }

func (p *inlinePool) Submit(ctx context.Context, task domain.BrowserTask) error {
	p.submitted++
	return task(ctx)
}
func (p *inlinePool) Start()  {}
func (p *inlinePool) Cancel() {}
func (p *inlinePool) Wait()   {}
func (p *inlinePool) Close()  {}
