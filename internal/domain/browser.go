package domain

import (
	"context"
)

// BrowserPage is the set of page interactions the browser service needs.
// Implementations own every selector and URL of the target site.
type BrowserPage interface {
	// FillPrompt waits for the prompt input, clears it and types prompt key by key.
	FillPrompt(ctx context.Context, prompt string) error
	// Submit waits for the generate control and clicks it.
	Submit(ctx context.Context) error
	// ClickRefresh clicks the refresh control if it is present right now.
	ClickRefresh(ctx context.Context) error
	// ScrollStep scrolls down one viewport and returns the document scroll height.
	ScrollStep(ctx context.Context) (int64, error)
	ScrollToTop(ctx context.Context) error
	// ImageSources returns the src attribute of every img element in document order.
	ImageSources(ctx context.Context) ([]string, error)
}

type BrowserSession interface {
	Page(ctx context.Context) (BrowserPage, error)
	Close()
}

// BrowserTask is one unit of work run against the shared page.
type BrowserTask func(ctx context.Context) error

type BrowserWorkerPool interface {
	Submit(ctx context.Context, task BrowserTask) error
	Start()
	Cancel()
	Wait()
	Close()
}
