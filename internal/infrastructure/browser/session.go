package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/nafijninja/genx/internal/domain"
)

// SessionManager owns the single headless browser and tab shared by every
// request. The session is launched on first use and lives until Close.
type SessionManager struct {
	Site       Site
	ChromePath string
	Logger     domain.LoggingRepository

	mu          sync.Mutex
	page        *Page
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
}

var _ domain.BrowserSession = (*SessionManager)(nil)

func NewSessionManager(site Site, chromePath string, logger domain.LoggingRepository) *SessionManager {
	return &SessionManager{Site: site, ChromePath: chromePath, Logger: logger.With("service.component", "browser_session")}
}

func (m *SessionManager) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if m.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(m.ChromePath))
	}
	return opts
}

// Page returns the shared page, launching the browser and opening the site
// on the first call. A failed launch leaves no session behind, so the next
// call tries again. A session whose tab or browser has died is replaced.
func (m *SessionManager) Page(ctx context.Context) (domain.BrowserPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		if m.alive() {
			return m.page, nil
		}
		m.Logger.Warn("browser session lost, relaunching", "error.message", context.Cause(m.page.tabCtx).Error())
		m.teardown()
	}

	start := time.Now()
	log := m.Logger.With("event.action", "session_init", "url.full", m.Site.URL)
	log.Info("launching headless browser")

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), m.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// The first Run starts the browser; it must not be bound to a timeout or
	// the browser would die with it.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		log.Error("browser launch failed", "event.outcome", "failed", "error.message", err.Error())
		return nil, domain.NewDomainError(domain.ErrCodeSessionInit, "failed to launch browser", err)
	}

	page := &Page{tabCtx: tabCtx, site: m.Site}
	if err := page.open(ctx); err != nil {
		tabCancel()
		allocCancel()
		log.Error("navigation failed", "event.outcome", "failed", "error.message", err.Error(),
			"event.duration", time.Since(start).Nanoseconds())
		return nil, domain.NewDomainError(domain.ErrCodeSessionInit, "failed to open target page", err)
	}

	m.page = page
	m.tabCancel = tabCancel
	m.allocCancel = allocCancel
	log.Info("browser session ready", "event.outcome", "success", "event.duration", time.Since(start).Nanoseconds())
	return page, nil
}

func (m *SessionManager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alive()
}

// alive reports whether the current tab context is still usable. The tab
// context ends when the tab is closed or the browser process exits.
func (m *SessionManager) alive() bool {
	return m.page != nil && m.page.tabCtx.Err() == nil
}

func (m *SessionManager) teardown() {
	m.tabCancel()
	m.allocCancel()
	m.page = nil
	m.tabCancel = nil
	m.allocCancel = nil
}

// Close shuts the tab and the browser process down. It is safe to call when
// no session was ever launched.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page == nil {
		return
	}
	m.teardown()
	m.Logger.Info("browser session closed")
}
