package browser

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/cdproto/cdp"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/nafijninja/genx/internal/domain"
)

const (
	scrollStepScript = `window.scrollBy(0, window.innerHeight); document.body.scrollHeight`
	scrollTopScript  = `window.scrollTo(0, 0)`
	// The src attribute is read as written, so relative and
	// protocol-relative sources stay unresolved and are later filtered out.
	// Reading the img.src property instead would resolve them against the
	// page URL; that switch belongs here.
	imageSourceScript = `Array.from(document.querySelectorAll('img'), img => img.getAttribute('src') || '')`
)

// Page drives one chromedp tab using the selectors of a Site.
type Page struct {
	tabCtx context.Context
	site   Site
}

var _ domain.BrowserPage = (*Page)(nil)

// run executes actions under a context derived from the long-lived tab
// context. It ends after timeout or as soon as ctx is done.
func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	stepCtx, cancel := context.WithTimeout(p.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(stepCtx, actions...)
}

// open navigates to the site and waits for the DOM only, not for every
// subresource to load.
func (p *Page) open(ctx context.Context) error {
	navigate := chromedp.ActionFunc(func(ctx context.Context) error {
		var res cdppage.NavigateReturns
		if err := cdp.Execute(ctx, cdppage.CommandNavigate, cdppage.Navigate(p.site.URL), &res); err != nil {
			return err
		}
		if res.ErrorText != "" {
			return errors.New(res.ErrorText)
		}
		return nil
	})

	return p.run(ctx, p.site.NavigationTimeout, navigate, chromedp.WaitReady("body", chromedp.ByQuery))
}

func (p *Page) FillPrompt(ctx context.Context, prompt string) error {
	sel := p.site.PromptSelector
	if err := p.run(ctx, p.site.ElementTimeout, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return domain.NewDomainError(domain.ErrCodeElementNotFound, "prompt input not found", err)
	}

	err := p.run(ctx, p.site.ActionTimeout,
		chromedp.SetValue(sel, "", chromedp.ByQuery),
		chromedp.Focus(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, prompt, chromedp.ByQuery),
	)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeInternal, "failed to type prompt", err)
	}
	return nil
}

func (p *Page) Submit(ctx context.Context) error {
	sel := p.site.SubmitXPath
	if err := p.run(ctx, p.site.ElementTimeout, chromedp.WaitVisible(sel, chromedp.BySearch)); err != nil {
		return domain.NewDomainError(domain.ErrCodeElementNotFound, "generate button not found", err)
	}

	if err := p.run(ctx, p.site.ActionTimeout, chromedp.Click(sel, chromedp.BySearch)); err != nil {
		return domain.NewDomainError(domain.ErrCodeInternal, "failed to click generate button", err)
	}
	return nil
}

// ClickRefresh looks the refresh control up once, without waiting for it.
func (p *Page) ClickRefresh(ctx context.Context) error {
	var nodes []*cdp.Node
	err := p.run(ctx, p.site.ActionTimeout, chromedp.Nodes(p.site.RefreshXPath, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeInternal, "failed to look up refresh button", err)
	}
	if len(nodes) == 0 {
		return domain.NewDomainError(domain.ErrCodeElementNotFound, "refresh button not found", nil)
	}

	if err := p.run(ctx, p.site.ActionTimeout, chromedp.MouseClickNode(nodes[0])); err != nil {
		return domain.NewDomainError(domain.ErrCodeInternal, "failed to click refresh button", err)
	}
	return nil
}

func (p *Page) ScrollStep(ctx context.Context) (int64, error) {
	var height int64
	if err := p.run(ctx, p.site.ActionTimeout, chromedp.Evaluate(scrollStepScript, &height)); err != nil {
		return 0, domain.NewDomainError(domain.ErrCodeInternal, "failed to scroll page", err)
	}
	return height, nil
}

func (p *Page) ScrollToTop(ctx context.Context) error {
	if err := p.run(ctx, p.site.ActionTimeout, chromedp.Evaluate(scrollTopScript, nil)); err != nil {
		return domain.NewDomainError(domain.ErrCodeInternal, "failed to scroll to top", err)
	}
	return nil
}

func (p *Page) ImageSources(ctx context.Context) ([]string, error) {
	var srcs []string
	if err := p.run(ctx, p.site.ActionTimeout, chromedp.Evaluate(imageSourceScript, &srcs)); err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "failed to read image sources", err)
	}
	return srcs, nil
}
