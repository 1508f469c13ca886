package render

import (
	"context"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Session is one isolated unit of rendering work: it converts filled HTML into
// a PDF and is closed immediately after use. Sessions are never shared across
// concurrent records.
type Session interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close()
}

// Pool owns the shared, expensive rendering context for the duration of a run.
// Acquire is called exactly once at run start and Release exactly once at run
// end, on every exit path.
type Pool interface {
	Acquire(ctx context.Context) error
	NewSession(ctx context.Context) (Session, error)
	Release()
}

// BrowserPool implements Pool on a headless Chrome instance. The browser is
// started on Acquire; each session is a tab drawn from the same browser.
// Requires Chrome/Chromium to be installed on the system.
type BrowserPool struct {
	timeout     time.Duration
	verbose     bool
	allocCancel context.CancelFunc
	browserCtx  context.Context
	ctxCancel   context.CancelFunc
}

// NewBrowserPool builds an idle pool. timeout bounds each individual render.
func NewBrowserPool(timeout time.Duration, verbose bool) *BrowserPool {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserPool{timeout: timeout, verbose: verbose}
}

// Acquire starts the shared browser. A failure here is fatal to the run.
func (p *BrowserPool) Acquire(ctx context.Context) error {
	if p.verbose {
		log.Printf("[BROWSER] starting headless browser")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	// Run a no-op so the browser process starts now; otherwise a broken
	// Chrome install would surface mid-batch instead of up front.
	if err := chromedp.Run(browserCtx); err != nil {
		ctxCancel()
		allocCancel()
		return &PoolError{Message: "failed to start browser", Cause: err}
	}

	p.allocCancel = allocCancel
	p.browserCtx = browserCtx
	p.ctxCancel = ctxCancel
	return nil
}

// NewSession opens a fresh tab in the shared browser.
func (p *BrowserPool) NewSession(ctx context.Context) (Session, error) {
	if p.browserCtx == nil {
		return nil, &PoolError{Message: "pool not acquired"}
	}
	if err := p.browserCtx.Err(); err != nil {
		return nil, &PoolError{Message: "browser context lost", Cause: err}
	}
	tabCtx, tabCancel := chromedp.NewContext(p.browserCtx)
	return &tabSession{ctx: tabCtx, cancel: tabCancel, timeout: p.timeout}, nil
}

// Release shuts the browser down. Safe to call on a pool that never acquired.
func (p *BrowserPool) Release() {
	if p.ctxCancel != nil {
		p.ctxCancel()
		p.ctxCancel = nil
	}
	if p.allocCancel != nil {
		p.allocCancel()
		p.allocCancel = nil
	}
	p.browserCtx = nil
	if p.verbose {
		log.Printf("[BROWSER] browser released")
	}
}

// tabSession renders documents in one browser tab.
type tabSession struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func (s *tabSession) Render(ctx context.Context, html string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

func (s *tabSession) Close() {
	s.cancel()
}
