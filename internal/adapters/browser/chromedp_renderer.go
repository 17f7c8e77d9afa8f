// Package browser provides the headless-render fallback for client-rendered
// listing pages.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

// Renderer loads a page in headless Chrome and returns the post-JS document.
// One renderer is shared by every source adapter; the limiter and semaphore
// keep the browser pool from being overwhelmed during fan-out.
type Renderer struct {
	allocOpts []chromedp.ExecAllocatorOption
	limiter   *rate.Limiter
	slots     chan struct{}
	timeout   time.Duration
}

type Option func(*Renderer)

// WithTimeout overrides the per-render deadline (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.timeout = d }
}

// WithConcurrency caps simultaneous browser tabs (default 2).
func WithConcurrency(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.slots = make(chan struct{}, n)
		}
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		allocOpts: append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("blink-settings", "imagesEnabled=false"),
		),
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		slots:   make(chan struct{}, 2),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render fetches the URL in a fresh browser context and returns the serialized
// DOM after the body is present and scripts had a moment to populate it.
func (r *Renderer) Render(ctx context.Context, pageURL string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	select {
	case r.slots <- struct{}{}:
		defer func() { <-r.slots }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	renderCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(renderCtx, r.allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser render of %s failed: %w", pageURL, err)
	}
	return html, nil
}
