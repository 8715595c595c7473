// Package rod implements a rendering invitecrawl.Fetcher on headless Chrome.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/invitecrawl"
	"github.com/go-rod/rod/lib/proto"
)

// Fetcher defaults.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultIdleWait          = 500 * time.Millisecond
)

// UserAgent is the desktop Chrome user agent set on every page.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Ensure Fetcher implements invitecrawl.Fetcher at compile time.
var _ invitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Each Fetch opens a fresh page on a browser owned by a BrowserManager.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager           *BrowserManager
	managerOpts       []ManagerOption
	navigationTimeout time.Duration
	idleWait          time.Duration
	userAgent         string
	closed            atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithNavigationTimeout bounds navigation, load and network idle waiting.
// The caller's context still applies on top of it.
func WithNavigationTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.navigationTimeout = d
	}
}

// WithIdleWait sets how long the network must stay quiet after load before
// the page is considered settled.
func WithIdleWait(d time.Duration) Option {
	return func(f *Fetcher) {
		f.idleWait = d
	}
}

// WithUserAgent overrides UserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher launches a headless browser and returns a Fetcher using it.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		navigationTimeout: DefaultNavigationTimeout,
		idleWait:          DefaultIdleWait,
		userAgent:         UserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to url, waits for load and network idle, and returns the
// rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", invitecrawl.Errorf(invitecrawl.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer page.Close()
	f.manager.IncrementPageCount()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", fmt.Errorf("set user agent: %w", err)
	}

	nav := page.Context(ctx).Timeout(f.navigationTimeout)

	// Idle tracking must start before navigation to see its requests.
	waitIdle := nav.WaitRequestIdle(f.idleWait, nil, nil, nil)

	if err := nav.Navigate(url); err != nil {
		return "", err
	}
	if err := nav.WaitLoad(); err != nil {
		return "", err
	}
	waitIdle()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return "", err
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
