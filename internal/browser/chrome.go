package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// Options configures Chrome sessions.
type Options struct {
	Headless        bool
	WindowWidth     int
	WindowHeight    int
	DisableImages   bool
	PageLoadTimeout time.Duration
	ImplicitWait    time.Duration
	ExecPath        string
	UserAgent       string
	AcceptLanguage  string
	ConsentFrameID  string
	ConsentButton   string
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Headless:        true,
		WindowWidth:     1920,
		WindowHeight:    1080,
		DisableImages:   true,
		PageLoadTimeout: 30 * time.Second,
		ImplicitWait:    5 * time.Second,
		AcceptLanguage:  "fr-FR,fr;q=0.9",
		ConsentFrameID:  "sp_message_iframe_953822",
		ConsentButton:   "button.message-component.message-button.no-children.focusable.accept-all.sp_choice_type_11",
	}
}

// ChromeSession is a Session backed by its own Chrome process.
type ChromeSession struct {
	opts Options

	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// NewChromeFactory returns a Factory producing ChromeSessions with opts.
func NewChromeFactory(opts Options) Factory {
	return func(ctx context.Context) (Session, error) {
		return NewChromeSession(ctx, opts)
	}
}

// NewChromeSession starts a browser and opens a blank tab. The session
// outlives ctx, which only bounds start-up.
func NewChromeSession(ctx context.Context, opts Options) (*ChromeSession, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &ChromeSession{
		opts:        opts,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}

	startCtx, cancel := s.operation(ctx, opts.PageLoadTimeout)
	defer cancel()
	actions := []chromedp.Action{network.Enable()}
	if lang := strings.TrimSpace(opts.AcceptLanguage); lang != "" {
		actions = append(actions, network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": lang}))
	}
	if err := chromedp.Run(startCtx, actions...); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return s, nil
}

func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	out = append(out,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		out = append(out, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.DisableImages {
		out = append(out, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}
	if path := strings.TrimSpace(opts.ExecPath); path != "" {
		out = append(out, chromedp.ExecPath(path))
	}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		out = append(out, chromedp.UserAgent(ua))
	}
	return out
}

// operation derives a context from the tab bounded by timeout and cancelled
// when the caller's ctx is. Cancelling it aborts the running action without
// closing the tab.
func (s *ChromeSession) operation(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		opCtx  context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		opCtx, cancel = context.WithTimeout(s.tabCtx, timeout)
	} else {
		opCtx, cancel = context.WithCancel(s.tabCtx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// Navigate implements Session.
func (s *ChromeSession) Navigate(ctx context.Context, rawURL string) error {
	opCtx, cancel := s.operation(ctx, s.opts.PageLoadTimeout)
	defer cancel()
	if err := chromedp.Run(opCtx, chromedp.Navigate(rawURL)); err != nil {
		return fmt.Errorf("navigate %s: %w", rawURL, callerErr(ctx, err))
	}
	return nil
}

// Document implements Session.
func (s *ChromeSession) Document(ctx context.Context, waitFor string) (string, error) {
	if waitFor != "" {
		waitCtx, cancel := s.operation(ctx, s.opts.ImplicitWait)
		err := chromedp.Run(waitCtx, chromedp.WaitReady(waitFor, chromedp.ByQuery))
		cancel()
		if err != nil && ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	opCtx, cancel := s.operation(ctx, s.opts.PageLoadTimeout)
	defer cancel()
	var html string
	if err := chromedp.Run(opCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", callerErr(ctx, err))
	}
	return html, nil
}

// DismissConsent implements Session. A consent frame served from another
// origin runs in its own target, so the click goes to that target when Chrome
// reports one for the frame's src; otherwise it is issued through the frame
// node of the page.
func (s *ChromeSession) DismissConsent(ctx context.Context) error {
	opCtx, cancel := s.operation(ctx, s.opts.ImplicitWait)
	defer cancel()

	var frames []*cdp.Node
	selector := "iframe#" + s.opts.ConsentFrameID
	if err := chromedp.Run(opCtx, chromedp.Nodes(selector, &frames, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return fmt.Errorf("locate consent frame: %w", callerErr(ctx, err))
	}
	if len(frames) == 0 {
		return ErrNoConsentOverlay
	}

	if infos, err := chromedp.Targets(opCtx); err == nil {
		if id, ok := consentTarget(infos, frames[0].AttributeValue("src")); ok {
			return s.clickInTarget(ctx, id)
		}
	}
	if err := chromedp.Run(opCtx, chromedp.Click(s.opts.ConsentButton, chromedp.ByQuery, chromedp.FromNode(frames[0]))); err != nil {
		return fmt.Errorf("click consent button: %w", callerErr(ctx, err))
	}
	return nil
}

// clickInTarget attaches to an out-of-process frame and clicks the consent
// button in its document.
func (s *ChromeSession) clickInTarget(ctx context.Context, id target.ID) error {
	frameCtx, frameCancel := chromedp.NewContext(s.tabCtx, chromedp.WithTargetID(id))
	defer frameCancel()

	opCtx, cancel := context.WithTimeout(frameCtx, s.opts.ImplicitWait)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(opCtx, chromedp.Click(s.opts.ConsentButton, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click consent button in frame target: %w", callerErr(ctx, err))
	}
	return nil
}

// consentTarget picks the iframe target whose URL matches the frame's src.
// An exact match wins; otherwise the first iframe target on the same host
// is used.
func consentTarget(infos []*target.Info, src string) (target.ID, bool) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", false
	}
	host := urlHost(src)
	var sameHost target.ID
	for _, info := range infos {
		if info == nil || info.Type != "iframe" {
			continue
		}
		if info.URL == src {
			return info.TargetID, true
		}
		if sameHost == "" && host != "" && urlHost(info.URL) == host {
			sameHost = info.TargetID
		}
	}
	return sameHost, sameHost != ""
}

func urlHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Close shuts the tab and the browser process. It is safe to call more than
// once.
func (s *ChromeSession) Close() error {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.tabCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = fmt.Errorf("close chrome tab: %w", err)
		}
		s.tabCancel()
		s.allocCancel()
	})
	return s.closeErr
}

// callerErr prefers the caller's cancellation over the derived context error
// so that callers can test for context.Canceled.
func callerErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
