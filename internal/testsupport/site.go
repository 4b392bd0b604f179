package testsupport

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"sync"

	"playervalue/internal/browser"
	"playervalue/internal/config"
)

// FakeBaseURL is the directory origin used by NewConfig and FakeSite.
const FakeBaseURL = "https://www.transfermarkt.test"

// FakeSite serves canned HTML to fake browser sessions, keyed by absolute URL.
// Unknown URLs render NoResultsPage. It records every navigation.
type FakeSite struct {
	mu          sync.Mutex
	pages       map[string]string
	failures    map[string]error
	consent     bool
	navigations []string
	dismissals  int
	opened      int
	closed      int
}

// NewFakeSite returns an empty site.
func NewFakeSite() *FakeSite {
	return &FakeSite{
		pages:    make(map[string]string),
		failures: make(map[string]error),
	}
}

// SearchURL is the quick-search URL the resolver builds for query.
func SearchURL(query string) string {
	return FakeBaseURL + config.Default().Site.SearchPath + "?query=" + url.QueryEscape(query)
}

// AddPage registers html for an absolute URL.
func (s *FakeSite) AddPage(rawURL, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[rawURL] = html
}

// AddSearch registers a result page for query.
func (s *FakeSite) AddSearch(query string, rows ...Row) {
	s.AddPage(SearchURL(query), SearchPage(rows...))
}

// AddDetail registers a profile page for a site-relative href.
func (s *FakeSite) AddDetail(href, name, contract, birth string) {
	s.AddPage(FakeBaseURL+href, DetailPage(name, contract, birth))
}

// FailURL makes navigation to rawURL return err.
func (s *FakeSite) FailURL(rawURL string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[rawURL] = err
}

// RequireConsent hides every page of a new session behind the consent
// overlay until the session dismisses it once.
func (s *FakeSite) RequireConsent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consent = true
}

// Navigations returns every URL navigated to, in order.
func (s *FakeSite) Navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.navigations)
}

// NavigationsMatching counts navigations whose URL contains substr.
func (s *FakeSite) NavigationsMatching(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, nav := range s.navigations {
		if strings.Contains(nav, substr) {
			count++
		}
	}
	return count
}

// Dismissals returns how many consent overlays were dismissed.
func (s *FakeSite) Dismissals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dismissals
}

// Sessions returns the number of sessions opened and closed.
func (s *FakeSite) Sessions() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

// Factory opens sessions bound to the site.
func (s *FakeSite) Factory() browser.Factory {
	return func(ctx context.Context) (browser.Session, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.opened++
		return &fakeSession{site: s, consentPending: s.consent}, nil
	}
}

// OpenPool opens a browser pool of size sessions over the site.
func (s *FakeSite) OpenPool(ctx context.Context, size int) (*browser.Pool, error) {
	return browser.OpenPool(ctx, size, s.Factory(), nil)
}

type fakeSession struct {
	site           *FakeSite
	current        string
	consentPending bool
}

func (f *fakeSession) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.site.mu.Lock()
	defer f.site.mu.Unlock()
	f.site.navigations = append(f.site.navigations, rawURL)
	if err := f.site.failures[rawURL]; err != nil {
		return err
	}
	f.current = rawURL
	return nil
}

func (f *fakeSession) Document(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.site.mu.Lock()
	defer f.site.mu.Unlock()
	if f.consentPending {
		return ConsentPage(), nil
	}
	if page, ok := f.site.pages[f.current]; ok {
		return page, nil
	}
	return NoResultsPage(), nil
}

func (f *fakeSession) DismissConsent(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.site.mu.Lock()
	defer f.site.mu.Unlock()
	if !f.consentPending {
		return browser.ErrNoConsentOverlay
	}
	f.consentPending = false
	f.site.dismissals++
	return nil
}

func (f *fakeSession) Close() error {
	f.site.mu.Lock()
	defer f.site.mu.Unlock()
	f.site.closed++
	return nil
}
