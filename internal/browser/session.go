package browser

import (
	"context"
	"errors"
)

// ErrNoConsentOverlay reports that DismissConsent found no consent frame.
var ErrNoConsentOverlay = errors.New("consent overlay not present")

// Session drives one browser tab.
type Session interface {
	// Navigate loads url and waits for the page load event.
	Navigate(ctx context.Context, url string) error
	// Document returns the rendered HTML of the current page. When waitFor is
	// set it first waits, bounded by the implicit wait, for a matching node;
	// a node that never shows up is not an error.
	Document(ctx context.Context, waitFor string) (string, error)
	// DismissConsent clicks the accept control inside the consent frame.
	DismissConsent(ctx context.Context) error
	Close() error
}

// Factory opens a new session.
type Factory func(ctx context.Context) (Session, error)
