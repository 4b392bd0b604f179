// Package resolver turns free-text player names into directory records.
//
// Resolver handles one name: it normalizes the input, searches every name
// variant through a leased browser session, scores the result rows, picks the
// best candidate above the threshold and reads contract and birth details from
// its profile page. Resolve never fails; every outcome, including panics and
// cancellation, comes back as a player.Record.
//
// Service fans a batch of names out over an ants worker pool sized to the
// browser pool, serves fresh cache hits without touching a browser, and
// collects results, cache writes and counters on the calling goroutine.
package resolver
