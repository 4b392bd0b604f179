// Package browser owns the headless Chrome sessions used to render search and
// profile pages, and the fixed-size pool that lends them to workers.
//
// The pool size is the ceiling on concurrent navigation against the target
// site. A session is held for one player's whole resolution, so callers should
// prefer Pool.With, which returns the session on every exit path including
// panics.
package browser
