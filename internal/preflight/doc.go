// Package preflight provides readiness checks for the browser, filesystem
// paths and the directory site that a resolve run depends on.
//
// The CLI "playervalue check" command runs them all through RunAll; the
// individual check functions are exported for targeted use.
package preflight
