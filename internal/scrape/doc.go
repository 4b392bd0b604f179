// Package scrape turns rendered Transfermarkt pages into typed values.
//
// Everything here is pure: callers hand in HTML (usually the outer HTML of a
// page rendered by a browser session) and get back extracted rows or detail
// fields. Selectors and label texts are configurable because the site renders
// localized markup.
package scrape
