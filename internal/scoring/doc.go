// Package scoring rates how closely a directory candidate name matches a
// normalized query name.
//
// Every strategy returns a value in [0,100]. Score takes the maximum of the
// order-insensitive strategies because player names drift in three ways at
// once: nicknames are added, middle names are dropped, and transliterations
// differ by a letter or two. A single metric misses too many true matches.
package scoring
