// Package player defines the resolved player record shared by the resolver,
// the result cache, and the CLI output writers.
//
// A Record is produced for every input name, including names that could not
// be matched. Unmatched names carry StatusUnknown, an empty MatchedName, and
// a ResolutionError explaining why. The OriginalName is the cache key and is
// never rewritten once a record exists.
package player
