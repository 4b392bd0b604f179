// Package names cleans free-text player names and derives the search
// variants used to query the valuation directory.
//
// Normalize folds a name to lowercase ASCII so that "Ødegaard", "odegaard"
// and "ØDEGAARD" compare equal. Variants expands a normalized name into every
// ordered subset of its tokens so that a token-order sensitive search still
// finds "Vinicius Junior" when the input reads "Junior Vinicius".
package names
