package names

import "strings"

// MaxVariantTokens caps the token count that gets the full permutation
// expansion. Five tokens already produce 325 orderings; anything longer is
// not a player name and only the identity variant is searched.
const MaxVariantTokens = 5

// Variants returns the search strings for a normalized name: the name itself
// first, then every permutation of every combination of its tokens (subset
// sizes 1..k), then the normalized form of any variant that differs. The list
// is deduplicated keeping first occurrences, so identical input always yields
// the identical ordered list.
func Variants(name string) []string {
	tokens := strings.Fields(name)
	variants := []string{name}

	if len(tokens) <= MaxVariantTokens {
		for size := 1; size <= len(tokens); size++ {
			forEachCombination(len(tokens), size, func(combo []int) {
				forEachPermutation(combo, func(perm []int) {
					variants = append(variants, joinTokens(tokens, perm))
				})
			})
		}
	}

	extra := make([]string, 0, len(variants))
	for _, variant := range variants {
		if normalized := Normalize(variant); normalized != variant {
			extra = append(extra, normalized)
		}
	}
	variants = append(variants, extra...)

	return dedupe(variants)
}

// forEachCombination yields index combinations of size k from [0,n) in
// lexicographic order.
func forEachCombination(n, k int, fn func([]int)) {
	if k <= 0 || k > n {
		return
	}
	combo := make([]int, k)
	for i := range combo {
		combo[i] = i
	}
	for {
		fn(append([]int(nil), combo...))
		i := k - 1
		for i >= 0 && combo[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		combo[i]++
		for j := i + 1; j < k; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
}

// forEachPermutation yields every ordering of items, picking positions in
// ascending order at each depth.
func forEachPermutation(items []int, fn func([]int)) {
	perm := make([]int, 0, len(items))
	used := make([]bool, len(items))
	var walk func()
	walk = func() {
		if len(perm) == len(items) {
			fn(append([]int(nil), perm...))
			return
		}
		for i, item := range items {
			if used[i] {
				continue
			}
			used[i] = true
			perm = append(perm, item)
			walk()
			perm = perm[:len(perm)-1]
			used[i] = false
		}
	}
	walk()
}

func joinTokens(tokens []string, idx []int) string {
	parts := make([]string, len(idx))
	for i, pos := range idx {
		parts[i] = tokens[pos]
	}
	return strings.Join(parts, " ")
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
