package dataset

import "sort"

// Categorize orders the distinct keys for a categorical axis. Keys listed in order come first,
// in that order; keys outside it follow in ascending lexical order. Order entries that never
// occur in keys are omitted.
func Categorize(keys []string, order []string) []string {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	out := make([]string, 0, len(seen))
	known := make(map[string]bool, len(order))
	for _, o := range order {
		if known[o] {
			continue
		}
		known[o] = true
		if seen[o] {
			out = append(out, o)
		}
	}
	var rest []string
	for k := range seen {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
