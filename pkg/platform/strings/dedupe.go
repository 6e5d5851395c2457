// Package strings provides string normalisation for filter selections and tags.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  Phase II ", "Phase III", "Phase II", ""})
//	// Returns: []string{"Phase II", "Phase III"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower is like DedupeAndTrim but also lowercases each element.
// Useful for case-insensitive deduplication.
//
// Example:
//
//	DedupeAndTrimLower([]string{"  SOD1 ", "FUS", "sod1"})
//	// Returns: []string{"sod1", "fus"}
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

// NormalizeLabel folds a tag or gene label for case-insensitive comparison:
// lowercased, underscores read as spaces, inner whitespace collapsed.
//
// Example:
//
//	NormalizeLabel("SMALL_MOLECULE") // "small molecule"
func NormalizeLabel(v string) string {
	v = strings.ReplaceAll(v, "_", " ")
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}

// NormalizeLabels applies NormalizeLabel to every element, dropping empties
// and duplicates. Order is preserved.
func NormalizeLabels(values []string) []string {
	return dedupe(values, NormalizeLabel)
}

func dedupe(values []string, norm func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		n := norm(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			result = append(result, n)
		}
	}

	return result
}
