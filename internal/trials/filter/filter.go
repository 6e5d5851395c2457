// Package filter reduces a trial collection to the records matching a set of
// criteria. Every function here is pure: inputs are never mutated and the
// relative order of surviving records is preserved.
package filter

import (
	"slices"
	"strings"

	"trialfinder/internal/trials/models"
	pstrings "trialfinder/pkg/platform/strings"
)

// Predicate reports whether a trial satisfies one criteria field.
type Predicate func(models.Trial) bool

// Apply returns the trials satisfying every active field of c. Empty
// criteria return the input slice unchanged. c is normalised first, so
// callers may pass raw user input.
func Apply(trials []models.Trial, c models.Criteria) []models.Trial {
	preds := Predicates(c.Normalize())
	if len(preds) == 0 {
		return trials
	}

	out := make([]models.Trial, 0, len(trials))
	for _, t := range trials {
		if matchesAll(t, preds) {
			out = append(out, t)
		}
	}
	return out
}

// Predicates builds one predicate per active field of an already-normalised
// criteria value.
func Predicates(c models.Criteria) []Predicate {
	var preds []Predicate
	if c.Search != "" {
		preds = append(preds, Search(c.Search))
	}
	if len(c.Phases) > 0 {
		preds = append(preds, Phase(c.Phases))
	}
	if c.Status != "" {
		preds = append(preds, Status(c.Status))
	}
	if c.StudyType != "" {
		preds = append(preds, StudyType(c.StudyType))
	}
	if len(c.InterventionTypes) > 0 {
		preds = append(preds, InterventionType(c.InterventionTypes))
	}
	if len(c.Genes) > 0 {
		preds = append(preds, Gene(c.Genes))
	}
	return preds
}

func matchesAll(t models.Trial, preds []Predicate) bool {
	for _, p := range preds {
		if !p(t) {
			return false
		}
	}
	return true
}

// Search matches a case-insensitive substring of the title, registry id, or sponsor.
func Search(term string) Predicate {
	needle := strings.ToLower(term)
	return func(t models.Trial) bool {
		return strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.NCTID), needle) ||
			strings.Contains(strings.ToLower(t.Sponsor), needle)
	}
}

// Phase matches trials whose phase equals one of the selected values exactly.
func Phase(phases []string) Predicate {
	return func(t models.Trial) bool {
		return slices.Contains(phases, t.Phase)
	}
}

// Status matches trials whose raw status equals s exactly.
func Status(s string) Predicate {
	return func(t models.Trial) bool {
		return t.Status == s
	}
}

// StudyType matches the study type case-insensitively.
func StudyType(s string) Predicate {
	return func(t models.Trial) bool {
		return strings.EqualFold(t.StudyType, s)
	}
}

// InterventionType matches trials carrying at least one selected tag.
// Selections are expected in normalised form. The InterventionNotSpecified
// selection matches exactly the trials without tags.
func InterventionType(selected []string) Predicate {
	wantUnspecified := slices.Contains(selected, models.InterventionNotSpecified)
	return func(t models.Trial) bool {
		tags := pstrings.NormalizeLabels(t.InterventionTypes)
		if len(tags) == 0 {
			return wantUnspecified
		}
		return containsAny(selected, tags)
	}
}

// Gene matches trials associated with at least one selected gene. Trials
// without genes never match.
func Gene(selected []string) Predicate {
	return func(t models.Trial) bool {
		genes := pstrings.DedupeAndTrimLower(t.Genes)
		if len(genes) == 0 {
			return false
		}
		return containsAny(selected, genes)
	}
}

func containsAny(selected, values []string) bool {
	for _, v := range values {
		if slices.Contains(selected, v) {
			return true
		}
	}
	return false
}
