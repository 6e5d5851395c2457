// Package sorting orders trials by a single key and direction.
package sorting

import (
	"cmp"
	"slices"
	"strings"

	"trialfinder/internal/trials/models"
)

// value is the comparable projection of one sort key. Exactly one of the
// fields is meaningful for a given key; missing values leave it empty.
type value struct {
	str     string
	num     int
	present bool
}

// Compare orders a and b by s.Key, inverting the sign when s is descending.
// Missing values compare as the empty string, so they gather at the start of
// an ascending order and the end of a descending one. Returns 0 when no key
// is active.
func Compare(s models.Sort, a, b models.Trial) int {
	if !s.Active() {
		return 0
	}
	c := compareValues(extract(s.Key, a), extract(s.Key, b))
	if s.IsDescending() {
		return -c
	}
	return c
}

// Sort returns a stably sorted copy of trials. The input is never mutated,
// and with no active key the copy keeps input order.
func Sort(trials []models.Trial, s models.Sort) []models.Trial {
	out := slices.Clone(trials)
	if !s.Active() {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.Trial) int {
		return Compare(s, a, b)
	})
	return out
}

func compareValues(a, b value) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return -1
	case !b.present:
		return 1
	}
	if c := cmp.Compare(a.num, b.num); c != 0 {
		return c
	}
	return strings.Compare(a.str, b.str)
}

func extract(k models.SortKey, t models.Trial) value {
	switch k {
	case models.SortNCTID:
		return text(t.NCTID)
	case models.SortTitle:
		return text(t.Title)
	case models.SortSponsor:
		return text(t.Sponsor)
	case models.SortStatus:
		return text(t.Status)
	case models.SortPhase:
		return text(t.Phase)
	case models.SortStudyType:
		return text(t.StudyType)
	case models.SortLastUpdated:
		return date(t.LastUpdated)
	case models.SortStartDate:
		return date(t.StartDate)
	case models.SortCompletionDate:
		return date(t.CompletionDate)
	case models.SortEnrollmentCount:
		if t.EnrollmentCount == nil {
			return value{}
		}
		return value{num: *t.EnrollmentCount, present: true}
	default:
		return value{}
	}
}

func text(s string) value {
	if s == "" {
		return value{}
	}
	return value{str: strings.ToLower(s), present: true}
}

// date projects onto YYYY-MM-DD, whose lexical order is chronological.
func date(d models.Date) value {
	if d.IsZero() {
		return value{}
	}
	return value{str: d.String(), present: true}
}
