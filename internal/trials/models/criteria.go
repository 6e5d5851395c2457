package models

import (
	"strings"

	pstrings "trialfinder/pkg/platform/strings"
)

// InterventionNotSpecified is the selection value that matches trials with
// no intervention tags at all.
const InterventionNotSpecified = "not specified"

// Criteria is the set of active filter fields. Fields combine with AND;
// values within a multi-valued field combine with OR. Zero-valued fields
// impose no constraint.
type Criteria struct {
	Search            string   `json:"search,omitempty"`
	Phases            []string `json:"phases,omitempty"`
	Status            string   `json:"status,omitempty"`
	StudyType         string   `json:"studyType,omitempty"`
	InterventionTypes []string `json:"interventionTypes,omitempty"`
	Genes             []string `json:"genes,omitempty"`
}

// Normalize trims free text, drops blank and duplicate selections, and folds
// intervention and gene selections to their comparison form.
func (c Criteria) Normalize() Criteria {
	return Criteria{
		Search:            strings.TrimSpace(c.Search),
		Phases:            emptyToNil(pstrings.DedupeAndTrim(c.Phases)),
		Status:            strings.TrimSpace(c.Status),
		StudyType:         strings.TrimSpace(c.StudyType),
		InterventionTypes: emptyToNil(pstrings.NormalizeLabels(c.InterventionTypes)),
		Genes:             emptyToNil(pstrings.DedupeAndTrimLower(c.Genes)),
	}
}

// IsEmpty reports whether no field constrains the result.
func (c Criteria) IsEmpty() bool {
	return c.Search == "" && len(c.Phases) == 0 && c.Status == "" &&
		c.StudyType == "" && len(c.InterventionTypes) == 0 && len(c.Genes) == 0
}

// Equal reports whether two normalised criteria select the same subset.
func (c Criteria) Equal(o Criteria) bool {
	return c.Search == o.Search && c.Status == o.Status && c.StudyType == o.StudyType &&
		equalStrings(c.Phases, o.Phases) &&
		equalStrings(c.InterventionTypes, o.InterventionTypes) &&
		equalStrings(c.Genes, o.Genes)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func emptyToNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
