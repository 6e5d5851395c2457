package models

import (
	"fmt"
	"strings"
)

// SortKey names the single field a view is ordered by.
type SortKey string

const (
	SortNone            SortKey = ""
	SortNCTID           SortKey = "nctId"
	SortTitle           SortKey = "title"
	SortSponsor         SortKey = "sponsor"
	SortStatus          SortKey = "status"
	SortPhase           SortKey = "phase"
	SortStudyType       SortKey = "studyType"
	SortLastUpdated     SortKey = "lastUpdated"
	SortStartDate       SortKey = "startDate"
	SortCompletionDate  SortKey = "completionDate"
	SortEnrollmentCount SortKey = "enrollmentCount"
)

var sortKeys = map[string]SortKey{
	"nctid":           SortNCTID,
	"title":           SortTitle,
	"sponsor":         SortSponsor,
	"status":          SortStatus,
	"phase":           SortPhase,
	"studytype":       SortStudyType,
	"lastupdated":     SortLastUpdated,
	"startdate":       SortStartDate,
	"completiondate":  SortCompletionDate,
	"enrollmentcount": SortEnrollmentCount,
}

// ParseSortKey accepts camelCase or snake_case field names. An empty string
// is SortNone.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortNone, nil
	}
	if k, ok := sortKeys[strings.ToLower(strings.ReplaceAll(s, "_", ""))]; ok {
		return k, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q", s)
}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection defaults to ascending when s is empty.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// Sort is the active sort key and direction. The zero value keeps source order.
type Sort struct {
	Key       SortKey   `json:"key,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether a sort key is set.
func (s Sort) Active() bool {
	return s.Key != SortNone
}

// IsDescending reports whether the direction is inverted.
func (s Sort) IsDescending() bool {
	return s.Direction == Descending
}
