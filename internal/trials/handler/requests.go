package handler

import (
	"strings"

	"trialfinder/internal/trials/models"
	dErrors "trialfinder/pkg/domain-errors"
)

const (
	maxSearchLength = 200
	maxSelections   = 50
)

// CriteriaRequest is the body of PUT /views/{id}/criteria.
type CriteriaRequest struct {
	models.Criteria
}

func (r *CriteriaRequest) Validate() error {
	if len([]rune(strings.TrimSpace(r.Search))) > maxSearchLength {
		return dErrors.New(dErrors.CodeValidation, "search must be at most 200 characters")
	}
	for name, values := range map[string][]string{
		"phases":            r.Phases,
		"interventionTypes": r.InterventionTypes,
		"genes":             r.Genes,
	} {
		if len(values) > maxSelections {
			return dErrors.New(dErrors.CodeValidation, name+" accepts at most 50 values")
		}
	}
	r.Criteria = r.Criteria.Normalize()
	return nil
}

// SortRequest is the body of PUT /views/{id}/sort. An empty key clears the sort.
type SortRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`

	parsed models.Sort
}

func (r *SortRequest) Validate() error {
	key, err := models.ParseSortKey(r.Key)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "unknown sort key")
	}
	dir, err := models.ParseDirection(r.Direction)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "direction must be asc or desc")
	}
	if key == models.SortNone {
		r.parsed = models.Sort{}
		return nil
	}
	r.parsed = models.Sort{Key: key, Direction: dir}
	return nil
}

// Sort returns the validated sort.
func (r *SortRequest) Sort() models.Sort {
	return r.parsed
}

// NearEndRequest is the body of POST /views/{id}/near-end.
type NearEndRequest struct {
	Visible *bool `json:"visible"`
}

func (r *NearEndRequest) Validate() error {
	if r.Visible == nil {
		return dErrors.New(dErrors.CodeValidation, "visible is required")
	}
	return nil
}
