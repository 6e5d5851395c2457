package models

import "strings"

// StatusCategory is the bounded vocabulary used for status badges.
type StatusCategory string

const (
	StatusRecruiting            StatusCategory = "recruiting"
	StatusNotYetRecruiting      StatusCategory = "not_yet_recruiting"
	StatusEnrollingByInvitation StatusCategory = "enrolling_by_invitation"
	StatusActiveNotRecruiting   StatusCategory = "active_not_recruiting"
	StatusCompleted             StatusCategory = "completed"
	StatusTerminated            StatusCategory = "terminated"
	StatusSuspended             StatusCategory = "suspended"
	StatusWithdrawn             StatusCategory = "withdrawn"
	StatusAvailable             StatusCategory = "available"
	StatusApprovedForMarketing  StatusCategory = "approved_for_marketing"
	StatusUnknown               StatusCategory = "unknown"
)

var statusAliases = map[string]StatusCategory{
	"recruiting":              StatusRecruiting,
	"not_yet_recruiting":      StatusNotYetRecruiting,
	"enrolling_by_invitation": StatusEnrollingByInvitation,
	"active_not_recruiting":   StatusActiveNotRecruiting,
	"active":                  StatusActiveNotRecruiting,
	"completed":               StatusCompleted,
	"terminated":              StatusTerminated,
	"suspended":               StatusSuspended,
	"withdrawn":               StatusWithdrawn,
	"available":               StatusAvailable,
	"approved_for_marketing":  StatusApprovedForMarketing,
}

// activeStatuses are the categories counted as "active" in dashboard summaries.
var activeStatuses = map[StatusCategory]struct{}{
	StatusRecruiting:            {},
	StatusEnrollingByInvitation: {},
	StatusActiveNotRecruiting:   {},
	StatusAvailable:             {},
	StatusApprovedForMarketing:  {},
}

// ParseStatus maps a raw status ("RECRUITING", "Active, Not Recruiting",
// "active") onto the vocabulary. Anything unrecognised is StatusUnknown.
func ParseStatus(raw string) StatusCategory {
	if c, ok := statusAliases[vocabKey(raw)]; ok {
		return c
	}
	return StatusUnknown
}

// IsActive reports whether the category counts toward active trials.
func (c StatusCategory) IsActive() bool {
	_, ok := activeStatuses[c]
	return ok
}

// StudyTypeCategory is the bounded vocabulary used for study type badges.
type StudyTypeCategory string

const (
	StudyTypeInterventional StudyTypeCategory = "interventional"
	StudyTypeObservational  StudyTypeCategory = "observational"
	StudyTypeExpandedAccess StudyTypeCategory = "expanded_access"
	StudyTypeUnknown        StudyTypeCategory = "unknown"
)

var studyTypeAliases = map[string]StudyTypeCategory{
	"interventional":  StudyTypeInterventional,
	"observational":   StudyTypeObservational,
	"expanded_access": StudyTypeExpandedAccess,
}

// ParseStudyType maps a raw study type onto the vocabulary.
func ParseStudyType(raw string) StudyTypeCategory {
	if c, ok := studyTypeAliases[vocabKey(raw)]; ok {
		return c
	}
	return StudyTypeUnknown
}

// vocabKey folds "Active, Not Recruiting" and "ACTIVE_NOT_RECRUITING" to the same key.
func vocabKey(raw string) string {
	f := func(r rune) bool {
		return r == ' ' || r == ',' || r == '-' || r == '_' || r == '/'
	}
	return strings.ToLower(strings.Join(strings.FieldsFunc(raw, f), "_"))
}
