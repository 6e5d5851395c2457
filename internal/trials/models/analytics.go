package models

import "time"

// NamedCount is one bar of a distribution chart. ID links the bar to a trial
// when it stands for one.
type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	ID    string `json:"id,omitempty"`
}

// Summary holds the headline numbers of a trial list.
type Summary struct {
	TotalTrials     int `json:"total_trials"`
	ActiveTrials    int `json:"active_trials"`
	TotalEnrollment int `json:"total_enrollment"`
}

// Facets lists the distinct values present in a dataset, with counts, for
// building filter controls.
type Facets struct {
	Phases            []NamedCount `json:"phases"`
	Statuses          []NamedCount `json:"statuses"`
	StudyTypes        []NamedCount `json:"study_types"`
	Genes             []NamedCount `json:"genes"`
	InterventionTypes []NamedCount `json:"intervention_types"`
}

// EmbedToken is a signed token for the embedded analytics dashboard.
type EmbedToken struct {
	Token       string    `json:"token"`
	DashboardID int       `json:"dashboard_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}
