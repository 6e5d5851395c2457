package models

// Trial is one clinical study record as served to the finder view.
//
// NCTID is the registry identifier and is unique within a fetched dataset.
// ID is the upstream surrogate key and carries no ordering meaning.
type Trial struct {
	ID          string `json:"id"`
	NCTID       string `json:"nctId"`
	Title       string `json:"title"`
	Sponsor     string `json:"sponsor"`
	Status      string `json:"status"`
	Phase       string `json:"phase"`
	StudyType   string `json:"studyType"`
	LastUpdated Date   `json:"lastUpdated"`

	Summary           string     `json:"summary,omitempty"`
	Eligibility       []string   `json:"eligibility,omitempty"`
	EnrollmentCount   *int       `json:"enrollmentCount,omitempty"`
	URL               string     `json:"url,omitempty"`
	Genes             []string   `json:"genes,omitempty"`
	InterventionTypes []string   `json:"interventionTypes,omitempty"`
	StartDate         Date       `json:"startDate"`
	CompletionDate    Date       `json:"completionDate"`
	Locations         []Location `json:"locations,omitempty"`
}

// Location is a study site. Geo is nil when the site was never geocoded.
type Location struct {
	Facility string    `json:"facility,omitempty"`
	City     string    `json:"city,omitempty"`
	State    string    `json:"state,omitempty"`
	Country  string    `json:"country,omitempty"`
	Geo      *GeoPoint `json:"geo,omitempty"`
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StatusCategory returns the badge category for the trial's raw status.
func (t Trial) StatusCategory() StatusCategory {
	return ParseStatus(t.Status)
}

// StudyTypeCategory returns the badge category for the trial's raw study type.
func (t Trial) StudyTypeCategory() StudyTypeCategory {
	return ParseStudyType(t.StudyType)
}

// Enrollment returns the enrollment count, or 0 when unknown.
func (t Trial) Enrollment() int {
	if t.EnrollmentCount == nil {
		return 0
	}
	return *t.EnrollmentCount
}
