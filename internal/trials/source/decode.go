package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"trialfinder/internal/trials/models"
)

// Field aliases accepted from upstream. The analytics API serves the
// dashboard's camelCase shape; the backing Django schema uses snake_case.
var (
	idKeys           = []string{"id", "unique_protocol_id", "uniqueProtocolId"}
	nctKeys          = []string{"nctId", "nct_id", "nctid"}
	titleKeys        = []string{"title", "brief_title", "briefTitle"}
	sponsorKeys      = []string{"sponsor", "lead_sponsor_name", "leadSponsorName"}
	statusKeys       = []string{"status", "overall_status", "overallStatus"}
	phaseKeys        = []string{"phase", "study_phase", "studyPhase", "phases"}
	studyTypeKeys    = []string{"studyType", "study_type"}
	lastUpdatedKeys  = []string{"lastUpdated", "last_updated", "status_verified_date", "statusVerifiedDate"}
	summaryKeys      = []string{"summary", "brief_summary", "briefSummary"}
	eligibilityKeys  = []string{"eligibility", "eligibility_criteria", "eligibilityCriteria"}
	enrollmentKeys   = []string{"enrollmentCount", "enrollment_count", "enrollment"}
	urlKeys          = []string{"url", "clinical_trial_url", "clinicalTrialUrl"}
	geneKeys         = []string{"genes", "related_genes", "relatedGenes"}
	interventionKeys = []string{"interventionTypes", "intervention_types", "interventions", "intervention_name"}
	startKeys        = []string{"startDate", "study_start_date", "studyStartDate"}
	completionKeys   = []string{"completionDate", "completion_date"}
	locationKeys     = []string{"locations", "study_location", "studyLocations"}

	// Keys tried, in order, when a list element is an object rather than a string.
	geneObjectKeys         = []string{"gene_symbol", "geneSymbol", "symbol", "name"}
	interventionObjectKeys = []string{"type", "interventionType", "intervention_type"}
)

type record map[string]json.RawMessage

// DecodeResult is the outcome of decoding one upstream payload.
type DecodeResult struct {
	Trials []models.Trial
	// Skipped counts elements that were not objects or repeated an NCT id.
	Skipped int
}

// DecodeTrials decodes a JSON array of trial records. Missing or mistyped
// fields fall back to their zero values; only a payload that is not an array
// is an error.
func DecodeTrials(payload []byte) (DecodeResult, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		var wrapped struct {
			Results []json.RawMessage `json:"results"`
			Trials  []json.RawMessage `json:"trials"`
		}
		if err2 := json.Unmarshal(payload, &wrapped); err2 != nil || (wrapped.Results == nil && wrapped.Trials == nil) {
			return DecodeResult{}, fmt.Errorf("decode trial list: %w", err)
		}
		raw = wrapped.Results
		if raw == nil {
			raw = wrapped.Trials
		}
	}

	res := DecodeResult{Trials: make([]models.Trial, 0, len(raw))}
	for _, elem := range raw {
		var rec record
		if err := json.Unmarshal(elem, &rec); err != nil || rec == nil {
			res.Skipped++
			continue
		}
		res.Trials = append(res.Trials, rec.trial())
	}
	var dropped int
	res.Trials, dropped = UniqueByNCTID(res.Trials)
	res.Skipped += dropped
	return res, nil
}

// UniqueByNCTID keeps the first record for each registry id, preserving
// order. Records without an NCT id are kept. Returns the number dropped.
func UniqueByNCTID(trials []models.Trial) ([]models.Trial, int) {
	seen := make(map[string]struct{}, len(trials))
	out := make([]models.Trial, 0, len(trials))
	dropped := 0
	for _, t := range trials {
		if t.NCTID != "" {
			if _, ok := seen[t.NCTID]; ok {
				dropped++
				continue
			}
			seen[t.NCTID] = struct{}{}
		}
		out = append(out, t)
	}
	return out, dropped
}

func (r record) trial() models.Trial {
	t := models.Trial{
		ID:                r.str(idKeys),
		NCTID:             r.str(nctKeys),
		Title:             r.str(titleKeys),
		Sponsor:           r.str(sponsorKeys),
		Status:            r.str(statusKeys),
		Phase:             r.str(phaseKeys),
		StudyType:         r.str(studyTypeKeys),
		LastUpdated:       r.date(lastUpdatedKeys),
		Summary:           r.str(summaryKeys),
		Eligibility:       r.eligibility(),
		EnrollmentCount:   r.count(enrollmentKeys),
		URL:               r.str(urlKeys),
		Genes:             r.labels(geneKeys, geneObjectKeys),
		InterventionTypes: r.labels(interventionKeys, interventionObjectKeys),
		StartDate:         r.date(startKeys),
		CompletionDate:    r.date(completionKeys),
		Locations:         r.locations(),
	}
	if t.ID == "" {
		t.ID = t.NCTID
	}
	return t
}

func (r record) first(keys []string) json.RawMessage {
	for _, k := range keys {
		if v, ok := r[k]; ok && !isNull(v) {
			return v
		}
	}
	return nil
}

func (r record) str(keys []string) string {
	return scalarString(r.first(keys))
}

func (r record) date(keys []string) models.Date {
	d, _ := models.ParseDate(r.str(keys))
	return d
}

func (r record) count(keys []string) *int {
	s := r.str(keys)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil
	}
	n := int(f)
	return &n
}

func (r record) eligibility() []string {
	raw := r.first(eligibilityKeys)
	if raw == nil {
		return nil
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return stringList(raw, []string{"text", "criterion"})
	}
	var out []string
	for _, line := range strings.Split(scalarString(raw), "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (r record) labels(keys, objectKeys []string) []string {
	raw := r.first(keys)
	if raw == nil {
		return nil
	}
	return stringList(raw, objectKeys)
}

func (r record) locations() []models.Location {
	raw := r.first(locationKeys)
	if raw == nil {
		return nil
	}
	var items []record
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]models.Location, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		loc := models.Location{
			Facility: item.str([]string{"facility", "name"}),
			City:     item.str([]string{"city"}),
			State:    item.str([]string{"state"}),
			Country:  item.str([]string{"country"}),
		}
		geo := item
		if nested := item.first([]string{"geoPoint", "geo", "geo_point"}); nested != nil {
			var g record
			if json.Unmarshal(nested, &g) == nil && g != nil {
				geo = g
			}
		}
		lat, latOK := parseFloat(geo.str([]string{"lat", "latitude"}))
		lon, lonOK := parseFloat(geo.str([]string{"lon", "lng", "longitude"}))
		if latOK && lonOK {
			loc.Geo = &models.GeoPoint{Lat: lat, Lon: lon}
		}
		out = append(out, loc)
	}
	return out
}

// stringList accepts ["a","b"], [{"k":"a"}], or a single comma-separated string.
func stringList(raw json.RawMessage, objectKeys []string) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] != '[' {
		s := scalarString(raw)
		if s == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if bytes.HasPrefix(bytes.TrimSpace(e), []byte("{")) {
			var obj record
			if json.Unmarshal(e, &obj) == nil {
				s = obj.str(objectKeys)
			}
		} else {
			s = scalarString(e)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// scalarString renders a JSON string, number, or bool as text. Arrays of
// strings are joined with "/" so ["PHASE2","PHASE3"] reads as one phase.
func scalarString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return strconv.FormatBool(b)
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, "/")
	}
	return ""
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
