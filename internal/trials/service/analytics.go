package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"trialfinder/internal/trials/models"
	"trialfinder/internal/trials/view"
	dErrors "trialfinder/pkg/domain-errors"
	platformstrings "trialfinder/pkg/platform/strings"
)

const (
	// DefaultTopEnrollment is how many trials the enrollment chart shows.
	DefaultTopEnrollment = 10
	// MaxTopEnrollment caps the n accepted by TopEnrollment.
	MaxTopEnrollment = 100

	unknownLabel   = "Unknown"
	maxLabelLength = 50
)

// Facets returns the distinct filterable values of the view's whole dataset.
// Filter panels are built from these so they do not shrink as criteria narrow.
func (s *Service) Facets(_ context.Context, id uuid.UUID) (*models.Facets, error) {
	trials, err := s.dataset(id)
	if err != nil {
		return nil, err
	}
	return buildFacets(trials), nil
}

// Summary returns headline counts over the view's current results.
func (s *Service) Summary(_ context.Context, id uuid.UUID) (*models.Summary, error) {
	trials, err := s.results(id)
	if err != nil {
		return nil, err
	}
	return summarize(trials), nil
}

// ByPhase counts the view's current results per phase, largest first.
func (s *Service) ByPhase(_ context.Context, id uuid.UUID) ([]models.NamedCount, error) {
	trials, err := s.results(id)
	if err != nil {
		return nil, err
	}
	return countBy(trials, func(t models.Trial) string { return t.Phase }), nil
}

// ByStatus counts the view's current results per raw status, largest first.
func (s *Service) ByStatus(_ context.Context, id uuid.UUID) ([]models.NamedCount, error) {
	trials, err := s.results(id)
	if err != nil {
		return nil, err
	}
	return countBy(trials, func(t models.Trial) string { return t.Status }), nil
}

// TopEnrollment returns the n results with the largest enrollment. Trials
// without an enrollment count are left out.
func (s *Service) TopEnrollment(_ context.Context, id uuid.UUID, n int) ([]models.NamedCount, error) {
	if n <= 0 || n > MaxTopEnrollment {
		return nil, dErrors.New(dErrors.CodeValidation, "n must be between 1 and 100")
	}
	trials, err := s.results(id)
	if err != nil {
		return nil, err
	}
	return topEnrollment(trials, n), nil
}

func (s *Service) results(id uuid.UUID) ([]models.Trial, error) {
	return s.loadedList(id, (*view.View).Results)
}

func (s *Service) dataset(id uuid.UUID) ([]models.Trial, error) {
	return s.loadedList(id, (*view.View).Dataset)
}

func (s *Service) loadedList(id uuid.UUID, get func(*view.View) ([]models.Trial, error)) ([]models.Trial, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	trials, err := get(e.view)
	if err != nil {
		return nil, stateError(e.view, err)
	}
	return trials, nil
}

func summarize(trials []models.Trial) *models.Summary {
	sum := &models.Summary{TotalTrials: len(trials)}
	for _, t := range trials {
		if t.StatusCategory().IsActive() {
			sum.ActiveTrials++
		}
		sum.TotalEnrollment += t.Enrollment()
	}
	return sum
}

func countBy(trials []models.Trial, key func(models.Trial) string) []models.NamedCount {
	counts := make(map[string]int)
	for _, t := range trials {
		k := strings.TrimSpace(key(t))
		if k == "" {
			k = unknownLabel
		}
		counts[k]++
	}
	return sortedCounts(counts)
}

func sortedCounts(counts map[string]int) []models.NamedCount {
	out := make([]models.NamedCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.NamedCount{Name: name, Value: n})
	}
	slices.SortFunc(out, func(a, b models.NamedCount) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func topEnrollment(trials []models.Trial, n int) []models.NamedCount {
	withCount := make([]models.Trial, 0, len(trials))
	for _, t := range trials {
		if t.EnrollmentCount != nil {
			withCount = append(withCount, t)
		}
	}
	slices.SortStableFunc(withCount, func(a, b models.Trial) int {
		return cmp.Compare(*b.EnrollmentCount, *a.EnrollmentCount)
	})

	out := make([]models.NamedCount, 0, min(n, len(withCount)))
	for _, t := range withCount[:min(n, len(withCount))] {
		out = append(out, models.NamedCount{Name: chartLabel(t), Value: *t.EnrollmentCount, ID: cmp.Or(t.ID, t.NCTID)})
	}
	return out
}

func chartLabel(t models.Trial) string {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return cmp.Or(t.ID, t.NCTID)
	}
	if r := []rune(title); len(r) > maxLabelLength {
		return string(r[:maxLabelLength]) + "..."
	}
	return title
}

// facetCounter groups values under a normalised key and reports them with
// the spelling first seen.
type facetCounter struct {
	norm    func(string) string
	display map[string]string
	counts  map[string]int
}

func newFacetCounter(norm func(string) string) *facetCounter {
	return &facetCounter{norm: norm, display: make(map[string]string), counts: make(map[string]int)}
}

func (f *facetCounter) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	k := f.norm(v)
	if _, ok := f.display[k]; !ok {
		f.display[k] = v
	}
	f.counts[k]++
}

// addSet counts each distinct value of one trial once.
func (f *facetCounter) addSet(values []string) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		k := f.norm(strings.TrimSpace(v))
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		f.add(v)
	}
}

func (f *facetCounter) result() []models.NamedCount {
	named := make(map[string]int, len(f.counts))
	for k, n := range f.counts {
		named[f.display[k]] = n
	}
	return sortedCounts(named)
}

func buildFacets(trials []models.Trial) *models.Facets {
	identity := func(s string) string { return s }
	phases := newFacetCounter(identity)
	statuses := newFacetCounter(identity)
	studyTypes := newFacetCounter(strings.ToLower)
	genes := newFacetCounter(strings.ToLower)
	interventions := newFacetCounter(platformstrings.NormalizeLabel)

	unspecified := 0
	for _, t := range trials {
		phases.add(t.Phase)
		statuses.add(t.Status)
		studyTypes.add(t.StudyType)
		genes.addSet(t.Genes)
		if len(platformstrings.NormalizeLabels(t.InterventionTypes)) == 0 {
			unspecified++
		} else {
			interventions.addSet(t.InterventionTypes)
		}
	}

	f := &models.Facets{
		Phases:            phases.result(),
		Statuses:          statuses.result(),
		StudyTypes:        studyTypes.result(),
		Genes:             genes.result(),
		InterventionTypes: interventions.result(),
	}
	if unspecified > 0 {
		f.InterventionTypes = append(f.InterventionTypes,
			models.NamedCount{Name: models.InterventionNotSpecified, Value: unspecified})
	}
	return f
}
