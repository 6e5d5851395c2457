package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"trialfinder/internal/trials/metrics"
	"trialfinder/internal/trials/models"
)

// DefaultTrialTable is the table the dashboard backend writes trials into.
const DefaultTrialTable = "Dashboard_trial"

// PostgresSource reads the trial table of the dashboard's backing database.
// It returns rows in primary key order, the same order the analytics API uses.
type PostgresSource struct {
	db      *sql.DB
	query   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewPostgresSource builds a source over table (DefaultTrialTable when empty).
func NewPostgresSource(db *sql.DB, table string, logger *slog.Logger, m *metrics.Metrics) *PostgresSource {
	if table == "" {
		table = DefaultTrialTable
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSource{
		db:      db,
		query:   trialQuery(table),
		logger:  logger,
		metrics: m,
	}
}

func trialQuery(table string) string {
	return fmt.Sprintf(`SELECT unique_protocol_id, nct_id, brief_title, lead_sponsor_name,
	overall_status, study_phase, study_type, status_verified_date,
	study_start_date, completion_date, enrollment_count, clinical_trial_url,
	genes, intervention_name
FROM %s
ORDER BY unique_protocol_id`, pq.QuoteIdentifier(table))
}

// Name implements Source.
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Fetch implements Source.
func (s *PostgresSource) Fetch(ctx context.Context) ([]models.Trial, error) {
	start := time.Now()
	defer s.metrics.ObserveFetch(s.Name(), start)

	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, s.classify(ctx, "query trials", err)
	}
	defer rows.Close()

	var trials []models.Trial
	for rows.Next() {
		t, err := scanTrial(rows)
		if err != nil {
			return nil, NewFetchError(ErrorBadData, s.Name(), "scan trial row", err)
		}
		trials = append(trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(ctx, "iterate trials", err)
	}

	trials, dropped := UniqueByNCTID(trials)
	if dropped > 0 {
		s.metrics.AddSkippedRecords(dropped)
		s.logger.WarnContext(ctx, "dropped duplicate trial rows", "source", s.Name(), "dropped", dropped)
	}
	if trials == nil {
		trials = []models.Trial{}
	}
	return trials, nil
}

func (s *PostgresSource) classify(ctx context.Context, msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewFetchError(ErrorTimeout, s.Name(), msg, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "undefined_table" {
		return NewFetchError(ErrorNotFound, s.Name(), msg, err)
	}
	return NewFetchError(ErrorOutage, s.Name(), msg, err)
}

func scanTrial(rows *sql.Rows) (models.Trial, error) {
	var (
		id, nct, title, sponsor, status, phase, studyType, url sql.NullString
		verified, started, completed                           sql.NullTime
		enrollment                                             sql.NullInt64
		genes, interventions                                   []byte
	)
	if err := rows.Scan(&id, &nct, &title, &sponsor, &status, &phase, &studyType,
		&verified, &started, &completed, &enrollment, &url, &genes, &interventions); err != nil {
		return models.Trial{}, err
	}

	t := models.Trial{
		ID:                id.String,
		NCTID:             nct.String,
		Title:             title.String,
		Sponsor:           sponsor.String,
		Status:            status.String,
		Phase:             phase.String,
		StudyType:         studyType.String,
		LastUpdated:       nullDate(verified),
		StartDate:         nullDate(started),
		CompletionDate:    nullDate(completed),
		URL:               url.String,
		Genes:             jsonLabels(genes, geneObjectKeys),
		InterventionTypes: interventionTypes(interventions),
	}
	if enrollment.Valid && enrollment.Int64 >= 0 {
		n := int(enrollment.Int64)
		t.EnrollmentCount = &n
	}
	return t, nil
}

func nullDate(t sql.NullTime) models.Date {
	if !t.Valid {
		return models.Date{}
	}
	y, m, d := t.Time.Date()
	return models.NewDate(y, m, d)
}

// interventionTypes reads the intervention_name column, which holds the
// registry's intervention objects ({"type": "DRUG", "name": ...}). Bare
// strings there are intervention names, not types, and are skipped.
func interventionTypes(raw []byte) []string {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	var out []string
	for _, e := range elems {
		var obj record
		if json.Unmarshal(e, &obj) != nil || obj == nil {
			continue
		}
		if t := obj.str(interventionObjectKeys); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func jsonLabels(raw []byte, objectKeys []string) []string {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	return stringList(json.RawMessage(raw), objectKeys)
}
