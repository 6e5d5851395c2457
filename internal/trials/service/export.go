package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"trialfinder/internal/trials/models"
)

var exportHeader = []string{
	"nct_id", "title", "sponsor", "status", "phase", "study_type",
	"last_updated", "start_date", "completion_date", "enrollment_count",
	"genes", "intervention_types", "url",
}

// ExportCSV writes the view's whole filtered and sorted list, not only the
// revealed pages, as CSV. It returns the number of data rows written.
func (s *Service) ExportCSV(ctx context.Context, id uuid.UUID, w io.Writer) (int, error) {
	trials, err := s.results(id)
	if err != nil {
		return 0, err
	}
	if err := writeCSV(w, trials); err != nil {
		return 0, fmt.Errorf("write csv export: %w", err)
	}
	s.logger.InfoContext(ctx, "view exported", "view_id", id, "rows", len(trials))
	return len(trials), nil
}

func writeCSV(w io.Writer, trials []models.Trial) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, t := range trials {
		enrollment := ""
		if t.EnrollmentCount != nil {
			enrollment = strconv.Itoa(*t.EnrollmentCount)
		}
		row := []string{
			t.NCTID, t.Title, t.Sponsor, t.Status, t.Phase, t.StudyType,
			t.LastUpdated.String(), t.StartDate.String(), t.CompletionDate.String(), enrollment,
			strings.Join(t.Genes, "; "), strings.Join(t.InterventionTypes, "; "), t.URL,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
