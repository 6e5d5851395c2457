package view

import (
	"time"

	"trialfinder/internal/trials/models"
	"trialfinder/internal/trials/paginate"
	"trialfinder/internal/trials/source"
)

// Snapshot is a point-in-time copy of a view for the presentation layer.
type Snapshot struct {
	State         State          `json:"state"`
	Rows          []models.Trial `json:"rows"`
	Visible       int            `json:"visible"`
	FilteredTotal int            `json:"filtered_total"`
	DatasetTotal  int            `json:"dataset_total"`
	PageSize      int            `json:"page_size"`
	Pages         int            `json:"pages"`
	HasMore       bool           `json:"has_more"`
	// NoResults is set when a loaded dataset yields zero rows for the current
	// criteria. It is never set for a failed load.
	NoResults bool            `json:"no_results"`
	Criteria  models.Criteria `json:"criteria"`
	Sort      models.Sort     `json:"sort"`
	LoadedAt  *time.Time      `json:"loaded_at,omitempty"`
	Failure   *Failure        `json:"failure,omitempty"`
}

// Failure describes why a load failed.
type Failure struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func (v *View) snapshot() Snapshot {
	s := Snapshot{
		State:    v.state,
		Rows:     []models.Trial{},
		PageSize: v.pager.PageSize(),
		Pages:    v.pager.Pages(),
		Criteria: v.criteria,
		Sort:     v.sort,
	}
	switch v.state {
	case StateLoaded:
		s.Rows = paginate.Window(v.pager, v.results)
		s.Visible = len(s.Rows)
		s.FilteredTotal = len(v.results)
		s.DatasetTotal = len(v.dataset)
		s.HasMore = v.pager.HasMore()
		s.NoResults = len(v.results) == 0
		loadedAt := v.loadedAt
		s.LoadedAt = &loadedAt
	case StateFailed:
		s.Failure = &Failure{
			Category: string(source.GetCategory(v.loadErr)),
			Message:  "trial data is unavailable",
		}
	}
	return s
}
