package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	POST(path string, body interface{}) error
	PUT(path string, body interface{}) error
	DELETE(path string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetViewID() string
	SetViewID(id string)
}

// RegisterSteps registers the view lifecycle step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &viewSteps{tc: tc}

	// Opening
	ctx.Step(`^I open a view and wait for the dataset$`, steps.openAndWait)
	ctx.Step(`^I open a view without waiting$`, steps.openNoWait)
	ctx.Step(`^I have a loaded view$`, steps.haveLoadedView)

	// Interaction
	ctx.Step(`^I fetch the view$`, steps.fetchView)
	ctx.Step(`^I search for "([^"]*)"$`, steps.search)
	ctx.Step(`^I filter by phases "([^"]*)"$`, steps.filterByPhases)
	ctx.Step(`^I sort by "([^"]*)" "([^"]*)"$`, steps.sortBy)
	ctx.Step(`^I clear the sort$`, steps.clearSort)
	ctx.Step(`^I advance the view$`, steps.advance)
	ctx.Step(`^I report the sentinel as (visible|hidden)$`, steps.nearEnd)
	ctx.Step(`^I close the view$`, steps.closeView)
	ctx.Step(`^I request "([^"]*)" for the view$`, steps.requestSubresource)
	ctx.Step(`^I fetch an unknown view$`, steps.fetchUnknown)

	// Assertions
	ctx.Step(`^the view should show at most (\d+) rows$`, steps.atMostRows)
	ctx.Step(`^every visible row should mention "([^"]*)"$`, steps.rowsMention)
}

type viewSteps struct {
	tc TestContext
}

const unknownViewID = "00000000-0000-4000-8000-000000000000"

func (s *viewSteps) path(suffix string) string {
	return "/views/" + s.tc.GetViewID() + suffix
}

func (s *viewSteps) open(wait bool) error {
	path := "/views"
	if wait {
		path += "?wait=true"
	}
	if err := s.tc.POST(path, nil); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 201 {
		return fmt.Errorf("open view returned %d", status)
	}
	id, err := s.tc.GetResponseField("view_id")
	if err != nil {
		return err
	}
	s.tc.SetViewID(fmt.Sprint(id))
	return nil
}

func (s *viewSteps) openAndWait(ctx context.Context) error {
	return s.open(true)
}

func (s *viewSteps) openNoWait(ctx context.Context) error {
	return s.open(false)
}

func (s *viewSteps) haveLoadedView(ctx context.Context) error {
	if err := s.open(true); err != nil {
		return err
	}
	state, err := s.tc.GetResponseField("state")
	if err != nil {
		return err
	}
	if state != "loaded" {
		return fmt.Errorf("expected a loaded view, got state %v", state)
	}
	return nil
}

func (s *viewSteps) fetchView(ctx context.Context) error {
	return s.tc.GET(s.path(""), nil)
}

func (s *viewSteps) search(ctx context.Context, term string) error {
	return s.tc.PUT(s.path("/criteria"), map[string]interface{}{"search": term})
}

func (s *viewSteps) filterByPhases(ctx context.Context, phases string) error {
	return s.tc.PUT(s.path("/criteria"), map[string]interface{}{
		"phases": strings.Split(phases, ","),
	})
}

func (s *viewSteps) sortBy(ctx context.Context, key, direction string) error {
	return s.tc.PUT(s.path("/sort"), map[string]interface{}{
		"key":       key,
		"direction": direction,
	})
}

func (s *viewSteps) clearSort(ctx context.Context) error {
	return s.tc.PUT(s.path("/sort"), map[string]interface{}{"key": ""})
}

func (s *viewSteps) advance(ctx context.Context) error {
	return s.tc.POST(s.path("/advance"), nil)
}

func (s *viewSteps) nearEnd(ctx context.Context, visibility string) error {
	return s.tc.POST(s.path("/near-end"), map[string]interface{}{
		"visible": visibility == "visible",
	})
}

func (s *viewSteps) closeView(ctx context.Context) error {
	return s.tc.DELETE(s.path(""))
}

func (s *viewSteps) requestSubresource(ctx context.Context, sub string) error {
	return s.tc.GET(s.path("/"+strings.TrimPrefix(sub, "/")), nil)
}

func (s *viewSteps) fetchUnknown(ctx context.Context) error {
	return s.tc.GET("/views/"+unknownViewID, nil)
}

func (s *viewSteps) rows() ([]interface{}, error) {
	value, err := s.tc.GetResponseField("rows")
	if err != nil {
		return nil, err
	}
	rows, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("rows is not a list: %T", value)
	}
	return rows, nil
}

func (s *viewSteps) atMostRows(ctx context.Context, limit int) error {
	rows, err := s.rows()
	if err != nil {
		return err
	}
	if len(rows) > limit {
		return fmt.Errorf("expected at most %d rows, got %d", limit, len(rows))
	}
	return nil
}

func (s *viewSteps) rowsMention(ctx context.Context, term string) error {
	rows, err := s.rows()
	if err != nil {
		return err
	}
	needle := strings.ToLower(term)
	for i, row := range rows {
		if !strings.Contains(strings.ToLower(fmt.Sprint(row)), needle) {
			return fmt.Errorf("row %d does not mention %q", i, term)
		}
	}
	return nil
}
