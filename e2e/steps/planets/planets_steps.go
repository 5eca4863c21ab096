package planets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cucumber/godog"
)

// TestContext defines the methods needed from the main test context.
type TestContext interface {
	Do(method, path string, body any) error
	Status() int
	Header(key string) string
	GetResponseField(field string) (any, error)
	Remember(name, id string)
	Recall(name string) (string, error)
}

// RegisterSteps registers planet step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	s := &planetSteps{tc: tc}

	ctx.Step(`^I create a planet "([^"]*)" with climate "([^"]*)" and terrain "([^"]*)"$`, s.createPlanet)
	ctx.Step(`^I fetch the planet "([^"]*)"$`, s.fetchPlanet)
	ctx.Step(`^I look up planets by name "([^"]*)"$`, s.findByName)
	ctx.Step(`^I search planets with climate "([^"]*)" and terrain "([^"]*)"$`, s.search)
	ctx.Step(`^I patch the planet "([^"]*)" climate to "([^"]*)"$`, s.patchClimate)
	ctx.Step(`^I delete the planet "([^"]*)"$`, s.deletePlanet)

	ctx.Step(`^the location header should point to the planet$`, s.locationPointsToPlanet)
	ctx.Step(`^the search should return (\d+) planets?$`, s.searchShouldReturn)
}

type planetSteps struct {
	tc TestContext
}

func (s *planetSteps) createPlanet(ctx context.Context, name, climate, terrain string) error {
	err := s.tc.Do(http.MethodPost, "/planets", map[string]string{
		"name": name, "climate": climate, "terrain": terrain,
	})
	if err != nil || s.tc.Status() != http.StatusCreated {
		return err
	}
	id, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.Remember(name, fmt.Sprint(id))
	return nil
}

func (s *planetSteps) path(name string) (string, error) {
	id, err := s.tc.Recall(name)
	if err != nil {
		return "", err
	}
	return "/planets/" + id, nil
}

func (s *planetSteps) fetchPlanet(ctx context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return s.tc.Do(http.MethodGet, p, nil)
}

func (s *planetSteps) findByName(ctx context.Context, name string) error {
	return s.tc.Do(http.MethodGet, "/planets/name/"+url.PathEscape(name), nil)
}

func (s *planetSteps) search(ctx context.Context, climate, terrain string) error {
	q := url.Values{}
	if climate != "" {
		q.Set("climate", climate)
	}
	if terrain != "" {
		q.Set("terrain", terrain)
	}
	return s.tc.Do(http.MethodGet, "/planets/search?"+q.Encode(), nil)
}

func (s *planetSteps) patchClimate(ctx context.Context, name, climate string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return s.tc.Do(http.MethodPatch, p, map[string]string{"climate": climate})
}

func (s *planetSteps) deletePlanet(ctx context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return s.tc.Do(http.MethodDelete, p, nil)
}

func (s *planetSteps) locationPointsToPlanet(ctx context.Context) error {
	id, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	want := fmt.Sprintf("/planets/%v", id)
	if got := s.tc.Header("Location"); got != want {
		return fmt.Errorf("expected Location %q, got %q", want, got)
	}
	return nil
}

func (s *planetSteps) searchShouldReturn(ctx context.Context, n int) error {
	content, err := s.tc.GetResponseField("content")
	if err != nil {
		return err
	}
	items, ok := content.([]any)
	if !ok {
		return fmt.Errorf("content is not a list: %v", content)
	}
	if len(items) != n {
		return fmt.Errorf("expected %d planets, got %d", n, len(items))
	}
	return nil
}
