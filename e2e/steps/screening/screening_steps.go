package screening

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

type TestContext interface {
	POSTRaw(path, contentType string, body []byte) error
	GET(path string) error
	Header(name string) string
	Body() []byte
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &screeningSteps{tc: tc}

	ctx.Step(`^I submit the batch:$`, steps.submitBatch)
	ctx.Step(`^I submit the raw body "([^"]*)"$`, steps.submitRaw)
	ctx.Step(`^I fetch the screened report$`, steps.fetchReport)
	ctx.Step(`^the summary should count (\d+) high, (\d+) medium and (\d+) low risk$`, steps.summaryShouldCount)
	ctx.Step(`^application "([^"]*)" should be "([^"]*)" risk$`, steps.applicationRisk)
	ctx.Step(`^application "([^"]*)" should carry a "([^"]*)" flag related to "([^"]*)"$`, steps.applicationFlag)
}

type screeningSteps struct {
	tc       TestContext
	reportID string
}

type outcome struct {
	Summary struct {
		Total      int `json:"total"`
		HighRisk   int `json:"highRisk"`
		MediumRisk int `json:"mediumRisk"`
		LowRisk    int `json:"lowRisk"`
	} `json:"summary"`
	Results []struct {
		ID        string `json:"id"`
		RiskLevel string `json:"riskLevel"`
		Flags     []struct {
			Type      string   `json:"type"`
			RelatedTo []string `json:"relatedTo"`
		} `json:"flags"`
	} `json:"results"`
}

func (s *screeningSteps) submitBatch(_ context.Context, doc *godog.DocString) error {
	if err := s.tc.POSTRaw("/api/analyze", "application/json", []byte(doc.Content)); err != nil {
		return err
	}
	s.reportID = s.tc.Header("X-Report-ID")
	return nil
}

func (s *screeningSteps) submitRaw(_ context.Context, body string) error {
	return s.tc.POSTRaw("/api/analyze", "application/json", []byte(body))
}

func (s *screeningSteps) fetchReport(context.Context) error {
	if s.reportID == "" {
		return fmt.Errorf("no X-Report-ID header on the last analyze response")
	}
	return s.tc.GET("/api/reports/" + s.reportID)
}

func (s *screeningSteps) decode() (*outcome, error) {
	var out outcome
	if err := json.Unmarshal(s.tc.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode outcome: %w", err)
	}
	return &out, nil
}

func (s *screeningSteps) summaryShouldCount(_ context.Context, high, medium, low int) error {
	out, err := s.decode()
	if err != nil {
		return err
	}
	sum := out.Summary
	if sum.HighRisk != high || sum.MediumRisk != medium || sum.LowRisk != low {
		return fmt.Errorf("expected %d/%d/%d, got %d/%d/%d", high, medium, low, sum.HighRisk, sum.MediumRisk, sum.LowRisk)
	}
	if sum.Total != high+medium+low {
		return fmt.Errorf("total %d does not match the risk counts", sum.Total)
	}
	return nil
}

func (s *screeningSteps) applicationRisk(_ context.Context, id, level string) error {
	out, err := s.decode()
	if err != nil {
		return err
	}
	for _, r := range out.Results {
		if r.ID == id {
			if r.RiskLevel != level {
				return fmt.Errorf("application %s: expected %s, got %s", id, level, r.RiskLevel)
			}
			return nil
		}
	}
	return fmt.Errorf("application %s not in results", id)
}

func (s *screeningSteps) applicationFlag(_ context.Context, id, flagType, related string) error {
	out, err := s.decode()
	if err != nil {
		return err
	}
	for _, r := range out.Results {
		if r.ID != id {
			continue
		}
		for _, f := range r.Flags {
			if f.Type != flagType {
				continue
			}
			for _, rel := range f.RelatedTo {
				if rel == related {
					return nil
				}
			}
		}
		return fmt.Errorf("application %s has no %s flag related to %s", id, flagType, related)
	}
	return fmt.Errorf("application %s not in results", id)
}
