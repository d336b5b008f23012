package stay

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/gofrs/uuid"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	StatusCode() int
	GetResponseField(field string) (any, error)
	Traveler() string
	SetTraveler(travelerID string)
	LastRecord() string
	SetLastRecord(recordID string)
}

// RegisterSteps registers ledger, status and trip steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &staySteps{tc: tc}

	ctx.Step(`^a new traveler$`, steps.newTraveler)
	ctx.Step(`^I log a stay in "([^"]*)" from "([^"]*)" to "([^"]*)"$`, steps.logClosedStay)
	ctx.Step(`^I log an ongoing stay in "([^"]*)" from "([^"]*)"$`, steps.logOngoingStay)
	ctx.Step(`^I record leaving on "([^"]*)"$`, steps.recordExit)
	ctx.Step(`^I check my "([^"]*)" status as of "([^"]*)"$`, steps.checkStatus)
	ctx.Step(`^I request my overview as of "([^"]*)"$`, steps.overview)
	ctx.Step(`^I validate a trip to "([^"]*)" from "([^"]*)" to "([^"]*)"$`, steps.validateTrip)
	ctx.Step(`^I list my stays$`, steps.listStays)
}

type staySteps struct {
	tc TestContext
}

func (s *staySteps) base() string {
	return "/v1/travelers/" + s.tc.Traveler()
}

func (s *staySteps) newTraveler(context.Context) error {
	travelerID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	s.tc.SetTraveler(travelerID.String())
	return nil
}

func (s *staySteps) logClosedStay(_ context.Context, code, entry, exit string) error {
	return s.logStay(map[string]any{
		"jurisdiction_code": code,
		"entry_date":        entry,
		"exit_date":         exit,
	})
}

func (s *staySteps) logOngoingStay(_ context.Context, code, entry string) error {
	return s.logStay(map[string]any{
		"jurisdiction_code": code,
		"entry_date":        entry,
	})
}

func (s *staySteps) logStay(body map[string]any) error {
	if err := s.tc.POST(s.base()+"/stays", body); err != nil {
		return err
	}
	if s.tc.StatusCode() != 201 {
		return nil
	}
	recordID, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.SetLastRecord(fmt.Sprint(recordID))
	return nil
}

func (s *staySteps) recordExit(_ context.Context, exit string) error {
	if s.tc.LastRecord() == "" {
		return fmt.Errorf("no stay has been logged in this scenario")
	}
	return s.tc.POST(s.base()+"/stays/"+s.tc.LastRecord()+"/exit", map[string]any{"exit_date": exit})
}

func (s *staySteps) checkStatus(_ context.Context, code, asOf string) error {
	return s.tc.GET(s.base() + "/status/" + code + "?as_of=" + asOf)
}

func (s *staySteps) overview(_ context.Context, asOf string) error {
	return s.tc.GET(s.base() + "/overview?as_of=" + asOf)
}

func (s *staySteps) validateTrip(_ context.Context, code, entry, exit string) error {
	return s.tc.POST(s.base()+"/trips/validate", map[string]any{
		"jurisdiction_code": code,
		"planned_entry":     entry,
		"planned_exit":      exit,
	})
}

func (s *staySteps) listStays(context.Context) error {
	return s.tc.GET(s.base() + "/stays")
}
