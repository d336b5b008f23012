package e2e

import (
	"github.com/cucumber/godog"

	"sojourn/e2e/steps/common"
	"sojourn/e2e/steps/stay"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and assertions
	common.RegisterSteps(ctx, tc)

	// Traveler ledger, status and trip planning
	stay.RegisterSteps(ctx, tc)
}
