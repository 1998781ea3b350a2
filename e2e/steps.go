package e2e

import (
	"github.com/cucumber/godog"

	"fraudscreen/e2e/steps/common"
	"fraudscreen/e2e/steps/screening"
)

// RegisterSteps wires every step package into the scenario.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	screening.RegisterSteps(ctx, tc)
}
