package e2e

import (
	"github.com/cucumber/godog"

	"trialfinder/e2e/steps/common"
	"trialfinder/e2e/steps/views"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Health checks, generic requests and response assertions
	common.RegisterSteps(ctx, tc)

	// Trial view lifecycle
	views.RegisterSteps(ctx, tc)
}
