// Package e2e drives a running planets server through Gherkin scenarios.
package e2e

import (
	"github.com/cucumber/godog"

	"planets/e2e/steps/planets"
)

// RegisterSteps registers all step definitions from modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the planets service is running$`, tc.serviceIsRunning)
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.responseFieldShouldBe)
	ctx.Step(`^the response error should be "([^"]*)"$`, tc.responseErrorShouldBe)

	planets.RegisterSteps(ctx, tc)
}
