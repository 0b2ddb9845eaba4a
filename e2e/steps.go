package e2e

import (
	"github.com/cucumber/godog"

	"insurer/e2e/steps/common"
	"insurer/e2e/steps/policies"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, generic assertions)
	common.RegisterSteps(ctx, tc)

	// Register catalog and policy steps
	policies.RegisterSteps(ctx, tc)
}
