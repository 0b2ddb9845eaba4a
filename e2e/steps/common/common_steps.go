package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	StatusCode() int
	ResponseBody() []byte
}

// RegisterSteps registers background and assertion step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the insurer is running$`, steps.insurerIsRunning)
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.errorCodeShouldBe)
	ctx.Step(`^the error description should contain "([^"]*)"$`, steps.errorDescriptionShouldContain)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) insurerIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/healthz", nil); err != nil {
		return err
	}
	return s.responseStatusShouldBe(ctx, 200)
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, status int) error {
	if got := s.tc.StatusCode(); got != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, got, s.tc.ResponseBody())
	}
	return nil
}

func (s *commonSteps) errorCodeShouldBe(ctx context.Context, code string) error {
	v, err := s.tc.GetResponseField("error")
	if err != nil {
		return err
	}
	if v != code {
		return fmt.Errorf("expected error code %q, got %v", code, v)
	}
	return nil
}

func (s *commonSteps) errorDescriptionShouldContain(ctx context.Context, text string) error {
	v, err := s.tc.GetResponseField("error_description")
	if err != nil {
		return err
	}
	desc, _ := v.(string)
	if !strings.Contains(desc, text) {
		return fmt.Errorf("expected error description to contain %q, got %q", text, desc)
	}
	return nil
}
