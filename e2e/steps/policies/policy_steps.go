package policies

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	StatusCode() int
	Unique(name string) string
	Save(key, value string)
	Saved(key string) string
}

const dateLayout = "2006-01-02"

// RegisterSteps registers catalog and policy step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &policySteps{tc: tc}

	// Catalog steps
	ctx.Step(`^the catalog offers "([^"]*)" at ([\d.]+) per year$`, steps.catalogOffers)
	ctx.Step(`^I add a new risk "([^"]*)" to the catalog at ([\d.]+) per year$`, steps.addNewRisk)
	ctx.Step(`^I add the risk "([^"]*)" to the catalog again$`, steps.addRiskAgain)

	// Policy steps
	ctx.Step(`^I sell a policy for "([^"]*)" starting in (\d+) days for (\d+) months? with risks "([^"]*)"$`, steps.sellPolicyInDays)
	ctx.Step(`^I sell a policy for "([^"]*)" starting (\d+) days ago for (\d+) months? with risks "([^"]*)"$`, steps.sellPolicyDaysAgo)
	ctx.Step(`^I look up the policy for "([^"]*)" in (\d+) days$`, steps.lookUpPolicy)
	ctx.Step(`^I add risk "([^"]*)" at ([\d.]+) per year to "([^"]*)" in (\d+) days$`, steps.addRiskToPolicy)

	// Policy assertion steps
	ctx.Step(`^I remember the premium$`, steps.rememberPremium)
	ctx.Step(`^the premium should have increased$`, steps.premiumShouldHaveIncreased)
	ctx.Step(`^the premium should be greater than ([\d.]+)$`, steps.premiumShouldBeGreaterThan)
	ctx.Step(`^the policy should insure (\d+) risks?$`, steps.policyShouldInsureRisks)
}

type policySteps struct {
	tc TestContext
}

func (s *policySteps) catalogOffers(ctx context.Context, name, price string) error {
	if err := s.tc.POST("/risks", map[string]interface{}{"name": name, "yearly_price": price}); err != nil {
		return err
	}
	// A catalog left by an earlier run already holds the risk.
	if code := s.tc.StatusCode(); code != 201 && code != 409 {
		return fmt.Errorf("expected risk %q to be catalogued, got status %d", name, code)
	}
	return nil
}

func (s *policySteps) addNewRisk(ctx context.Context, name, price string) error {
	unique := s.tc.Unique(name)
	s.tc.Save("risk:"+name, unique)
	return s.tc.POST("/risks", map[string]interface{}{"name": unique, "yearly_price": price})
}

func (s *policySteps) addRiskAgain(ctx context.Context, name string) error {
	unique := s.tc.Saved("risk:" + name)
	if unique == "" {
		return fmt.Errorf("risk %q was not added in this scenario", name)
	}
	return s.tc.POST("/risks", map[string]interface{}{"name": unique, "yearly_price": "1"})
}

func (s *policySteps) sellPolicyInDays(ctx context.Context, object string, days, months int, risks string) error {
	return s.sellPolicy(object, days, months, risks)
}

func (s *policySteps) sellPolicyDaysAgo(ctx context.Context, object string, days, months int, risks string) error {
	return s.sellPolicy(object, -days, months, risks)
}

func (s *policySteps) sellPolicy(object string, offsetDays, months int, risks string) error {
	selected, err := parseRisks(risks)
	if err != nil {
		return err
	}
	return s.tc.POST("/policies", map[string]interface{}{
		"insured_object": s.tc.Unique(object),
		"valid_from":     dayFromToday(offsetDays),
		"valid_months":   months,
		"risks":          selected,
	})
}

func (s *policySteps) lookUpPolicy(ctx context.Context, object string, days int) error {
	path := "/policies/" + url.PathEscape(s.tc.Unique(object)) + "?date=" + dayFromToday(days)
	return s.tc.GET(path, nil)
}

func (s *policySteps) addRiskToPolicy(ctx context.Context, name, price, object string, days int) error {
	return s.tc.POST("/policies/"+url.PathEscape(s.tc.Unique(object))+"/risks", map[string]interface{}{
		"risk":           map[string]interface{}{"name": name, "yearly_price": price},
		"effective_date": dayFromToday(days),
	})
}

func (s *policySteps) rememberPremium(ctx context.Context) error {
	premium, err := s.premium()
	if err != nil {
		return err
	}
	s.tc.Save("premium", strconv.FormatFloat(premium, 'f', -1, 64))
	return nil
}

func (s *policySteps) premiumShouldHaveIncreased(ctx context.Context) error {
	before, err := strconv.ParseFloat(s.tc.Saved("premium"), 64)
	if err != nil {
		return fmt.Errorf("no remembered premium: %w", err)
	}
	after, err := s.premium()
	if err != nil {
		return err
	}
	if after <= before {
		return fmt.Errorf("expected premium above %v, got %v", before, after)
	}
	return nil
}

func (s *policySteps) premiumShouldBeGreaterThan(ctx context.Context, floor float64) error {
	premium, err := s.premium()
	if err != nil {
		return err
	}
	if premium <= floor {
		return fmt.Errorf("expected premium above %v, got %v", floor, premium)
	}
	return nil
}

func (s *policySteps) policyShouldInsureRisks(ctx context.Context, count int) error {
	v, err := s.tc.GetResponseField("risks")
	if err != nil {
		return err
	}
	risks, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("risks is not a list: %v", v)
	}
	if len(risks) != count {
		return fmt.Errorf("expected %d risks, got %d", count, len(risks))
	}
	return nil
}

func (s *policySteps) premium() (float64, error) {
	v, err := s.tc.GetResponseField("premium")
	if err != nil {
		return 0, err
	}
	raw, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("premium is not a string: %v", v)
	}
	return strconv.ParseFloat(raw, 64)
}

// parseRisks reads "Fire:3,Steam leakage:4".
func parseRisks(raw string) ([]map[string]interface{}, error) {
	var out []map[string]interface{}
	for _, entry := range strings.Split(raw, ",") {
		name, price, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("risk %q: expected name:price", entry)
		}
		out = append(out, map[string]interface{}{
			"name":         strings.TrimSpace(name),
			"yearly_price": strings.TrimSpace(price),
		})
	}
	return out, nil
}

func dayFromToday(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format(dateLayout)
}
