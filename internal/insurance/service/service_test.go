package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	insurancemetrics "insurer/internal/insurance/metrics"
	"insurer/internal/insurance/models"
	"insurer/internal/insurance/premium"
	"insurer/internal/insurance/store"
	catalogstore "insurer/internal/insurance/store/catalog"
	ledgerstore "insurer/internal/insurance/store/ledger"
	dErrors "insurer/pkg/domain-errors"
	"insurer/pkg/calendar"
	"insurer/pkg/requestcontext"
)

// =============================================================================
// Company Test Suite
// =============================================================================
// The clock is pinned to 2022-05-01. The ledger starts with:
//   Bike-1  2022-06-01 .. 2022-12-31  all catalog risks
//   Bike-2  today .. today+6 months   Fire
//   Bike-3  today+3 months .. today+6 months  Fire

type CompanySuite struct {
	suite.Suite
	ctx     context.Context
	today   time.Time
	catalog *catalogstore.InMemory
	ledger  *ledgerstore.InMemory
	metrics *insurancemetrics.Metrics
	logs    *bytes.Buffer
	company *Company
}

func TestCompanySuite(t *testing.T) {
	suite.Run(t, new(CompanySuite))
}

func (s *CompanySuite) SetupTest() {
	s.today = calendar.Date(2022, time.May, 1)
	s.ctx = requestcontext.WithTime(context.Background(), s.today.Add(9*time.Hour))
	s.catalog = catalogstore.NewInMemory()
	s.ledger = ledgerstore.NewInMemory()
	s.Require().NoError(store.SeedCatalog(s.ctx, s.catalog, store.DefaultRisks()))

	s.seedPolicy("Bike-1", calendar.Date(2022, time.June, 1), calendar.Date(2022, time.December, 31), store.DefaultRisks())
	s.seedPolicy("Bike-2", s.today, calendar.AddMonths(s.today, 6), []models.Risk{models.MustRisk("Fire", 3)})
	s.seedPolicy("Bike-3", calendar.AddMonths(s.today, 3), calendar.AddMonths(s.today, 6), []models.Risk{models.MustRisk("Fire", 3)})

	s.metrics = insurancemetrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	var err error
	s.company, err = New("If", s.catalog, s.ledger,
		WithLogger(slog.New(slog.NewTextHandler(s.logs, nil))),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *CompanySuite) seedPolicy(object string, from, till time.Time, risks []models.Risk) {
	p, err := models.NewPolicy(uuid.New(), object, from, till, risks, s.today)
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.CreateIfPeriodAvailable(s.ctx, p))
}

func (s *CompanySuite) ledgerSize() int {
	policies, err := s.ledger.List(s.ctx)
	s.Require().NoError(err)
	return len(policies)
}

func (s *CompanySuite) fireAndSteam() []models.Risk {
	return []models.Risk{models.MustRisk("Fire", 3), models.MustRisk("Steam leakage", 4)}
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *CompanySuite) TestNew() {
	s.Run("empty name returns error", func() {
		_, err := New("", s.catalog, s.ledger)
		s.ErrorContains(err, "company name is required")
	})

	s.Run("nil catalog returns error", func() {
		_, err := New("If", nil, s.ledger)
		s.ErrorContains(err, "risk catalog is required")
	})

	s.Run("nil ledger returns error", func() {
		_, err := New("If", s.catalog, nil)
		s.ErrorContains(err, "policy ledger is required")
	})

	s.Run("valid stores returns configured company", func() {
		c, err := New("If", s.catalog, s.ledger)
		s.Require().NoError(err)
		s.Equal("If", c.Name())
		s.Nil(c.metrics)
	})
}

// =============================================================================
// Risk Catalog Tests
// =============================================================================

func (s *CompanySuite) TestAddAvailableRisk() {
	s.Run("rejects duplicate name", func() {
		err := s.company.AddAvailableRisk(s.ctx, models.MustRisk("Fire", 4))
		s.Require().ErrorIs(err, models.ErrDuplicateRisk)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.EqualError(err, "risk name already exists: Fire")

		risks, err := s.company.ListAvailableRisks(s.ctx)
		s.Require().NoError(err)
		s.Len(risks, 3)
	})

	s.Run("adds unique name", func() {
		s.Require().NoError(s.company.AddAvailableRisk(s.ctx, models.MustRisk("Theft", 4)))

		risks, err := s.company.ListAvailableRisks(s.ctx)
		s.Require().NoError(err)
		s.Len(risks, 4)
		s.Equal("Theft", risks[3].Name)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RisksCatalogued))
	})

	s.Run("rejects malformed risk", func() {
		err := s.company.AddAvailableRisk(s.ctx, models.Risk{Name: "Hail", YearlyPrice: decimal.Zero})
		s.Require().ErrorIs(err, models.ErrInvalidRisk)
	})
}

func (s *CompanySuite) TestListAvailableRisksIsSnapshot() {
	risks, err := s.company.ListAvailableRisks(s.ctx)
	s.Require().NoError(err)
	risks[0] = models.MustRisk("Tampered", 1)

	again, err := s.company.ListAvailableRisks(s.ctx)
	s.Require().NoError(err)
	s.Equal(store.DefaultRisks(), again)
}

func (s *CompanySuite) TestRisksAreSellable() {
	s.Run("all selected in catalog", func() {
		ok, err := s.company.RisksAreSellable(s.ctx, s.fireAndSteam())
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("price mismatch still sellable", func() {
		ok, err := s.company.RisksAreSellable(s.ctx, []models.Risk{models.MustRisk("Fire", 300)})
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("unknown risk not sellable", func() {
		ok, err := s.company.RisksAreSellable(s.ctx, append(s.fireAndSteam(), models.MustRisk("Rain", 4)))
		s.Require().NoError(err)
		s.False(ok)
	})
}

// =============================================================================
// SellPolicy Tests
// =============================================================================

func (s *CompanySuite) TestSellPolicy_Rejections() {
	s.Run("start date before today", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-4", calendar.AddDays(s.today, -1), 4, store.DefaultRisks())
		s.Require().ErrorIs(err, models.ErrInvalidDate)
		s.EqualError(err, "start date cannot be earlier than current date")
	})

	s.Run("zero months", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-4", s.today, 0, store.DefaultRisks())
		s.Require().ErrorIs(err, models.ErrInvalidPolicy)
		s.EqualError(err, "minimum number of months must be 1")
	})

	s.Run("negative months", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-4", s.today, -2, store.DefaultRisks())
		s.Require().ErrorIs(err, models.ErrInvalidPolicy)
	})

	s.Run("risk not in catalog", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-4", s.today, 4, append(s.fireAndSteam(), models.MustRisk("Theft", 4)))
		s.Require().ErrorIs(err, models.ErrInvalidPolicy)
		s.EqualError(err, "risks can be selected from available risks only: Fire, Steam leakage, Natural disaster")
	})

	s.Run("no risks selected", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-4", s.today, 4, nil)
		s.Require().ErrorIs(err, models.ErrInvalidPolicy)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty object name", func() {
		_, err := s.company.SellPolicy(s.ctx, "", s.today, 4, s.fireAndSteam())
		s.Require().ErrorIs(err, models.ErrInvalidPolicy)
	})

	s.Run("date check precedes month check", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-4", calendar.Date(2022, time.January, 1), 0, nil)
		s.Require().ErrorIs(err, models.ErrInvalidDate)
	})

	s.Equal(3, s.ledgerSize(), "rejections must not touch the ledger")
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Rejections.WithLabelValues(opSellPolicy, "invalid_date")))
	s.Contains(s.logs.String(), "insurance operation rejected")
}

func (s *CompanySuite) TestSellPolicy_ComputesPremium() {
	policy, err := s.company.SellPolicy(s.ctx, "Bike-4", s.today, 4, s.fireAndSteam())
	s.Require().NoError(err)

	validTill := calendar.Date(2022, time.August, 31)
	s.Equal("Bike-4", policy.InsuredObject)
	s.Equal(s.today, policy.ValidFrom)
	s.Equal(validTill, policy.ValidTill)
	s.Equal(s.today.Add(9*time.Hour), policy.IssuedAt)

	days := calendar.DaysBetween(s.today, validTill)
	s.Equal(int64(122), days)
	want := decimal.NewFromInt(days).Mul(premium.DailyRate(decimal.NewFromInt(3))).
		Add(decimal.NewFromInt(days).Mul(premium.DailyRate(decimal.NewFromInt(4))))
	s.True(want.Equal(policy.Premium()), "want %s got %s", want, policy.Premium())
	s.Equal("2.34", policy.Premium().StringFixed(2))

	stored, err := s.company.GetPolicy(s.ctx, "Bike-4", s.today)
	s.Require().NoError(err)
	s.Equal(policy.ID, stored.ID)
	s.Equal(4, s.ledgerSize())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PoliciesSold))
	s.Contains(s.logs.String(), "policy sold")
}

func (s *CompanySuite) TestSellPolicy_UsesSelectedPrices() {
	policy, err := s.company.SellPolicy(s.ctx, "Bike-5", s.today, 1, []models.Risk{models.MustRisk("Fire", 365)})
	s.Require().NoError(err)

	// 2022-05-01 .. 2022-05-31
	s.True(decimal.NewFromInt(30).Equal(policy.Premium()), "got %s", policy.Premium())
}

func (s *CompanySuite) TestSellPolicy_Exclusivity() {
	// Bike-1 covers 2022-06-01 .. 2022-12-31.
	conflicts := []struct {
		name   string
		from   time.Time
		months int
	}{
		{"ends inside", s.today, 2},
		{"starts inside", calendar.Date(2022, time.December, 1), 3},
		{"contained", calendar.Date(2022, time.July, 1), 1},
		{"contains", s.today, 12},
		{"touches start", calendar.Date(2022, time.May, 2), 1},
		{"touches end", calendar.Date(2022, time.December, 31), 1},
	}
	for _, tc := range conflicts {
		s.Run("conflict "+tc.name, func() {
			_, err := s.company.SellPolicy(s.ctx, "Bike-1", tc.from, tc.months, s.fireAndSteam())
			s.Require().ErrorIs(err, models.ErrInvalidPolicy)
			s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		})
	}
	s.Equal(3, s.ledgerSize())

	s.Run("strictly before is free", func() {
		p, err := s.company.SellPolicy(s.ctx, "Bike-1", s.today, 1, s.fireAndSteam())
		s.Require().NoError(err)
		s.Equal(calendar.Date(2022, time.May, 31), p.ValidTill)
	})

	s.Run("strictly after is free", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-1", calendar.Date(2023, time.January, 1), 3, s.fireAndSteam())
		s.Require().NoError(err)
	})

	s.Run("other object is unaffected", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-9", calendar.Date(2022, time.July, 1), 1, s.fireAndSteam())
		s.Require().NoError(err)
	})
}

func (s *CompanySuite) TestSellPolicy_AgainstSeededPeriods() {
	s.Run("ends before Bike-3 starts", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-3", s.today, 1, s.fireAndSteam())
		s.Require().NoError(err)
	})

	s.Run("overlaps Bike-2", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-2", s.today, 1, s.fireAndSteam())
		s.Require().ErrorIs(err, models.ErrInvalidPolicy)
	})

	s.Run("starts after Bike-2 ends", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-2", calendar.AddMonths(s.today, 7), 1, s.fireAndSteam())
		s.Require().NoError(err)
	})
}

func (s *CompanySuite) TestSellPolicy_ConcurrentSalesForSameObject() {
	var wg sync.WaitGroup
	results := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.company.SellPolicy(s.ctx, "Bike-8", s.today, 3, s.fireAndSteam())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	sold := 0
	for err := range results {
		if err == nil {
			sold++
			continue
		}
		s.True(errors.Is(err, models.ErrInvalidPolicy))
	}
	s.Equal(1, sold)
}

// =============================================================================
// GetPolicy Tests
// =============================================================================

func (s *CompanySuite) TestGetPolicy() {
	s.Run("unknown object", func() {
		_, err := s.company.GetPolicy(s.ctx, "Bike-4", calendar.Date(2022, time.February, 15))
		s.Require().ErrorIs(err, models.ErrPolicyNotFound)

		var nf *models.PolicyNotFoundError
		s.Require().ErrorAs(err, &nf)
		s.Equal("Bike-4", nf.ObjectName)
		s.Equal(calendar.Date(2022, time.February, 15), nf.Date)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("date outside period", func() {
		_, err := s.company.GetPolicy(s.ctx, "Bike-3", s.today)
		s.Require().ErrorIs(err, models.ErrPolicyNotFound)
	})

	s.Run("date inside period", func() {
		p, err := s.company.GetPolicy(s.ctx, "Bike-2", calendar.AddDays(s.today, 2))
		s.Require().NoError(err)
		s.Equal("Bike-2", p.InsuredObject)
		s.Equal(s.today, p.ValidFrom)
		s.Equal(calendar.AddMonths(s.today, 6), p.ValidTill)
	})

	s.Run("inclusive boundaries", func() {
		from := calendar.Date(2022, time.June, 1)
		till := calendar.Date(2022, time.December, 31)
		for _, d := range []time.Time{from, till} {
			p, err := s.company.GetPolicy(s.ctx, "Bike-1", d)
			s.Require().NoError(err)
			s.Equal(from, p.ValidFrom)
		}
		for _, d := range []time.Time{calendar.AddDays(from, -1), calendar.AddDays(till, 1)} {
			_, err := s.company.GetPolicy(s.ctx, "Bike-1", d)
			s.Require().ErrorIs(err, models.ErrPolicyNotFound)
		}
	})
}

// =============================================================================
// AddRisk Tests
// =============================================================================

func (s *CompanySuite) bikeTwoRisks() int {
	p, err := s.company.GetPolicy(s.ctx, "Bike-2", s.today)
	s.Require().NoError(err)
	return len(p.Risks())
}

func (s *CompanySuite) TestAddRisk_Rejections() {
	s.Run("risk not in catalog", func() {
		_, err := s.company.AddRisk(s.ctx, "Bike-2", models.MustRisk("Acid rain", 10), s.today)
		s.Require().ErrorIs(err, models.ErrRiskNotInsured)
		s.Equal(1, s.bikeTwoRisks())
	})

	s.Run("catalog check precedes date check", func() {
		_, err := s.company.AddRisk(s.ctx, "Bike-2", models.MustRisk("Acid rain", 10), calendar.Date(2022, time.January, 1))
		s.Require().ErrorIs(err, models.ErrRiskNotInsured)
	})

	s.Run("policy not found", func() {
		_, err := s.company.AddRisk(s.ctx, "Bike-4", models.MustRisk("Fire", 10), s.today)
		s.Require().ErrorIs(err, models.ErrPolicyNotFound)
	})

	s.Run("effective date before today", func() {
		_, err := s.company.AddRisk(s.ctx, "Bike-2", models.MustRisk("Steam leakage", 4), calendar.AddDays(s.today, -1))
		s.Require().ErrorIs(err, models.ErrInvalidDate)
		s.EqualError(err, "start date cannot be earlier than current date")
		s.Equal(1, s.bikeTwoRisks())
	})

	s.Run("malformed risk", func() {
		_, err := s.company.AddRisk(s.ctx, "Bike-2", models.Risk{Name: "Steam leakage"}, s.today)
		s.Require().ErrorIs(err, models.ErrInvalidRisk)
		s.Equal(1, s.bikeTwoRisks())
	})

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Rejections.WithLabelValues(opAddRisk, "policy_not_found")))
}

func (s *CompanySuite) TestAddRisk_ExtendsPolicyAndPremium() {
	before, err := s.company.GetPolicy(s.ctx, "Bike-2", s.today)
	s.Require().NoError(err)

	steam := models.MustRisk("Steam leakage", 4)
	updated, err := s.company.AddRisk(s.ctx, "Bike-2", steam, s.today)
	s.Require().NoError(err)

	names := []string{}
	for _, r := range updated.Risks() {
		names = append(names, r.Name)
	}
	s.Equal([]string{"Fire", "Steam leakage"}, names)

	increment := decimal.NewFromInt(calendar.DaysBetween(s.today, before.ValidTill)).
		Mul(premium.DailyRate(decimal.NewFromInt(4)))
	s.True(before.Premium().Add(increment).Equal(updated.Premium()),
		"want %s got %s", before.Premium().Add(increment), updated.Premium())

	after, err := s.company.GetPolicy(s.ctx, "Bike-2", calendar.AddDays(s.today, 4))
	s.Require().NoError(err)
	s.Len(after.Risks(), 2)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RisksAdded))
}

func (s *CompanySuite) TestAddRisk_MidTermStartsOnEffectiveDate() {
	effective := calendar.AddMonths(s.today, 2)
	updated, err := s.company.AddRisk(s.ctx, "Bike-2", models.MustRisk("Natural disaster", 2), effective)
	s.Require().NoError(err)

	added := updated.Risks()[1]
	s.Equal(effective, added.StartDate)

	want := premium.Sum(
		premium.ForSpan(updated.ValidFrom, updated.ValidTill, decimal.NewFromInt(3)),
		premium.ForSpan(effective, updated.ValidTill, decimal.NewFromInt(2)),
	)
	s.True(want.Equal(updated.Premium()), "want %s got %s", want, updated.Premium())
}

func (s *CompanySuite) TestListPolicies() {
	_, err := s.company.SellPolicy(s.ctx, "Bike-4", s.today, 4, s.fireAndSteam())
	s.Require().NoError(err)

	policies, err := s.company.ListPolicies(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(policies, 4)
	objects := []string{}
	for _, p := range policies {
		objects = append(objects, p.InsuredObject)
	}
	s.Equal([]string{"Bike-1", "Bike-2", "Bike-3", "Bike-4"}, objects)

	s.Run("filtered by object", func() {
		_, err := s.company.SellPolicy(s.ctx, "Bike-1", calendar.Date(2023, time.March, 1), 1, s.fireAndSteam())
		s.Require().NoError(err)

		bikeOne, err := s.company.ListPoliciesFor(s.ctx, "Bike-1")
		s.Require().NoError(err)
		s.Require().Len(bikeOne, 2)
		s.Equal(calendar.Date(2022, time.June, 1), bikeOne[0].ValidFrom)
		s.Equal(calendar.Date(2023, time.March, 1), bikeOne[1].ValidFrom)

		none, err := s.company.ListPoliciesFor(s.ctx, "bike-1")
		s.Require().NoError(err)
		s.Empty(none)
	})
}

// =============================================================================
// Tracing
// =============================================================================

func (s *CompanySuite) TestTracing() {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	company, err := New("If", s.catalog, s.ledger, WithTracerProvider(tp))
	s.Require().NoError(err)

	_, err = company.SellPolicy(s.ctx, "Bike-4", s.today, 4, s.fireAndSteam())
	s.Require().NoError(err)
	_, err = company.SellPolicy(s.ctx, "Bike-4", s.today, 1, s.fireAndSteam())
	s.Require().Error(err)

	spans := recorder.Ended()
	s.Require().Len(spans, 2)

	s.Run("successful sale", func() {
		sold := spans[0]
		s.Equal("insurance.sell_policy", sold.Name())
		s.Equal(codes.Unset, sold.Status().Code)
		s.Contains(sold.Attributes(), attribute.String("insurance.object", "Bike-4"))
		s.Contains(sold.Attributes(), attribute.String("insurance.company", "If"))
	})

	s.Run("rejected sale records error", func() {
		rejected := spans[1]
		s.Equal(codes.Error, rejected.Status().Code)
		s.Equal("invalid_policy", rejected.Status().Description)
		s.Require().NotEmpty(rejected.Events())
		s.Equal("exception", rejected.Events()[0].Name)
	})
}
