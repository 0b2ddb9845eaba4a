package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	insurancemetrics "insurer/internal/insurance/metrics"
	"insurer/internal/insurance/models"
	dErrors "insurer/pkg/domain-errors"
)

// RiskCatalog persists the risks the company offers.
type RiskCatalog interface {
	CreateIfNameAvailable(ctx context.Context, risk models.Risk) error
	FindByName(ctx context.Context, name string) (models.Risk, error)
	List(ctx context.Context) ([]models.Risk, error)
	ContainsAll(ctx context.Context, selected []models.Risk) (bool, error)
}

// PolicyLedger persists sold policies in sale order.
type PolicyLedger interface {
	CreateIfPeriodAvailable(ctx context.Context, policy *models.Policy) error
	FindCovering(ctx context.Context, insuredObject string, date time.Time) (*models.Policy, error)
	Execute(ctx context.Context, insuredObject string, date time.Time, mutate func(*models.Policy)) (*models.Policy, error)
	List(ctx context.Context) ([]*models.Policy, error)
	ListByObject(ctx context.Context, insuredObject string) ([]*models.Policy, error)
}

// Company is the insurance company aggregate: it owns one risk catalog and
// one policy ledger and enforces the rules for selling and amending policies.
//
// Atomicity of check-then-act sequences is delegated to the stores
// (CreateIfNameAvailable, CreateIfPeriodAvailable, Execute). The catalog only
// grows, so a "sellable" answer cannot go stale before the ledger append.
type Company struct {
	name    string
	catalog RiskCatalog
	ledger  PolicyLedger
	logger  *slog.Logger
	metrics *insurancemetrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Company)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Company) {
		c.logger = logger
	}
}

func WithMetrics(m *insurancemetrics.Metrics) Option {
	return func(c *Company) {
		c.metrics = m
	}
}

// WithTracerProvider replaces the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Company) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// New constructs a Company over the given stores.
func New(name string, catalog RiskCatalog, ledger PolicyLedger, opts ...Option) (*Company, error) {
	if name == "" {
		return nil, errors.New("company name is required")
	}
	if catalog == nil {
		return nil, errors.New("risk catalog is required")
	}
	if ledger == nil {
		return nil, errors.New("policy ledger is required")
	}
	c := &Company{
		name:    name,
		catalog: catalog,
		ledger:  ledger,
		logger:  slog.New(slog.DiscardHandler),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Company) Name() string {
	return c.name
}

const tracerName = "insurer/internal/insurance/service"

const (
	opAddAvailableRisk = "add_available_risk"
	opSellPolicy       = "sell_policy"
	opGetPolicy        = "get_policy"
	opAddRisk          = "add_risk"
)

func (c *Company) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("insurance.company", c.name))
	return c.tracer.Start(ctx, "insurance."+operation, trace.WithAttributes(attrs...))
}

// reject reports a failed operation and returns err unchanged.
func (c *Company) reject(ctx context.Context, operation string, err error, attrs ...any) error {
	kind := errorKind(err)
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	if c.metrics != nil {
		c.metrics.IncrementRejection(operation, kind)
	}
	args := append([]any{"company", c.name, "operation", operation, "kind", kind, "error", err}, attrs...)
	if kind == "internal" {
		c.logger.ErrorContext(ctx, "insurance operation failed", args...)
	} else {
		c.logger.InfoContext(ctx, "insurance operation rejected", args...)
	}
	return err
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidRisk):
		return "invalid_risk"
	case errors.Is(err, models.ErrInvalidPolicy):
		return "invalid_policy"
	case errors.Is(err, models.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, models.ErrDuplicateRisk):
		return "duplicate_risk"
	case errors.Is(err, models.ErrRiskNotInsured):
		return "risk_not_insured"
	case errors.Is(err, models.ErrPolicyNotFound):
		return "policy_not_found"
	default:
		return "internal"
	}
}

func internalErr(err error, message string) error {
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
