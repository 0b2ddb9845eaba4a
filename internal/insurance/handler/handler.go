package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"insurer/internal/insurance/models"
	dErrors "insurer/pkg/domain-errors"
	"insurer/pkg/calendar"
	"insurer/pkg/platform/httputil"
	"insurer/pkg/requestcontext"
)

// Service defines the insurance operations exposed over HTTP.
type Service interface {
	AddAvailableRisk(ctx context.Context, risk models.Risk) error
	ListAvailableRisks(ctx context.Context) ([]models.Risk, error)
	SellPolicy(ctx context.Context, objectName string, validFrom time.Time, validMonths int, selectedRisks []models.Risk) (*models.Policy, error)
	GetPolicy(ctx context.Context, objectName string, effectiveDate time.Time) (*models.Policy, error)
	AddRisk(ctx context.Context, objectName string, risk models.Risk, effectiveDate time.Time) (*models.Policy, error)
	ListPolicies(ctx context.Context) ([]*models.Policy, error)
	ListPoliciesFor(ctx context.Context, objectName string) ([]*models.Policy, error)
}

// Handler wires insurance endpoints to the company service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an insurance handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts insurance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/risks", h.HandleListRisks)
	r.Post("/risks", h.HandleAddRisk)
	r.Get("/policies", h.HandleListPolicies)
	r.Post("/policies", h.HandleSellPolicy)
	r.Get("/policies/{object}", h.HandleGetPolicy)
	r.Post("/policies/{object}/risks", h.HandleAddPolicyRisk)
}

// HandleListRisks handles GET /risks.
func (h *Handler) HandleListRisks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	risks, err := h.service.ListAvailableRisks(ctx)
	if err != nil {
		h.logFailure(ctx, "list risks failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &RiskListResponse{Risks: FromRisks(risks)})
}

// HandleAddRisk handles POST /risks, adding a risk to the catalog.
func (h *Handler) HandleAddRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RiskRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	risk := req.ToRisk()
	if err := h.service.AddAvailableRisk(ctx, risk); err != nil {
		h.logFailure(ctx, "add available risk failed", err, "risk", risk.Name)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromRisk(risk))
}

// HandleListPolicies handles GET /policies, optionally filtered with
// ?object=name.
func (h *Handler) HandleListPolicies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		policies []*models.Policy
		err      error
	)
	if object := r.URL.Query().Get("object"); object != "" {
		policies, err = h.service.ListPoliciesFor(ctx, object)
	} else {
		policies, err = h.service.ListPolicies(ctx)
	}
	if err != nil {
		h.logFailure(ctx, "list policies failed", err)
		httputil.WriteError(w, err)
		return
	}
	today := calendar.Day(requestcontext.Now(ctx))
	resp := &PolicyListResponse{Policies: make([]*PolicyResponse, 0, len(policies))}
	for _, p := range policies {
		resp.Policies = append(resp.Policies, FromPolicy(p, today))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSellPolicy handles POST /policies.
func (h *Handler) HandleSellPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SellPolicyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	policy, err := h.service.SellPolicy(ctx, req.InsuredObject, req.ParsedValidFrom(), req.ValidMonths, req.SelectedRisks())
	if err != nil {
		h.logFailure(ctx, "sell policy failed", err, "object", req.InsuredObject)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "policy sale handled",
		"request_id", requestID,
		"policy_id", policy.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPolicy(policy, calendar.Day(requestcontext.Now(ctx))))
}

// HandleGetPolicy handles GET /policies/{object}?date=YYYY-MM-DD. Without a
// date the lookup uses the current day.
func (h *Handler) HandleGetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	object, ok := h.objectParam(w, r)
	if !ok {
		return
	}
	today := calendar.Day(requestcontext.Now(ctx))
	date := today
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := calendar.Parse(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "date must be formatted as YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	policy, err := h.service.GetPolicy(ctx, object, date)
	if err != nil {
		h.logFailure(ctx, "get policy failed", err, "object", object)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPolicy(policy, today))
}

// HandleAddPolicyRisk handles POST /policies/{object}/risks.
func (h *Handler) HandleAddPolicyRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	object, ok := h.objectParam(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[AddRiskRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	policy, err := h.service.AddRisk(ctx, object, req.Risk.ToRisk(), req.ParsedEffectiveDate())
	if err != nil {
		h.logFailure(ctx, "add risk to policy failed", err, "object", object, "risk", req.Risk.Name)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPolicy(policy, calendar.Day(requestcontext.Now(ctx))))
}

// objectParam returns the decoded {object} segment. chi matches against
// r.URL.RawPath when it is set (an escaped "/" in the segment), and only then
// is the parameter still escaped.
func (h *Handler) objectParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	object := chi.URLParam(r, "object")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(object)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "insured object is not a valid path segment"))
			return "", false
		}
		object = unescaped
	}
	if object == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "insured object is required"))
		return "", false
	}
	return object, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	args := append([]any{"request_id", requestcontext.RequestID(ctx), "error", err}, attrs...)
	if code, _ := dErrors.Is(err); code == dErrors.CodeInternal || code == "" {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
