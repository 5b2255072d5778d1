package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/dev-underwriter/internal/analysis"
	"github.com/iwvelando/dev-underwriter/internal/config"
	"github.com/iwvelando/dev-underwriter/internal/optimizer"
	"github.com/iwvelando/dev-underwriter/pkg/btr"
	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/floorplans"
	"github.com/iwvelando/dev-underwriter/pkg/mathutil"
	"github.com/iwvelando/dev-underwriter/pkg/optimization"
	"github.com/iwvelando/dev-underwriter/pkg/output"
	"github.com/iwvelando/dev-underwriter/pkg/scurve"
	"github.com/iwvelando/dev-underwriter/pkg/underwrite"
	"github.com/iwvelando/dev-underwriter/pkg/validation"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

type contextKey struct{}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the underwriting API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	r := mux.NewRouter()
	r.Use(h.requestID)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/underwrite", h.handleUnderwrite).Methods(http.MethodPost)
	api.HandleFunc("/scurve", h.handleSCurve).Methods(http.MethodPost)
	api.HandleFunc("/budget", h.handleBudget).Methods(http.MethodPost)
	api.HandleFunc("/analyze", h.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/floorplans", h.handleFloorPlans).Methods(http.MethodGet)
	api.HandleFunc("/floorplans/{name}", h.handleFloorPlan).Methods(http.MethodGet)
	api.HandleFunc("/defaults", h.handleDefaults).Methods(http.MethodGet)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	r.NotFoundHandler = h.requestID(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.respondError(w, req, http.StatusNotFound, "not found", "server.notFound")
	}))
	r.MethodNotAllowedHandler = h.requestID(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.respondError(w, req, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "server.methodNotAllowed")
	}))

	return r
}

// requestID tags the request and response with an id, keeping one supplied
// by the caller.
func (h *handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(contextKey{}).(string)
	return id
}

type underwriteRequest struct {
	Plan     string                  `json:"plan"`
	Optimize *config.OptimizerConfig `json:"optimize"`
}

type underwriteResponse struct {
	RequestID     string                      `json:"requestId"`
	Inputs        underwrite.DealInputs       `json:"inputs"`
	Results       underwrite.DealResults      `json:"results"`
	Sensitivities []underwrite.ScenarioResult `json:"sensitivities"`
	Optimization  *optimization.Summary       `json:"optimization,omitempty"`
}

// handleUnderwrite underwrites one deal. The body holds any DealInputs fields
// by their JSON names plus an optional plan, applied in that order over the
// standard assumptions.
func (h *handler) handleUnderwrite(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUnderwrite"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		h.respondBodyError(w, r, err, op)
		return
	}

	var req underwriteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	in := underwrite.DefaultInputs()
	if strings.TrimSpace(req.Plan) != "" {
		plan, ok := floorplans.Find(req.Plan)
		if !ok {
			h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown floor plan %q", req.Plan), op)
			return
		}
		in = plan.Apply(in)
	}
	if err := json.Unmarshal(body, &in); err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode deal inputs: %v", err), op)
		return
	}

	if err := validation.ValidateDeal(in); err != nil {
		h.respondErrors(w, r, err, op)
		return
	}

	results := underwrite.Underwrite(in)
	if err := validation.CheckResults(results); err != nil {
		h.respondInvalid(w, r, http.StatusUnprocessableEntity, "results are not finite", err, op)
		return
	}
	resp := underwriteResponse{
		RequestID:     requestIDFrom(r),
		Inputs:        in,
		Results:       results,
		Sensitivities: results.Sensitivities(),
	}

	if req.Optimize != nil {
		summary, err := optimizer.NewRunner(h.logger).Optimize(in.PlanName, in, req.Optimize)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
		resp.Optimization = &summary
	}

	h.logger.Info("deal underwritten",
		zap.String("op", op),
		zap.String("requestId", resp.RequestID),
		zap.Float64("npm", results.NPM),
		zap.String("recommendation", string(results.Recommendation)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

type scurveRequest struct {
	DurationMonths     int     `json:"durationMonths"`
	Rate               string  `json:"rate"`
	TotalAmount        float64 `json:"totalAmount"`
	StartMonth         int     `json:"startMonth"`
	TotalProjectMonths int     `json:"totalProjectMonths"`
}

type scurveResponse struct {
	RequestID  string    `json:"requestId"`
	Level      float64   `json:"level"`
	Fractions  []float64 `json:"fractions"`
	Monthly    []float64 `json:"monthly,omitempty"`
	Cumulative []float64 `json:"cumulative,omitempty"`
}

// handleSCurve returns the spend curve for a duration and steepness. The rate
// is a named bucket or a number. With an amount and project horizon the
// amount is also placed on the monthly timeline.
func (h *handler) handleSCurve(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSCurve"

	var req scurveRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	rate := scurve.ParseSteepness(req.Rate)
	if req.Rate == "" {
		rate = scurve.RateModerate5
	}

	err := multierr.Combine(
		checkMonths("durationMonths", req.DurationMonths, 1),
		checkMonths("startMonth", req.StartMonth, 0),
		checkMonths("totalProjectMonths", req.TotalProjectMonths, 0),
	)
	if !mathutil.IsFinite(rate.Level()) {
		err = multierr.Append(err, fmt.Errorf("rate must be a named rate or a finite level, got %q", req.Rate))
	}
	if err != nil {
		h.respondErrors(w, r, err, op)
		return
	}

	resp := scurveResponse{
		RequestID: requestIDFrom(r),
		Level:     rate.Level(),
		Fractions: scurve.Generate(req.DurationMonths, rate),
	}
	if req.TotalProjectMonths > 0 {
		resp.Monthly = scurve.DistributeAmount(req.TotalAmount, req.StartMonth, req.DurationMonths, rate, req.TotalProjectMonths)
		resp.Cumulative = scurve.CumulativeSum(resp.Monthly)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// checkMonths bounds a month count from a request between lowest and the
// longest supported horizon.
func checkMonths(name string, months, lowest int) error {
	switch {
	case months < lowest:
		return fmt.Errorf("%s must be at least %d, got %d", name, lowest, months)
	case months > constants.MaxProjectMonths:
		return fmt.Errorf("%s must be at most %d, got %d", name, constants.MaxProjectMonths, months)
	}
	return nil
}

type budgetRequest struct {
	Project     btr.Project         `json:"project"`
	UseDefaults bool                `json:"useDefaults"`
	PerUnit     map[string]float64  `json:"perUnit"`
	Items       []scurve.BudgetItem `json:"items"`
}

type budgetResponse struct {
	RequestID string            `json:"requestId"`
	Budget    btr.BudgetSummary `json:"budget"`
}

// handleBudget rolls up a development budget. The standard template, priced
// from perUnit, is seeded ahead of the items when useDefaults is set.
func (h *handler) handleBudget(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBudget"

	var req budgetRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	var items []scurve.BudgetItem
	if req.UseDefaults {
		items = btr.SeedBudget(req.Project, req.PerUnit)
	}
	items = append(items, req.Items...)

	if err := validation.ValidateProject(req.Project, items); err != nil {
		h.respondErrors(w, r, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, budgetResponse{
		RequestID: requestIDFrom(r),
		Budget:    btr.SummarizeBudget(req.Project, items),
	})
}

type analyzeResponse struct {
	RequestID string          `json:"requestId"`
	Report    analysis.Report `json:"report"`
	Pretty    string          `json:"pretty"`
	CSV       string          `json:"csv"`
	Warnings  []string        `json:"warnings,omitempty"`
	Duration  string          `json:"duration"`
}

// handleAnalyze runs a full configuration uploaded as the multipart field
// "file".
func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.respondBodyError(w, r, err, op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	conf, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := conf.ValidateConfiguration()

	report, err := analysis.Run(h.logger, *conf)
	if err != nil {
		h.respondErrors(w, r, err, op)
		return
	}
	var nonFinite error
	for _, deal := range report.Deals {
		for _, warning := range deal.Warnings {
			nonFinite = multierr.Append(nonFinite, fmt.Errorf("deal %s: %s", deal.Name, warning))
		}
	}
	if nonFinite != nil {
		h.respondInvalid(w, r, http.StatusUnprocessableEntity, "results are not finite", nonFinite, op)
		return
	}

	var pretty, csv bytes.Buffer
	output.PrettyFormat(&pretty, report)
	output.CsvFormat(&csv, report)

	elapsed := time.Since(start)
	resp := analyzeResponse{
		RequestID: requestIDFrom(r),
		Report:    report,
		Pretty:    pretty.String(),
		CSV:       csv.String(),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	}

	h.logger.Info("configuration analyzed",
		zap.String("op", op),
		zap.String("requestId", resp.RequestID),
		zap.Int("deals", len(report.Deals)),
		zap.Int("projects", len(report.Projects)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

// handleFloorPlans lists the catalog, narrowed by the type, minSF, maxSF,
// minBed and maxWidth query parameters.
func (h *handler) handleFloorPlans(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFloorPlans"

	query := r.URL.Query()
	criteria := floorplans.Criteria{Type: floorplans.Type(strings.ToUpper(query.Get("type")))}

	var err error
	parseFloat := func(key string, dst *float64) {
		if v := query.Get(key); v != "" {
			n, parseErr := strconv.ParseFloat(v, 64)
			if parseErr != nil {
				err = multierr.Append(err, fmt.Errorf("invalid %s %q", key, v))
				return
			}
			*dst = n
		}
	}
	parseInt := func(key string, dst *int) {
		if v := query.Get(key); v != "" {
			n, parseErr := strconv.Atoi(v)
			if parseErr != nil {
				err = multierr.Append(err, fmt.Errorf("invalid %s %q", key, v))
				return
			}
			*dst = n
		}
	}
	parseFloat("minSF", &criteria.MinSF)
	parseFloat("maxSF", &criteria.MaxSF)
	parseInt("minBed", &criteria.MinBed)
	parseInt("maxWidth", &criteria.MaxWidth)
	if err != nil {
		h.respondErrors(w, r, err, op)
		return
	}

	plans := floorplans.Filter(criteria)
	if plans == nil {
		plans = []floorplans.Plan{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"requestId":  requestIDFrom(r),
		"floorPlans": plans,
	})
}

func (h *handler) handleFloorPlan(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	plan, ok := floorplans.Find(name)
	if !ok {
		h.respondError(w, r, http.StatusNotFound, fmt.Sprintf("unknown floor plan %q", name), "server.handleFloorPlan")
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"inputs":      underwrite.DefaultInputs(),
		"budgetItems": scurve.DefaultBudgetItems(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err := decoder.Decode(dst); err != nil {
		h.respondBodyError(w, r, err, op)
		return false
	}
	return true
}

func (h *handler) respondBodyError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
}

func errorStrings(err error) []string {
	errs := multierr.Errors(err)
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	return messages
}

// respondErrors reports a validation failure with each violation listed.
func (h *handler) respondErrors(w http.ResponseWriter, r *http.Request, err error, op string) {
	h.respondInvalid(w, r, http.StatusBadRequest, "validation failed", err, op)
}

func (h *handler) respondInvalid(w http.ResponseWriter, r *http.Request, status int, msg string, err error, op string) {
	details := errorStrings(err)
	h.logger.Warn("request rejected",
		zap.String("op", op),
		zap.String("requestId", requestIDFrom(r)),
		zap.Int("status", status),
		zap.Strings("errors", details),
	)
	h.writeJSON(w, status, map[string]interface{}{
		"error":     msg,
		"details":   details,
		"requestId": requestIDFrom(r),
	})
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("requestId", requestIDFrom(r)),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg, "requestId": requestIDFrom(r)})
}

// writeJSON encodes the payload before sending the status so that a payload
// that cannot be encoded, such as one holding NaN, is reported as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	const op = "server.writeJSON"

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.String("op", op), zap.Error(err))
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]string{
			"error": "failed to encode response",
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", op), zap.Error(err))
	}
}
