// Package server exposes the quote service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/company"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/observability"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/quote"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/constants"
	"go.uber.org/zap"
)

// QuoteHeader carries the identifier of the quote a response belongs to.
const QuoteHeader = "X-Quote-ID"

// QuoteService is the subset of quote.Service the handlers call.
type QuoteService interface {
	Calculate(ctx context.Context, req quote.Request) (*quote.Quote, error)
	Schedule(ctx context.Context, req quote.ScheduleRequest) (*quote.ScheduleResult, error)
	Compare(ctx context.Context, companyID string, amount float64) ([]quote.Comparison, error)
}

type handler struct {
	svc         QuoteService
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the quote API.
func NewHandler(svc QuoteService, metrics *observability.Metrics, logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{svc: svc, logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": http.StatusText(http.StatusNotFound)})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": http.StatusText(http.StatusMethodNotAllowed)})
	})

	r.Get("/healthz", h.handleHealth)
	r.Get("/api/version", h.handleVersion)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/companies", func(r chi.Router) {
		r.Post("/calculate-payments", h.handleCalculate)
		r.Post("/amortization-schedule", h.handleSchedule)
		r.Post("/compare-frequencies", h.handleCompare)
	})

	return r
}

// quoteRequest accepts amount, periods and companyId as JSON numbers or
// numeric strings.
type quoteRequest struct {
	CompanyID        interface{} `json:"companyId"`
	Amount           interface{} `json:"amount"`
	Periods          interface{} `json:"periods"`
	PaymentFrequency string      `json:"paymentFrequency"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	req, ok := h.decode(w, r, op)
	if !ok {
		return
	}
	amount, err := coerceFloat(req.Amount)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid amount: %v", err), op)
		return
	}

	q, err := h.svc.Calculate(r.Context(), quote.Request{
		CompanyID:        coerceString(req.CompanyID),
		Amount:           amount,
		PaymentFrequency: req.PaymentFrequency,
	})
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	w.Header().Set(QuoteHeader, q.ID)
	h.writeJSON(w, http.StatusOK, q.Plans)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"

	req, ok := h.decode(w, r, op)
	if !ok {
		return
	}
	amount, err := coerceFloat(req.Amount)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid amount: %v", err), op)
		return
	}
	periods, err := coerceInt(req.Periods)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid periods: %v", err), op)
		return
	}

	result, err := h.svc.Schedule(r.Context(), quote.ScheduleRequest{
		CompanyID:        coerceString(req.CompanyID),
		Amount:           amount,
		Periods:          periods,
		PaymentFrequency: req.PaymentFrequency,
	})
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	w.Header().Set(QuoteHeader, result.ID)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"

	req, ok := h.decode(w, r, op)
	if !ok {
		return
	}
	amount, err := coerceFloat(req.Amount)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid amount: %v", err), op)
		return
	}

	comparisons, err := h.svc.Compare(r.Context(), coerceString(req.CompanyID), amount)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, comparisons)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, op string) (quoteRequest, bool) {
	var req quoteRequest

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", h.maxBodySize), op)
			return req, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return req, false
	}
	return req, true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		validationErr *quote.ValidationError
		limitErr      *quote.LimitExceededError
		notFound      *company.ErrNotFound
		unavailable   *company.ErrUnavailable
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &limitErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable) && unavailable.CircuitOpen():
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
		h.logger.Error("quote request failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
	h.respondErrorWithOp(w, status, msg, op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Debug("quote request rejected",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func coerceFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case json.Number:
		return v.Float64()
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("value is empty")
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return f, nil
	case float64:
		return v, nil
	case nil:
		return 0, errors.New("value is required")
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func coerceInt(value interface{}) (int, error) {
	f, err := coerceFloat(value)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%v is not a whole number", f)
	}
	return int(f), nil
}
