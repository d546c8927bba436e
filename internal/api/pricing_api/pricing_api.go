package pricing_api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PricingService — внешний контракт движка (pricing.Service в проде).
type PricingService interface {
	CalculatePricing(ctx context.Context, req models.PricingRequest) (*models.PricingResult, error)
	ResolveZone(ctx context.Context, fromPincode, toPincode string) (models.ZoneResult, error)
}

// QuotaLimiter — лимит котировок на компанию (rediscache.RateLimiter в проде).
type QuotaLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// Pinger отвечает за readiness (pgrates.Storage в проде).
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	// QuoteLimit <= 0 или nil Limiter — лимит выключен.
	QuoteLimit  int64
	QuoteWindow time.Duration // default 1m

	Limiter QuotaLimiter
	Ready   Pinger
}

type PricingAPI struct {
	svc  PricingService
	opts Options
}

func New(svc PricingService, opts Options) *PricingAPI {
	if opts.QuoteWindow <= 0 {
		opts.QuoteWindow = time.Minute
	}
	return &PricingAPI{svc: svc, opts: opts}
}

func (a *PricingAPI) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", a.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/v1/pricing/calculate", a.handleCalculate)
	r.Get("/v1/zones/{from}/{to}", a.handleZone)

	return r
}

func (a *PricingAPI) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if a.opts.Ready != nil {
		if err := a.opts.Ready.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (a *PricingAPI) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req models.PricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return
	}
	if req.CompanyID == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "companyId is required")
		return
	}

	if !a.allowQuote(r.Context(), req.CompanyID) {
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "quote limit exceeded")
		return
	}

	result, err := a.svc.CalculatePricing(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *PricingAPI) handleZone(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	zone, err := a.svc.ResolveZone(r.Context(), from, to)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zone)
}

func (a *PricingAPI) allowQuote(ctx context.Context, companyID string) bool {
	if a.opts.Limiter == nil || a.opts.QuoteLimit <= 0 {
		return true
	}
	ok, n, err := a.opts.Limiter.Allow(ctx, "quota:quote:"+companyID, a.opts.QuoteLimit, a.opts.QuoteWindow)
	if err != nil {
		// лимитер лежит — пропускаем, котировки важнее квоты
		slog.Warn("quote limiter failed", "company_id", companyID, "err", err)
		return true
	}
	if !ok {
		slog.Info("quote limit exceeded", "company_id", companyID, "count", n)
	}
	return ok
}

// writeServiceError переводит типизированные отказы движка в статусы.
// Отказ данных (нет тарифа, нет слэба) — 422: запрос корректен, прайсинг
// для него не настроен. 503 только для лежащих источников.
func (a *PricingAPI) writeServiceError(w http.ResponseWriter, err error) {
	var e *models.Error
	if !errors.As(err, &e) {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch e.Code {
	case models.ErrCodeInvalidPincode:
		status = http.StatusBadRequest
	case models.ErrCodeNoRateForCarrierService,
		models.ErrCodeNoDefaultRateCard,
		models.ErrCodeRateCardNotActive,
		models.ErrCodeNoWeightSlab:
		status = http.StatusUnprocessableEntity
	case models.ErrCodeAmbiguousRateCard:
		status = http.StatusConflict
	case models.ErrCodeUpstreamUnavailable:
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, string(e.Code), e.Message)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var b errorBody
	b.Error.Code = code
	b.Error.Message = message
	writeJSON(w, status, b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
