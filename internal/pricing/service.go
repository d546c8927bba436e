package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/broker/messages"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/cache"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/integrations/cod"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/integrations/tax"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/metrics"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/ratecards"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/zones"
	"github.com/pkg/errors"
)

// CardResolver — подбор карточки (ratecards.Resolver в проде).
type CardResolver interface {
	Resolve(ctx context.Context, scope models.RateCardScope, strict bool) (*ratecards.Resolution, error)
}

// EventPublisher — аудитные события (kafka.Producer в проде).
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Deps struct {
	Resolver CardResolver
	Postal   zones.PostalLookup
	Tax      tax.Calculator
	COD      cod.Calculator

	Cache   cache.BytesCache // nil — работаем без кэша
	Events  EventPublisher   // nil — без аудита
	Metrics metrics.Sink     // nil — metrics.Nop
}

type Options struct {
	ZoneTTL         time.Duration // default 12h: постальный справочник почти статичен
	RateCardTTL     time.Duration // default 10m
	UpstreamTimeout time.Duration // default 2s
	AuditTopic      string        // default "pricing.calculated"
}

// Service — оркестратор расчёта: кэш перед классификатором и резолвером,
// фиксированный порядок шагов композиции, метрики вокруг всего вызова.
// Сам по себе stateless: любое число запросов может идти параллельно.
type Service struct {
	resolver   CardResolver
	postal     zones.PostalLookup
	classifier *zones.Classifier
	tax        tax.Calculator
	cod        cod.Calculator

	cache   cache.BytesCache
	events  EventPublisher
	metrics metrics.Sink

	zoneTTL         time.Duration
	cardTTL         time.Duration
	upstreamTimeout time.Duration
	auditTopic      string
}

func New(d Deps, opts Options) *Service {
	if opts.ZoneTTL <= 0 {
		opts.ZoneTTL = 12 * time.Hour
	}
	if opts.RateCardTTL <= 0 {
		opts.RateCardTTL = 10 * time.Minute
	}
	if opts.UpstreamTimeout <= 0 {
		opts.UpstreamTimeout = 2 * time.Second
	}
	if opts.AuditTopic == "" {
		opts.AuditTopic = "pricing.calculated"
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}

	s := &Service{
		resolver:        d.Resolver,
		postal:          d.Postal,
		tax:             d.Tax,
		cod:             d.COD,
		cache:           d.Cache,
		events:          d.Events,
		metrics:         d.Metrics,
		zoneTTL:         opts.ZoneTTL,
		cardTTL:         opts.RateCardTTL,
		upstreamTimeout: opts.UpstreamTimeout,
		auditTopic:      opts.AuditTopic,
	}
	// Классификатор ходит в справочник через кэш сервиса: промах пары
	// стоит максимум два постальных чтения.
	s.classifier = zones.New(postalLookupFunc(s.getPostal))
	return s
}

type postalLookupFunc func(ctx context.Context, pincode string) (*models.PostalDetails, error)

func (f postalLookupFunc) GetDetails(ctx context.Context, pincode string) (*models.PostalDetails, error) {
	return f(ctx, pincode)
}

// CalculatePricing — основной вход: PricingRequest -> PricingResult.
// Любая неоднозначность — типизированная ошибка, а не угаданная цена.
func (s *Service) CalculatePricing(ctx context.Context, req models.PricingRequest) (*models.PricingResult, error) {
	start := time.Now()
	s.metrics.IncRequests()
	defer func() {
		s.metrics.ObserveLatency(time.Since(start))
	}()

	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	zone, err := s.resolveZone(ctx, req)
	if err != nil {
		return nil, s.asUpstream(err, "resolve zone")
	}

	res, err := s.resolveCard(ctx, req)
	if err != nil {
		return nil, s.asUpstream(err, "resolve rate card")
	}

	breakdown, err := Compose(res.Card, zone.Zone, req.Weight, req.Carrier, req.ServiceType)
	if err != nil {
		return nil, err
	}

	if req.PaymentMode == models.PaymentModeCOD {
		codCtx, cancel := s.withTimeout(ctx)
		charge, err := s.cod.Calculate(codCtx, req.OrderValue, res.Card.CODSurcharges)
		cancel()
		if err != nil {
			return nil, s.asUpstream(err, "cod charge")
		}
		breakdown.CODCharge = charge
	}

	fromState, toState, err := s.states(ctx, req)
	if err != nil {
		return nil, s.asUpstream(err, "postal states")
	}

	// Налог считается от subtotal; COD-сбор в базу не входит и в Total
	// не складывается (DESIGN.md, решение №1).
	taxCtx, cancel := s.withTimeout(ctx)
	taxSplit, err := s.tax.Calculate(taxCtx, fromState, toState, breakdown.Subtotal)
	cancel()
	if err != nil {
		return nil, s.asUpstream(err, "tax")
	}

	result := &models.PricingResult{
		Subtotal:  breakdown.Subtotal,
		CODCharge: breakdown.CODCharge,
		Tax:       taxSplit,
		Total:     models.Round2(breakdown.Subtotal + taxSplit.TotalGST),
		Metadata: models.PricingMetadata{
			RateCardID: res.Card.ID,
			Resolution: models.PricingResolution{
				MatchedLevel:       res.Level,
				MatchedCarrier:     deref(res.Card.Carrier),
				MatchedServiceType: deref(res.Card.ServiceType),
			},
			Zone:       zone.Zone,
			ZoneSource: zone.Source,
			Breakdown:  breakdown,
		},
	}

	s.publishAudit(ctx, req, result)
	return result, nil
}

// ResolveZone — предпросмотр зоны для пары пинкодов (без тарифа).
func (s *Service) ResolveZone(ctx context.Context, fromPincode, toPincode string) (models.ZoneResult, error) {
	zone, err := s.zoneFromCacheOrClassify(ctx, fromPincode, toPincode)
	if err != nil {
		return models.ZoneResult{}, s.asUpstream(err, "resolve zone")
	}
	return zone, nil
}

// ApplyRateCardUpdate инвалидирует кэш резолюций по событию админки.
// Правка платформенной карточки трогает fallback любой компании, поэтому
// чистим весь префикс.
func (s *Service) ApplyRateCardUpdate(ctx context.Context, msg messages.RateCardUpdated) error {
	if msg.RateCardID == "" {
		return errors.New("rate_card_id is required")
	}
	if s.cache == nil {
		return nil
	}
	prefix := "ratecard:"
	if msg.CompanyID != nil {
		prefix = rateCardScopePrefix(*msg.CompanyID)
	}
	n, err := s.cache.DelPrefix(ctx, prefix)
	if err != nil {
		return errors.Wrap(err, "invalidate rate cards")
	}
	slog.Info("rate card cache invalidated",
		"rate_card_id", msg.RateCardID, "action", msg.Action, "dropped", n)
	return nil
}

func validateRequest(req *models.PricingRequest) error {
	if req.FromPincode == "" || req.ToPincode == "" {
		return models.NewError(models.ErrCodeInvalidPincode, "fromPincode and toPincode are required")
	}
	if req.Weight <= 0 {
		return errors.New("weight must be positive")
	}
	if req.PaymentMode == "" {
		req.PaymentMode = models.PaymentModePrepaid
	}
	if req.PaymentMode != models.PaymentModePrepaid && req.PaymentMode != models.PaymentModeCOD {
		return errors.Errorf("unknown paymentMode %q", req.PaymentMode)
	}
	if req.OrderValue < 0 {
		return errors.New("orderValue must not be negative")
	}
	if req.ExternalZone != "" && !req.ExternalZone.Valid() {
		return errors.Errorf("unknown externalZone %q", req.ExternalZone)
	}
	return nil
}

func (s *Service) resolveZone(ctx context.Context, req models.PricingRequest) (models.ZoneResult, error) {
	if req.ExternalZone != "" {
		// Партнёрские сети считают зоны по своей топологии; оверрайд
		// обходит классификатор целиком.
		return zones.External(req.ExternalZone, req.ExternalZoneProvider), nil
	}
	return s.zoneFromCacheOrClassify(ctx, req.FromPincode, req.ToPincode)
}

func (s *Service) zoneFromCacheOrClassify(ctx context.Context, from, to string) (models.ZoneResult, error) {
	key := zoneKey(from, to)
	if s.cache != nil {
		if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var z models.ZoneResult
			if json.Unmarshal(b, &z) == nil {
				return z, nil
			}
		}
	}

	clsCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	z, err := s.classifier.Classify(clsCtx, from, to)
	if err != nil {
		return models.ZoneResult{}, err
	}

	if s.cache != nil {
		b, _ := json.Marshal(z)
		_ = s.cache.Set(ctx, key, b, s.zoneTTL)
	}
	return z, nil
}

// cachedResolution — то, что лежит в кэше резолюций.
type cachedResolution struct {
	Card  *models.RateCard `json:"card"`
	Level string           `json:"level"`
}

func (s *Service) resolveCard(ctx context.Context, req models.PricingRequest) (*ratecards.Resolution, error) {
	scope := models.RateCardScope{
		CompanyID:   req.CompanyID,
		Carrier:     req.Carrier,
		ServiceType: req.ServiceType,
		RateCardID:  req.RateCardID,
	}

	// Явный id резолвится напрямую и не кэшируется.
	useCache := s.cache != nil && req.RateCardID == ""
	key := rateCardKey(scope, req.Strict)
	if useCache {
		if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var c cachedResolution
			if json.Unmarshal(b, &c) == nil && c.Card != nil {
				return &ratecards.Resolution{Card: c.Card, Level: c.Level}, nil
			}
		}
	}

	resCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.resolver.Resolve(resCtx, scope, req.Strict)
	if err != nil {
		return nil, err
	}

	if useCache {
		b, _ := json.Marshal(cachedResolution{Card: res.Card, Level: res.Level})
		_ = s.cache.Set(ctx, key, b, s.cardTTL)
	}
	return res, nil
}

func (s *Service) getPostal(ctx context.Context, pincode string) (*models.PostalDetails, error) {
	key := postalKey(pincode)
	if s.cache != nil {
		if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var d models.PostalDetails
			if json.Unmarshal(b, &d) == nil {
				return &d, nil
			}
		}
	}

	lkCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := s.postal.GetDetails(lkCtx, pincode)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		b, _ := json.Marshal(d)
		_ = s.cache.Set(ctx, key, b, s.zoneTTL)
	}
	return d, nil
}

// states возвращает штаты концов маршрута для налога. Даже при внешней
// зоне пинкоды обязаны быть известны справочнику: сплит GST зависит от
// штатов, а не от зоны.
func (s *Service) states(ctx context.Context, req models.PricingRequest) (string, string, error) {
	from, err := s.getPostal(ctx, req.FromPincode)
	if errors.Is(err, models.ErrPostalNotFound) {
		return "", "", models.WrapError(err, models.ErrCodeInvalidPincode, "unknown pincode %s", req.FromPincode)
	}
	if err != nil {
		return "", "", err
	}
	to, err := s.getPostal(ctx, req.ToPincode)
	if errors.Is(err, models.ErrPostalNotFound) {
		return "", "", models.WrapError(err, models.ErrCodeInvalidPincode, "unknown pincode %s", req.ToPincode)
	}
	if err != nil {
		return "", "", err
	}
	return from.State, to.State, nil
}

func (s *Service) publishAudit(ctx context.Context, req models.PricingRequest, result *models.PricingResult) {
	if s.events == nil {
		return
	}
	// Аудит не должен ронять котировку: ошибку только логируем.
	b, _ := json.Marshal(messages.PricingCalculated{
		CompanyID:    req.CompanyID,
		FromPincode:  req.FromPincode,
		ToPincode:    req.ToPincode,
		Weight:       req.Weight,
		PaymentMode:  req.PaymentMode,
		Carrier:      req.Carrier,
		ServiceType:  req.ServiceType,
		Result:       *result,
		CalculatedAt: time.Now().UTC(),
	})
	if err := s.events.Publish(ctx, s.auditTopic, []byte(req.CompanyID), b); err != nil {
		slog.Warn("audit publish failed", "company_id", req.CompanyID, "err", err)
	}
}

// asUpstream помечает чужие ошибки коллабораторов как UPSTREAM_UNAVAILABLE.
// Свои типизированные отказы ("тарифа нет") проходят как есть: вызывающий
// обязан отличать их от "источник данных лежит".
func (s *Service) asUpstream(err error, op string) error {
	if err == nil {
		return nil
	}
	var e *models.Error
	if errors.As(err, &e) {
		return err
	}
	return models.WrapError(err, models.ErrCodeUpstreamUnavailable, "%s", op)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.upstreamTimeout)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func zoneKey(from, to string) string {
	return fmt.Sprintf("zone:%s:%s", from, to)
}

func postalKey(pincode string) string {
	return fmt.Sprintf("postal:%s", pincode)
}

func rateCardScopePrefix(companyID string) string {
	return fmt.Sprintf("ratecard:%s:", companyID)
}

func rateCardKey(scope models.RateCardScope, strict bool) string {
	return fmt.Sprintf("ratecard:%s:%s:%s:strict=%t", scope.CompanyID, scope.Carrier, scope.ServiceType, strict)
}
