package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/config"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/api/pricing_api"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/broker/kafka"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/cache/rediscache"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/integrations/cod"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/integrations/tax"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/integrations/tax/gstlocal"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/integrations/tax/taxhttp"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/metrics/prommetrics"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/pricing"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/ratecards"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/storage/pgrates"
)

type pricingAPIApp struct {
	ctx      context.Context
	cancel   context.CancelFunc
	opts     pricingAPIOpts
	svc      *pricing.Service
	api      *pricing_api.PricingAPI
	consumer *kafka.Consumer
	producer *kafka.Producer
	closeDB  func()
}

func mustBootstrapPricingAPI() *pricingAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.Pricing.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	consumerGroup := cfg.Pricing.KafkaConsumerGroup
	if consumerGroup == "" {
		consumerGroup = "pricing-api"
	}
	topic := cfg.Kafka.RateCardUpdatedTopicName
	if topic == "" {
		topic = "ratecard.updated"
	}
	auditTopic := cfg.Kafka.PricingCalculatedTopicName
	if auditTopic == "" {
		auditTopic = "pricing.calculated"
	}

	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
	st := mustOpenPostgresWithRetry(connString, 60*time.Second)

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)
	limiter := rediscache.NewRateLimiter(redisAddr)

	var taxCalc tax.Calculator
	if cfg.Pricing.TaxMode == "http" {
		taxCalc = taxhttp.New(cfg.Pricing.TaxBaseURL, cfg.Pricing.TaxAPIKey)
	} else {
		taxCalc = gstlocal.New(cfg.Pricing.TaxRatePercent)
	}

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	producer := kafka.NewProducer(brokers)
	consumer := kafka.NewConsumer(brokers, topic, consumerGroup)

	svc := pricing.New(pricing.Deps{
		Resolver: ratecards.New(st),
		Postal:   st,
		Tax:      taxCalc,
		COD:      cod.NewSlabCalculator(),
		Cache:    rc,
		Events:   producer,
		Metrics:  prommetrics.New(),
	}, pricing.Options{
		ZoneTTL:         time.Duration(cfg.Pricing.ZoneTTLSeconds) * time.Second,
		RateCardTTL:     time.Duration(cfg.Pricing.RateCardTTLSeconds) * time.Second,
		UpstreamTimeout: time.Duration(cfg.Pricing.UpstreamTimeoutMillis) * time.Millisecond,
		AuditTopic:      auditTopic,
	})

	api := pricing_api.New(svc, pricing_api.Options{
		QuoteLimit: int64(cfg.Pricing.QuoteLimitPerMinute),
		Limiter:    limiter,
		Ready:      st,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &pricingAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: pricingAPIOpts{
			httpAddr:      httpAddr,
			topic:         topic,
			consumerGroup: consumerGroup,
		},
		svc:      svc,
		api:      api,
		consumer: consumer,
		producer: producer,
		closeDB:  st.Close,
	}
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pgrates.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgrates.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *pricingAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.consumer != nil {
		_ = a.consumer.Close()
	}
	if a.producer != nil {
		_ = a.producer.Close()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *pricingAPIApp) Run() error {
	return runPricingAPI(a.ctx, a.opts, a.svc, a.api.Router(), a.consumer)
}
