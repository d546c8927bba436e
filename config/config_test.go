package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
database:
  host: "localhost"
  port: 5432
  username: "u"
  password: "p"
  name: "db"
kafka:
  host: "localhost"
  port: 9092
  rate_card_updated_topic_name: "ratecard.updated"
  pricing_calculated_topic_name: "pricing.calculated"
redis:
  host: "localhost"
  port: 6379
pricing:
  http_addr: ":8080"
  kafka_consumer_group: "pricing-api"
  zone_ttl_seconds: 43200
  rate_card_ttl_seconds: 600
  upstream_timeout_millis: 2000
  quote_limit_per_minute: 120
  tax_mode: "local"
  tax_rate_percent: 18
`), 0o600))

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "u", cfg.Database.Username)
	require.Equal(t, "ratecard.updated", cfg.Kafka.RateCardUpdatedTopicName)
	require.Equal(t, 6379, cfg.Redis.Port)
	require.Equal(t, ":8080", cfg.Pricing.HTTPAddr)
	require.Equal(t, 600, cfg.Pricing.RateCardTTLSeconds)
	require.Equal(t, "local", cfg.Pricing.TaxMode)
	require.Equal(t, 18.0, cfg.Pricing.TaxRatePercent)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
