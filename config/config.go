package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	Pricing  PricingConfig  `yaml:"pricing"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                      string `yaml:"host"`
	Port                      int    `yaml:"port"`
	RateCardUpdatedTopicName  string `yaml:"rate_card_updated_topic_name"`
	PricingCalculatedTopicName string `yaml:"pricing_calculated_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type PricingConfig struct {
	HTTPAddr           string `yaml:"http_addr"`
	KafkaConsumerGroup string `yaml:"kafka_consumer_group"`

	ZoneTTLSeconds        int `yaml:"zone_ttl_seconds"`
	RateCardTTLSeconds    int `yaml:"rate_card_ttl_seconds"`
	UpstreamTimeoutMillis int `yaml:"upstream_timeout_millis"`

	QuoteLimitPerMinute int `yaml:"quote_limit_per_minute"`

	// "local" — встроенный GST-сплит; "http" — внешний налоговый сервис.
	TaxMode       string  `yaml:"tax_mode"`
	TaxRatePercent float64 `yaml:"tax_rate_percent"`
	TaxBaseURL    string  `yaml:"tax_base_url"`
	TaxAPIKey     string  `yaml:"tax_api_key"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
