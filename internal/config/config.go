// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Delivery provider names accepted in configuration.
const (
	ProviderSendGrid = "sendgrid"
	ProviderNoOp     = "noop"
)

// Config captures all pipeline configuration knobs loaded via Viper. It
// is assembled once at startup and passed down explicitly.
type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Crawl    CrawlConfig    `mapstructure:"crawl"`
	Send     SendConfig     `mapstructure:"send"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	DB       DBConfig       `mapstructure:"db"`
	Export   ExportConfig   `mapstructure:"export"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// RegistryConfig governs the registry API client.
type RegistryConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	PageSize       int    `mapstructure:"page_size"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CrawlConfig governs website crawling and its pacing.
type CrawlConfig struct {
	DelayMinMs      int `mapstructure:"delay_min_ms"`
	DelayMaxMs      int `mapstructure:"delay_max_ms"`
	MaxPagesPerSite int `mapstructure:"max_pages_per_site"`
	TimeoutSeconds  int `mapstructure:"timeout_seconds"`
}

// SendConfig governs campaign batches and send pacing.
type SendConfig struct {
	DelayMinSeconds int    `mapstructure:"delay_min_seconds"`
	DelayMaxSeconds int    `mapstructure:"delay_max_seconds"`
	BatchLimit      int    `mapstructure:"batch_limit"`
	Subject         string `mapstructure:"subject"`
}

// DeliveryConfig identifies the sender and the delivery provider.
type DeliveryConfig struct {
	Provider       string `mapstructure:"provider"`
	APIKey         string `mapstructure:"api_key"`
	FromName       string `mapstructure:"from_name"`
	FromEmail      string `mapstructure:"from_email"`
	ReplyTo        string `mapstructure:"reply_to"`
	UnsubscribeURL string `mapstructure:"unsubscribe_url"`
}

// DBConfig locates the embedded database.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig sets the CSV output paths.
type ExportConfig struct {
	ProspectsPath string `mapstructure:"prospects_path"`
	NamesPath     string `mapstructure:"names_path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig controls the optional metrics listener. Empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load builds a Config from an optional config file and environment
// variables with the OUTREACH prefix.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The SendGrid key is conventionally provided under its own name.
	_ = v.BindEnv("delivery.api_key", "OUTREACH_DELIVERY_API_KEY", "SENDGRID_API_KEY")

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("registry.base_url", "https://data.brreg.no/enhetsregisteret/api/enheter")
	v.SetDefault("registry.user_agent", "LocalOutreachBot/1.0 (+contact: post@dittdomene.no)")
	v.SetDefault("registry.page_size", 100)
	v.SetDefault("registry.timeout_seconds", 15)
	v.SetDefault("crawl.delay_min_ms", 1000)
	v.SetDefault("crawl.delay_max_ms", 3000)
	v.SetDefault("crawl.max_pages_per_site", 3)
	v.SetDefault("crawl.timeout_seconds", 15)
	v.SetDefault("send.delay_min_seconds", 10)
	v.SetDefault("send.delay_max_seconds", 25)
	v.SetDefault("send.batch_limit", 80)
	v.SetDefault("send.subject", "Lunsj og møtemat levert lokalt")
	v.SetDefault("delivery.provider", ProviderSendGrid)
	v.SetDefault("delivery.from_name", "Din Bedrift Catering")
	v.SetDefault("delivery.from_email", "post@dittdomene.no")
	// Keys without a meaningful default still need registering, or
	// Unmarshal never sees their environment values.
	v.SetDefault("delivery.reply_to", "")
	v.SetDefault("delivery.unsubscribe_url", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("db.path", "outreach.db")
	v.SetDefault("export.prospects_path", "outreach_prospects.csv")
	v.SetDefault("export.names_path", "outreach_companies_names.csv")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Registry.BaseURL == "" {
		return fmt.Errorf("registry.base_url must be set")
	}
	if c.Registry.PageSize <= 0 {
		return fmt.Errorf("registry.page_size must be > 0")
	}
	if c.Registry.TimeoutSeconds <= 0 {
		return fmt.Errorf("registry.timeout_seconds must be > 0")
	}
	if c.Crawl.DelayMinMs < 0 || c.Crawl.DelayMaxMs < c.Crawl.DelayMinMs {
		return fmt.Errorf("crawl delay range [%d, %d] is invalid", c.Crawl.DelayMinMs, c.Crawl.DelayMaxMs)
	}
	if c.Crawl.MaxPagesPerSite <= 0 {
		return fmt.Errorf("crawl.max_pages_per_site must be > 0")
	}
	if c.Send.DelayMinSeconds < 0 || c.Send.DelayMaxSeconds < c.Send.DelayMinSeconds {
		return fmt.Errorf("send delay range [%d, %d] is invalid", c.Send.DelayMinSeconds, c.Send.DelayMaxSeconds)
	}
	if c.Send.BatchLimit <= 0 {
		return fmt.Errorf("send.batch_limit must be > 0")
	}
	switch c.Delivery.Provider {
	case ProviderSendGrid, ProviderNoOp:
	default:
		return fmt.Errorf("unknown delivery provider: %s", c.Delivery.Provider)
	}
	if c.Delivery.FromEmail == "" {
		return fmt.Errorf("delivery.from_email must be set")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path must be set")
	}
	return nil
}

// RegistryTimeout returns the registry HTTP timeout.
func (c Config) RegistryTimeout() time.Duration {
	return time.Duration(c.Registry.TimeoutSeconds) * time.Second
}

// CrawlTimeout returns the website fetch timeout.
func (c Config) CrawlTimeout() time.Duration {
	return time.Duration(c.Crawl.TimeoutSeconds) * time.Second
}

// CrawlDelayRange returns the pacing bounds for crawling.
func (c Config) CrawlDelayRange() (time.Duration, time.Duration) {
	return time.Duration(c.Crawl.DelayMinMs) * time.Millisecond,
		time.Duration(c.Crawl.DelayMaxMs) * time.Millisecond
}

// SendDelayRange returns the pacing bounds for deliveries.
func (c Config) SendDelayRange() (time.Duration, time.Duration) {
	return time.Duration(c.Send.DelayMinSeconds) * time.Second,
		time.Duration(c.Send.DelayMaxSeconds) * time.Second
}
