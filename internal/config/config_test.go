package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://data.brreg.no/enhetsregisteret/api/enheter", cfg.Registry.BaseURL)
	assert.Equal(t, 100, cfg.Registry.PageSize)
	assert.Equal(t, 3, cfg.Crawl.MaxPagesPerSite)
	assert.Equal(t, 80, cfg.Send.BatchLimit)
	assert.Equal(t, ProviderSendGrid, cfg.Delivery.Provider)
	assert.Equal(t, "outreach.db", cfg.DB.Path)
	assert.True(t, cfg.Logging.Development)

	min, max := cfg.CrawlDelayRange()
	assert.Equal(t, time.Second, min)
	assert.Equal(t, 3*time.Second, max)

	min, max = cfg.SendDelayRange()
	assert.Equal(t, 10*time.Second, min)
	assert.Equal(t, 25*time.Second, max)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OUTREACH_SEND_BATCH_LIMIT", "5")
	t.Setenv("SENDGRID_API_KEY", "sg-key")
	t.Setenv("OUTREACH_DELIVERY_REPLY_TO", "svar@dittdomene.no")
	t.Setenv("OUTREACH_DELIVERY_UNSUBSCRIBE_URL", "https://dittdomene.no/unsubscribe?email={{email}}")
	t.Setenv("OUTREACH_METRICS_ADDR", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Send.BatchLimit)
	assert.Equal(t, "sg-key", cfg.Delivery.APIKey)
	assert.Equal(t, "svar@dittdomene.no", cfg.Delivery.ReplyTo)
	assert.Equal(t, "https://dittdomene.no/unsubscribe?email={{email}}", cfg.Delivery.UnsubscribeURL)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid defaults", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("inverted crawl delay range", func(t *testing.T) {
		cfg := base()
		cfg.Crawl.DelayMinMs = 5000
		cfg.Crawl.DelayMaxMs = 1000
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := base()
		cfg.Delivery.Provider = "pigeon"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero batch limit", func(t *testing.T) {
		cfg := base()
		cfg.Send.BatchLimit = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing db path", func(t *testing.T) {
		cfg := base()
		cfg.DB.Path = ""
		assert.Error(t, cfg.Validate())
	})
}
