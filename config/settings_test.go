package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	settings := Load(viper.New())

	assert.True(t, settings.Engine.RequireFinality)
	assert.Equal(t, 60*time.Second, settings.Engine.FinalityTimeout)
	assert.Equal(t, 2*time.Second, settings.Engine.PollInterval)
	assert.Equal(t, "gridnode", settings.Ledger.Backend)
	assert.Equal(t, "none", settings.Journal.Backend)
	assert.Equal(t, 10*time.Minute, settings.Journal.TTL)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("engine.network", "grid-mainnet")
	v.Set("engine.require_finality", false)
	v.Set("engine.finality_timeout", "90s")
	v.Set("ledger.backend", "horizon")
	v.Set("ledger.horizon_url", "https://horizon.stellar.org")
	v.Set("journal.backend", "postgres")
	v.Set("database.url", "postgres://localhost/paysettle")

	settings := Load(v)

	assert.Equal(t, "grid-mainnet", settings.Engine.Network)
	assert.False(t, settings.Engine.RequireFinality)
	assert.Equal(t, 90*time.Second, settings.Engine.FinalityTimeout)
	assert.Equal(t, "horizon", settings.Ledger.Backend)
	assert.Equal(t, "https://horizon.stellar.org", settings.Ledger.HorizonURL)
	assert.Equal(t, "postgres", settings.Journal.Backend)
	assert.Equal(t, "postgres://localhost/paysettle", settings.Database.URL)
}
