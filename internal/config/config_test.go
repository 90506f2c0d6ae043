package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8092,
			WriteTimeout:        30 * time.Second,
			ReadTimeout:         30 * time.Second,
			IdleTimeout:         2 * time.Minute,
			LogLevel:            "debug",
			MaxContentLength:    4096,
			HealthCheckInterval: 60,
		},
		Db: DbConfig{
			DbName:             "faucet",
			Address:            "mongodb://localhost:27017",
			MaxPaginationLimit: 10,
		},
		Metrics: DefaultMetricsConfig(),
		Source: SourceConfig{
			RpcUrl:          "https://s.altnet.rippletest.net:51234",
			RequestTimeout:  5000,
			PollInterval:    5 * time.Second,
			MaxPollAttempts: 300,
		},
		Destination: DestinationConfig{
			ExplorerApiUrl:  "https://explorer.testnet.xrplevm.org/api/v2",
			TokenAddress:    "0xd4949664cd82660aae99bedc034a0dea8a0bd517",
			RequestTimeout:  5000,
			PollInterval:    5 * time.Second,
			MaxPollAttempts: 300,
		},
		Faucet: FaucetConfig{
			BaseAmount:   "90",
			FractionStep: "0.0001",
		},
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	// Faucet amounts are parsed as part of validation.
	assert.Equal(t, "90", cfg.Faucet.GetBaseAmount().String())
	assert.Equal(t, "0.0001", cfg.Faucet.GetFractionStep().String())
}

func TestSourceConfigValidate(t *testing.T) {
	cfg := validConfig()

	cfg.Source.RpcUrl = ""
	assert.Error(t, cfg.Source.Validate())

	cfg.Source.RpcUrl = "ftp://example.com"
	assert.Error(t, cfg.Source.Validate())

	cfg = validConfig()
	cfg.Source.PollInterval = -time.Second
	assert.Error(t, cfg.Source.Validate())

	cfg = validConfig()
	cfg.Source.MaxPollAttempts = -1
	assert.Error(t, cfg.Source.Validate())
}

func TestPollLoopDefaultsApplied(t *testing.T) {
	cfg := validConfig()
	cfg.Source.PollInterval = 0
	cfg.Source.MaxPollAttempts = 0
	cfg.Destination.PollInterval = 0
	cfg.Destination.MaxPollAttempts = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Second, cfg.Source.PollInterval)
	assert.Equal(t, 300, cfg.Source.MaxPollAttempts)
	assert.Equal(t, 5*time.Second, cfg.Destination.PollInterval)
	assert.Equal(t, 300, cfg.Destination.MaxPollAttempts)
}

func TestDestinationConfigValidate(t *testing.T) {
	cfg := validConfig()

	cfg.Destination.TokenAddress = "not-an-address"
	assert.Error(t, cfg.Destination.Validate())

	cfg = validConfig()
	cfg.Destination.ExplorerApiUrl = ""
	assert.Error(t, cfg.Destination.Validate())

	cfg = validConfig()
	cfg.Destination.RequestTimeout = 0
	assert.Error(t, cfg.Destination.Validate())
}

func TestFaucetConfigValidate(t *testing.T) {
	cfg := validConfig()

	cfg.Faucet.BaseAmount = "0"
	assert.Error(t, cfg.Faucet.Validate())

	cfg = validConfig()
	cfg.Faucet.BaseAmount = "ninety"
	assert.Error(t, cfg.Faucet.Validate())

	cfg = validConfig()
	cfg.Faucet.FractionStep = "-0.0001"
	assert.Error(t, cfg.Faucet.Validate())
}

func TestEventsConfigValidate(t *testing.T) {
	// Disabled fan-out needs no credentials.
	cfg := EventsConfig{}
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.Enabled())

	cfg = EventsConfig{Url: "localhost:5672"}
	assert.True(t, cfg.Enabled())
	assert.Error(t, cfg.Validate())

	cfg = EventsConfig{Url: "localhost:5672", User: "guest", Password: "guest", ExchangeName: "transfer_events"}
	assert.NoError(t, cfg.Validate())
}
