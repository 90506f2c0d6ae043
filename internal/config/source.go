package config

import (
	"errors"
	"net/url"
	"time"
)

// Defaults for both poll loops: a 5 second tick with a 300 attempt ceiling,
// 25 minutes of watching per phase.
const (
	defaultPollInterval    = 5 * time.Second
	defaultMaxPollAttempts = 300
)

// SourceConfig points at the source ledger (XRPL) JSON-RPC endpoint and
// bounds the settlement poll loop.
type SourceConfig struct {
	RpcUrl          string        `mapstructure:"rpc-url"`
	RequestTimeout  int           `mapstructure:"request-timeout"` // milliseconds
	PollInterval    time.Duration `mapstructure:"poll-interval"`
	MaxPollAttempts int           `mapstructure:"max-poll-attempts"`
}

func (cfg *SourceConfig) Validate() error {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxPollAttempts == 0 {
		cfg.MaxPollAttempts = defaultMaxPollAttempts
	}

	if cfg.RpcUrl == "" {
		return errors.New("source rpc-url cannot be empty")
	}

	parsedURL, err := url.ParseRequestURI(cfg.RpcUrl)
	if err != nil {
		return errors.New("invalid source rpc-url")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("source rpc-url must start with http or https")
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New("source request-timeout cannot be smaller or equal to 0")
	}

	if cfg.PollInterval <= 0 {
		return errors.New("source poll-interval cannot be smaller or equal to 0")
	}

	if cfg.MaxPollAttempts <= 0 {
		return errors.New("source max-poll-attempts cannot be smaller or equal to 0")
	}

	return nil
}
