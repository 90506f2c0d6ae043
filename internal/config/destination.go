package config

import (
	"errors"
	"net/url"
	"time"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/utils"
)

// DestinationConfig points at the destination chain's explorer read API and
// identifies the bridged-XRP ERC-20 contract whose inbound transfers are matched.
type DestinationConfig struct {
	ExplorerApiUrl  string        `mapstructure:"explorer-api-url"`
	TokenAddress    string        `mapstructure:"token-address"`
	RequestTimeout  int           `mapstructure:"request-timeout"` // milliseconds
	PollInterval    time.Duration `mapstructure:"poll-interval"`
	MaxPollAttempts int           `mapstructure:"max-poll-attempts"`
}

func (cfg *DestinationConfig) Validate() error {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxPollAttempts == 0 {
		cfg.MaxPollAttempts = defaultMaxPollAttempts
	}

	if cfg.ExplorerApiUrl == "" {
		return errors.New("destination explorer-api-url cannot be empty")
	}

	parsedURL, err := url.ParseRequestURI(cfg.ExplorerApiUrl)
	if err != nil {
		return errors.New("invalid destination explorer-api-url")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("destination explorer-api-url must start with http or https")
	}

	if !utils.IsValidEvmAddress(cfg.TokenAddress) {
		return errors.New("destination token-address must be a valid EVM address")
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New("destination request-timeout cannot be smaller or equal to 0")
	}

	if cfg.PollInterval <= 0 {
		return errors.New("destination poll-interval cannot be smaller or equal to 0")
	}

	if cfg.MaxPollAttempts <= 0 {
		return errors.New("destination max-poll-attempts cannot be smaller or equal to 0")
	}

	return nil
}
