package config

import (
	"fmt"
)

// EventsConfig configures the external event fan-out over RabbitMQ.
// The fan-out is optional: with an empty URL the service only delivers
// events to in-process subscribers.
type EventsConfig struct {
	Url          string `mapstructure:"url"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	ExchangeName string `mapstructure:"exchange-name"`
}

func (cfg *EventsConfig) Enabled() bool {
	return cfg.Url != ""
}

func (cfg *EventsConfig) Validate() error {
	if !cfg.Enabled() {
		return nil
	}

	if cfg.User == "" {
		return fmt.Errorf("missing events queue user")
	}

	if cfg.Password == "" {
		return fmt.Errorf("missing events queue password")
	}

	if cfg.ExchangeName == "" {
		return fmt.Errorf("missing events exchange name")
	}

	return nil
}
