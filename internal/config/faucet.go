package config

import (
	"errors"

	"github.com/shopspring/decimal"
)

// FaucetConfig holds the amount policy applied to registered transfers.
// Each request for a destination address gets the base amount plus a
// per-request fraction so concurrent transfers toward the same address
// stay distinguishable by the arrival matcher.
type FaucetConfig struct {
	BaseAmount   string `mapstructure:"base-amount"`
	FractionStep string `mapstructure:"fraction-step"`

	baseAmount   decimal.Decimal
	fractionStep decimal.Decimal
}

func (cfg *FaucetConfig) Validate() error {
	base, err := decimal.NewFromString(cfg.BaseAmount)
	if err != nil {
		return errors.New("faucet base-amount must be a decimal number")
	}
	if base.IsNegative() || base.IsZero() {
		return errors.New("faucet base-amount must be greater than 0")
	}

	step, err := decimal.NewFromString(cfg.FractionStep)
	if err != nil {
		return errors.New("faucet fraction-step must be a decimal number")
	}
	if step.IsNegative() || step.IsZero() {
		return errors.New("faucet fraction-step must be greater than 0")
	}

	cfg.baseAmount = base
	cfg.fractionStep = step
	return nil
}

func (cfg *FaucetConfig) GetBaseAmount() decimal.Decimal {
	return cfg.baseAmount
}

func (cfg *FaucetConfig) GetFractionStep() decimal.Decimal {
	return cfg.fractionStep
}
