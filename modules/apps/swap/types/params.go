package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	yaml "gopkg.in/yaml.v2"
)

const (
	// DefaultSendEnabled enabled
	DefaultSendEnabled = true
	// DefaultReceiveEnabled enabled
	DefaultReceiveEnabled = true
	// DefaultSwapEnabled enabled
	DefaultSwapEnabled = true
	// DefaultLockEnabled enabled
	DefaultLockEnabled = true
)

// DefaultMaxSlippage is the default bound on the relative difference between the spot price
// and the execution price of a swap performed on receive (5%).
var DefaultMaxSlippage = sdkmath.LegacyNewDecWithPrec(5, 2)

// Params defines the parameters for the ics20 swap module.
type Params struct {
	SendEnabled    bool              `json:"send_enabled" yaml:"send_enabled"`
	ReceiveEnabled bool              `json:"receive_enabled" yaml:"receive_enabled"`
	SwapEnabled    bool              `json:"swap_enabled" yaml:"swap_enabled"`
	LockEnabled    bool              `json:"lock_enabled" yaml:"lock_enabled"`
	MaxSlippage    sdkmath.LegacyDec `json:"max_slippage" yaml:"max_slippage"`
}

// NewParams creates a new parameter configuration for the ics20 swap module
func NewParams(enableSend, enableReceive, enableSwap, enableLock bool, maxSlippage sdkmath.LegacyDec) Params {
	return Params{
		SendEnabled:    enableSend,
		ReceiveEnabled: enableReceive,
		SwapEnabled:    enableSwap,
		LockEnabled:    enableLock,
		MaxSlippage:    maxSlippage,
	}
}

// DefaultParams is the default parameter configuration for the ics20 swap module
func DefaultParams() Params {
	return NewParams(DefaultSendEnabled, DefaultReceiveEnabled, DefaultSwapEnabled, DefaultLockEnabled, DefaultMaxSlippage)
}

// Validate checks the max slippage lies in [0, 1].
func (p Params) Validate() error {
	if p.MaxSlippage.IsNil() {
		return errorsmod.Wrap(ErrInvalidSlippageParameter, "max slippage cannot be nil")
	}
	if p.MaxSlippage.IsNegative() || p.MaxSlippage.GT(sdkmath.LegacyOneDec()) {
		return errorsmod.Wrapf(ErrInvalidSlippageParameter, "max slippage must be between 0 and 1, got %s", p.MaxSlippage)
	}
	return nil
}

// String implements the Stringer interface.
func (p Params) String() string {
	out, _ := yaml.Marshal(struct {
		SendEnabled    bool   `yaml:"send_enabled"`
		ReceiveEnabled bool   `yaml:"receive_enabled"`
		SwapEnabled    bool   `yaml:"swap_enabled"`
		LockEnabled    bool   `yaml:"lock_enabled"`
		MaxSlippage    string `yaml:"max_slippage"`
	}{p.SendEnabled, p.ReceiveEnabled, p.SwapEnabled, p.LockEnabled, p.MaxSlippage.String()})
	return string(out)
}
