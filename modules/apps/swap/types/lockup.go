package types

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MaxUnlockDuration is the longest unlock duration a position may request.
const MaxUnlockDuration = 10 * 365 * 24 * time.Hour

// LockupPosition is a time-locked balance owned by a single address.
type LockupPosition struct {
	Owner          string        `json:"owner"`
	ID             uint64        `json:"id"`
	Denom          string        `json:"denom"`
	Amount         sdkmath.Int   `json:"amount"`
	CreatedAt      time.Time     `json:"created_at"`
	UnlockDuration time.Duration `json:"unlock_duration"`
	Released       bool          `json:"released"`
}

// UnlockTime returns the earliest time at which the position may be withdrawn.
func (p LockupPosition) UnlockTime() time.Time {
	return p.CreatedAt.Add(p.UnlockDuration)
}

// IsUnlocked reports whether the position may be withdrawn at now.
func (p LockupPosition) IsUnlocked(now time.Time) bool {
	return !now.Before(p.UnlockTime())
}

// Coin returns the locked amount as a coin.
func (p LockupPosition) Coin() sdk.Coin {
	return sdk.NewCoin(p.Denom, p.Amount)
}

// ValidateUnlockDuration checks the requested duration lies in (0, MaxUnlockDuration].
func ValidateUnlockDuration(d time.Duration) error {
	if d <= 0 {
		return errorsmod.Wrap(ErrInvalidDuration, "unlock duration must be positive")
	}
	if d > MaxUnlockDuration {
		return errorsmod.Wrapf(ErrInvalidDuration, "unlock duration %s exceeds maximum %s", d, MaxUnlockDuration)
	}
	return nil
}

// DurationFromSeconds converts a packet lock duration into a time.Duration, rejecting values
// that do not fit.
func DurationFromSeconds(seconds uint64) (time.Duration, error) {
	if seconds > uint64(MaxUnlockDuration/time.Second) {
		return 0, errorsmod.Wrapf(ErrInvalidDuration, "unlock duration of %d seconds exceeds maximum %s", seconds, MaxUnlockDuration)
	}
	return time.Duration(seconds) * time.Second, nil
}

// Validate performs a basic validation of a position imported from genesis.
func (p LockupPosition) Validate() error {
	if _, err := sdk.AccAddressFromBech32(p.Owner); err != nil {
		return fmt.Errorf("invalid lockup owner %s: %w", p.Owner, err)
	}
	if err := sdk.ValidateDenom(p.Denom); err != nil {
		return err
	}
	if p.Amount.IsNil() || p.Amount.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidAmount, "position %d amount must not be negative", p.ID)
	}
	if p.Released && !p.Amount.IsZero() {
		return errorsmod.Wrapf(ErrInvalidAmount, "released position %d must hold zero tokens", p.ID)
	}
	return ValidateUnlockDuration(p.UnlockDuration)
}

// Credit is the amount of a denomination credited to an owner through receive processing.
type Credit struct {
	Owner  string      `json:"owner"`
	Denom  string      `json:"denom"`
	Amount sdkmath.Int `json:"amount"`
}

// PriceObservation is the execution price of the latest swap between two denominations
// performed during receive processing.
type PriceObservation struct {
	DenomIn  string            `json:"denom_in"`
	DenomOut string            `json:"denom_out"`
	Price    sdkmath.LegacyDec `json:"price"`
	Height   int64             `json:"height"`
	Time     time.Time         `json:"time"`
}
