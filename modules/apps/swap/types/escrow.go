package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	host "github.com/cosmos/ibc-go/v10/modules/core/24-host"
)

// ChannelEscrow is the escrow ledger entry for a (channel, denom) pair. Outstanding is the
// balance held on behalf of the counterparty; TotalSent counts every token ever sent.
type ChannelEscrow struct {
	ChannelID   string      `json:"channel_id"`
	Denom       string      `json:"denom"`
	Outstanding sdkmath.Int `json:"outstanding"`
	TotalSent   sdkmath.Int `json:"total_sent"`
}

// NewChannelEscrow returns a ChannelEscrow with zero values for unset amounts.
func NewChannelEscrow(channelID, denom string, outstanding, totalSent sdkmath.Int) ChannelEscrow {
	if outstanding.IsNil() {
		outstanding = sdkmath.ZeroInt()
	}
	if totalSent.IsNil() {
		totalSent = sdkmath.ZeroInt()
	}
	return ChannelEscrow{
		ChannelID:   channelID,
		Denom:       denom,
		Outstanding: outstanding,
		TotalSent:   totalSent,
	}
}

// Validate performs a basic validation of the escrow entry.
func (e ChannelEscrow) Validate() error {
	if err := host.ChannelIdentifierValidator(e.ChannelID); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(e.Denom); err != nil {
		return err
	}
	if e.Outstanding.IsNil() || e.Outstanding.IsNegative() {
		return fmt.Errorf("outstanding escrow for %s on %s must not be negative", e.Denom, e.ChannelID)
	}
	if e.TotalSent.IsNil() || e.TotalSent.IsNegative() {
		return fmt.Errorf("total sent for %s on %s must not be negative", e.Denom, e.ChannelID)
	}
	return nil
}
