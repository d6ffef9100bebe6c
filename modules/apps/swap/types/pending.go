package types

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	host "github.com/cosmos/ibc-go/v10/modules/core/24-host"
)

// SendPath records which ledger mutation a send performed so that a failure can reverse it.
type SendPath string

const (
	// SendPathEscrow moves the tokens into the channel escrow account
	SendPathEscrow SendPath = "escrow"
	// SendPathBurn burns a voucher returning to its origin chain
	SendPathBurn SendPath = "burn"
)

// PendingTransfer is an outbound packet awaiting acknowledgement or timeout.
type PendingTransfer struct {
	ChannelID string   `json:"channel_id"`
	Sequence  uint64   `json:"sequence"`
	Path      SendPath `json:"path"`
	// LocalDenom is the denomination as held in this chain's bank
	LocalDenom string `json:"local_denom"`
	// Denom is the full denomination path sent on the wire
	Denom     string        `json:"denom"`
	Amount    string        `json:"amount"`
	Sender    string        `json:"sender"`
	Receiver  string        `json:"receiver"`
	Memo      string        `json:"memo,omitempty"`
	Action    *PacketAction `json:"action,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Matches returns an error if the packet data was not the payload recorded at send time.
func (p PendingTransfer) Matches(data FungibleTokenPacketData) error {
	switch {
	case p.Denom != data.Denom:
		return errorsmod.Wrapf(ErrPendingTransferMismatch, "denom %s, expected %s", data.Denom, p.Denom)
	case !data.GetAmount().Equal(p.GetAmount()):
		return errorsmod.Wrapf(ErrPendingTransferMismatch, "amount %s, expected %s", data.Amount, p.Amount)
	case p.Sender != data.Sender:
		return errorsmod.Wrapf(ErrPendingTransferMismatch, "sender %s, expected %s", data.Sender, p.Sender)
	case p.Receiver != data.Receiver:
		return errorsmod.Wrapf(ErrPendingTransferMismatch, "receiver %s, expected %s", data.Receiver, p.Receiver)
	}
	return nil
}

// GetAmount returns the parsed amount of the pending transfer.
func (p PendingTransfer) GetAmount() sdkmath.Int {
	amount, ok := sdkmath.NewIntFromString(p.Amount)
	if !ok {
		return sdkmath.ZeroInt()
	}
	return amount
}

// PacketData returns the packet payload the pending transfer was sent with.
func (p PendingTransfer) PacketData() FungibleTokenPacketData {
	return NewFungibleTokenPacketData(p.Denom, p.Amount, p.Sender, p.Receiver, p.Memo, p.Action)
}

// Validate performs a basic validation of a pending transfer imported from genesis.
func (p PendingTransfer) Validate() error {
	if err := host.ChannelIdentifierValidator(p.ChannelID); err != nil {
		return err
	}
	if p.Path != SendPathEscrow && p.Path != SendPathBurn {
		return fmt.Errorf("invalid send path %q", p.Path)
	}
	if err := ValidateIBCDenom(p.LocalDenom); err != nil {
		return err
	}
	return p.PacketData().ValidateBasic()
}
