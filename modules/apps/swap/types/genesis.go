package types

import (
	"fmt"

	host "github.com/cosmos/ibc-go/v10/modules/core/24-host"
)

// GenesisState defines the ics20 swap module's genesis state.
type GenesisState struct {
	PortID           string            `json:"port_id"`
	Params           Params            `json:"params"`
	DenomTraces      []DenomTrace      `json:"denom_traces"`
	Escrows          []ChannelEscrow   `json:"escrows"`
	PendingTransfers []PendingTransfer `json:"pending_transfers"`
	Positions        []LockupPosition  `json:"positions"`
	Credits          []Credit          `json:"credits"`
	NextPositionID   uint64            `json:"next_position_id"`
}

// NewGenesisState creates a new ics20 swap GenesisState instance.
func NewGenesisState(portID string, params Params, traces []DenomTrace, escrows []ChannelEscrow) *GenesisState {
	return &GenesisState{
		PortID:      portID,
		Params:      params,
		DenomTraces: traces,
		Escrows:     escrows,
	}
}

// DefaultGenesisState returns a GenesisState with "transfer" as the default PortID.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		PortID:           PortID,
		Params:           DefaultParams(),
		DenomTraces:      []DenomTrace{},
		Escrows:          []ChannelEscrow{},
		PendingTransfers: []PendingTransfer{},
		Positions:        []LockupPosition{},
		Credits:          []Credit{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := host.PortIdentifierValidator(gs.PortID); err != nil {
		return err
	}
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seenTraces := make(map[string]bool)
	for _, trace := range gs.DenomTraces {
		hash := trace.Hash().String()
		if seenTraces[hash] {
			return fmt.Errorf("duplicated denomination trace with hash %s", hash)
		}
		if err := trace.Validate(); err != nil {
			return fmt.Errorf("failed denom trace %s validation: %w", trace.GetFullDenomPath(), err)
		}
		seenTraces[hash] = true
	}

	seenEscrows := make(map[string]bool)
	for _, escrow := range gs.Escrows {
		key := escrow.ChannelID + "/" + escrow.Denom
		if seenEscrows[key] {
			return fmt.Errorf("duplicated escrow entry %s", key)
		}
		if err := escrow.Validate(); err != nil {
			return err
		}
		seenEscrows[key] = true
	}

	seenPending := make(map[string]bool)
	for _, pending := range gs.PendingTransfers {
		key := fmt.Sprintf("%s/%d", pending.ChannelID, pending.Sequence)
		if seenPending[key] {
			return fmt.Errorf("duplicated pending transfer %s", key)
		}
		if err := pending.Validate(); err != nil {
			return fmt.Errorf("invalid pending transfer %s: %w", key, err)
		}
		seenPending[key] = true
	}

	seenPositions := make(map[string]bool)
	for _, position := range gs.Positions {
		key := fmt.Sprintf("%s/%d", position.Owner, position.ID)
		if seenPositions[key] {
			return fmt.Errorf("duplicated lockup position %s", key)
		}
		if position.ID >= gs.NextPositionID {
			return fmt.Errorf("lockup position id %d must be lower than next position id %d", position.ID, gs.NextPositionID)
		}
		if err := position.Validate(); err != nil {
			return err
		}
		seenPositions[key] = true
	}

	for _, credit := range gs.Credits {
		if credit.Amount.IsNil() || credit.Amount.IsNegative() {
			return fmt.Errorf("credit of %s for %s must not be negative", credit.Denom, credit.Owner)
		}
	}

	return nil
}
