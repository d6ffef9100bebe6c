package keeper

import (
	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// InitGenesis initializes the ics20 swap state and binds to PortID. Locked totals are derived
// from the imported positions.
func (k Keeper) InitGenesis(ctx sdk.Context, state types.GenesisState) {
	k.SetPort(ctx, state.PortID)

	for _, trace := range state.DenomTraces {
		k.SetDenomTrace(ctx, trace)
		if !k.bankKeeper.HasDenomMetaData(ctx, trace.IBCDenom()) {
			k.setDenomMetadata(ctx, trace)
		}
	}

	k.SetParams(ctx, state.Params)

	// Every (channel, denom) pair has only one entry, since any duplicate
	// entry will fail validation in Validate of GenesisState
	for _, escrow := range state.Escrows {
		if err := k.SetChannelEscrow(ctx, escrow); err != nil {
			panic(err)
		}
	}

	for _, pending := range state.PendingTransfers {
		if err := k.SetPendingTransfer(ctx, pending); err != nil {
			panic(err)
		}
	}

	for _, credit := range state.Credits {
		if err := k.Credited.Set(ctx, collections.Join(credit.Owner, credit.Denom), credit.Amount); err != nil {
			panic(err)
		}
	}

	for _, position := range state.Positions {
		if err := k.Positions.Set(ctx, collections.Join(position.Owner, position.ID), position); err != nil {
			panic(err)
		}
		if position.Released {
			continue
		}

		key := collections.Join(position.Owner, position.Denom)
		if err := k.Locked.Set(ctx, key, k.getInt(ctx, k.Locked, key).Add(position.Amount)); err != nil {
			panic(err)
		}
	}

	if err := k.PositionID.Set(ctx, state.NextPositionID); err != nil {
		panic(err)
	}
}

// ExportGenesis exports the ics20 swap module's state into its genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	escrows, err := k.GetAllChannelEscrows(ctx)
	if err != nil {
		panic(err)
	}

	pending, err := k.GetAllPendingTransfers(ctx)
	if err != nil {
		panic(err)
	}

	positions := []types.LockupPosition{}
	err = k.Positions.Walk(ctx, nil, func(_ collections.Pair[string, uint64], position types.LockupPosition) (bool, error) {
		positions = append(positions, position)
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	credits := []types.Credit{}
	err = k.Credited.Walk(ctx, nil, func(key collections.Pair[string, string], amount sdkmath.Int) (bool, error) {
		credits = append(credits, types.Credit{Owner: key.K1(), Denom: key.K2(), Amount: amount})
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	nextPositionID, err := k.PositionID.Peek(ctx)
	if err != nil {
		panic(err)
	}

	return &types.GenesisState{
		PortID:           k.GetPort(ctx),
		Params:           k.GetParams(ctx),
		DenomTraces:      k.GetAllDenomTraces(ctx),
		Escrows:          escrows,
		PendingTransfers: pending,
		Positions:        positions,
		Credits:          credits,
		NextPositionID:   nextPositionID,
	}
}
