package keeper

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// IncreaseEscrow is a wrapper around increaseEscrow for testing purposes.
func (k Keeper) IncreaseEscrow(ctx sdk.Context, channelID, denom string, amount sdkmath.Int) error {
	return k.increaseEscrow(ctx, channelID, denom, amount)
}

// DecreaseEscrow is a wrapper around decreaseEscrow for testing purposes.
func (k Keeper) DecreaseEscrow(ctx sdk.Context, channelID, denom string, amount sdkmath.Int) error {
	return k.decreaseEscrow(ctx, channelID, denom, amount)
}

// Credit is a wrapper around credit for testing purposes.
func (k Keeper) Credit(ctx sdk.Context, owner sdk.AccAddress, coin sdk.Coin) error {
	return k.credit(ctx, owner, coin)
}
