package keeper

import (
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/internal/events"
	"github.com/cosmos/ics20-swap/modules/apps/swap/internal/telemetry"
	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// executeAction runs the packet action against the tokens credited to receiver. Every step
// runs in its own cache context and is only written when it succeeds, so a failing step
// leaves receiver with what it held before that step.
func (k Keeper) executeAction(ctx sdk.Context, packet channeltypes.Packet, data types.FungibleTokenPacketData, receiver sdk.AccAddress, credited sdk.Coin) *types.ActionResult {
	action := data.Action
	result := &types.ActionResult{
		Denom:  credited.Denom,
		Amount: credited.Amount.String(),
	}

	if action.Unlock != nil {
		result.Action = types.ActionUnlock
		result.PositionID = action.Unlock.ID

		cacheCtx, writeFn := ctx.CacheContext()
		if _, err := k.Withdraw(cacheCtx, receiver, action.Unlock.ID, ctx.BlockTime()); err != nil {
			k.downgrade(ctx, result, data.Receiver, types.ActionUnlock, err)
			return result
		}
		writeFn()
		return result
	}

	held := credited
	switch {
	case action.Swap != nil:
		result.Action = types.ActionSwap
		out, ok := k.convert(ctx, result, data.Receiver, types.ActionSwap, held, func(cacheCtx sdk.Context) (sdk.Coin, error) {
			return k.swapOnReceive(cacheCtx, receiver, credited, *action.Swap)
		})
		held = out

		if ok && action.Swap.ReturnToSender && !out.IsZero() {
			returnCtx, writeReturn := ctx.CacheContext()
			if err := k.returnToSender(returnCtx, packet, receiver, data.Sender, out); err != nil {
				k.downgrade(ctx, result, data.Receiver, types.ActionSwap, errorsmod.Wrap(err, "swap output kept by receiver"))
			} else {
				writeReturn()
				// nothing is left to lock once the output has been sent back
				return result
			}
		}

	case action.JoinPool != nil:
		result.Action = types.ActionJoinPool
		held, _ = k.convert(ctx, result, data.Receiver, types.ActionJoinPool, held, func(cacheCtx sdk.Context) (sdk.Coin, error) {
			return k.joinPoolOnReceive(cacheCtx, receiver, credited, *action.JoinPool)
		})

	case action.ExitPool != nil:
		result.Action = types.ActionExitPool
		held, _ = k.convert(ctx, result, data.Receiver, types.ActionExitPool, held, func(cacheCtx sdk.Context) (sdk.Coin, error) {
			return k.exitPoolOnReceive(cacheCtx, receiver, credited, *action.ExitPool)
		})
	}

	if action.Lock != nil {
		switch result.Action {
		case types.ActionSwap:
			result.Action = types.ActionSwapAndLock
		case types.ActionJoinPool:
			result.Action = types.ActionJoinPoolAndLock
		case types.ActionExitPool:
			result.Action = types.ActionExitPoolAndLock
		default:
			result.Action = types.ActionLock
		}

		duration, err := types.DurationFromSeconds(action.Lock.Duration)
		if err != nil {
			k.downgrade(ctx, result, data.Receiver, types.ActionLock, err)
			return result
		}

		cacheCtx, writeFn := ctx.CacheContext()
		id, err := k.Lock(cacheCtx, receiver, held, duration)
		if err != nil {
			k.downgrade(ctx, result, data.Receiver, types.ActionLock, err)
			return result
		}
		writeFn()
		result.PositionID = id
	}

	return result
}

// convert replaces the held tokens with the output of fn, run in its own cache context. When
// fn fails the action is downgraded and the held tokens are returned unchanged.
func (k Keeper) convert(ctx sdk.Context, result *types.ActionResult, receiver, action string, held sdk.Coin, fn func(sdk.Context) (sdk.Coin, error)) (sdk.Coin, bool) {
	cacheCtx, writeFn := ctx.CacheContext()
	out, err := fn(cacheCtx)
	if err != nil {
		k.downgrade(ctx, result, receiver, action, err)
		return held, false
	}
	writeFn()

	result.Denom = out.Denom
	result.Amount = out.Amount.String()
	return out, true
}

// downgrade records a failed action. The code of the first failure is reported in the
// result, its message only in the log and the downgrade event.
func (k Keeper) downgrade(ctx sdk.Context, result *types.ActionResult, receiver, action string, err error) {
	if !result.Downgraded {
		result.SetError(err)
	}

	k.Logger(ctx).Info("receive action downgraded", "action", action, "receiver", receiver, "error", err.Error())
	events.EmitActionDowngradeEvent(ctx, receiver, action, err)
	telemetry.ReportActionDowngrade(action)
}

// swapOnReceive swaps tokenIn held by receiver along the swap routes. The swap is refused when
// the expected output is below the minimum or its slippage against the pools' spot prices
// exceeds the MaxSlippage parameter.
func (k Keeper) swapOnReceive(ctx sdk.Context, receiver sdk.AccAddress, tokenIn sdk.Coin, swap types.SwapAction) (sdk.Coin, error) {
	params := k.GetParams(ctx)
	if !params.SwapEnabled || k.swapKeeper == nil {
		return sdk.Coin{}, types.ErrSwapDisabled
	}

	// a route ending in the received denom leaves nothing to swap
	outDenom := swap.TokenOutDenom()
	if outDenom == tokenIn.Denom {
		return tokenIn, nil
	}

	minOut, err := swap.MinOut()
	if err != nil {
		return sdk.Coin{}, err
	}

	estimate, err := k.swapKeeper.EstimateSwapExactAmountIn(ctx, tokenIn, swap.Routes)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrap(err, "swap estimation failed")
	}

	if estimate.LT(minOut) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrMinOutNotMet, "expected %s%s, minimum %s", estimate, outDenom, minOut)
	}

	slippage, err := k.routeSlippage(ctx, tokenIn, swap.Routes, estimate)
	if err != nil {
		return sdk.Coin{}, err
	}
	if slippage.GT(params.MaxSlippage) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrSlippageExceeded, "slippage %s exceeds %s", slippage, params.MaxSlippage)
	}

	out, err := k.swapKeeper.SwapExactAmountIn(ctx, receiver, tokenIn, swap.Routes, minOut)
	if err != nil {
		return sdk.Coin{}, err
	}
	if !out.IsPositive() || out.LT(minOut) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrMinOutNotMet, "swap returned %s%s, minimum %s", out, outDenom, minOut)
	}

	tokenOut := sdk.NewCoin(outDenom, out)
	if err := k.credit(ctx, receiver, tokenOut); err != nil {
		return sdk.Coin{}, err
	}

	if err := k.recordPrice(ctx, tokenIn, tokenOut); err != nil {
		return sdk.Coin{}, err
	}

	events.EmitSwapEvent(ctx, receiver.String(), tokenIn, tokenOut)
	telemetry.ReportSwap(tokenOut)

	return tokenOut, nil
}

// joinPoolOnReceive adds tokenIn held by receiver to the pool and credits the pool shares.
func (k Keeper) joinPoolOnReceive(ctx sdk.Context, receiver sdk.AccAddress, tokenIn sdk.Coin, join types.JoinPoolAction) (sdk.Coin, error) {
	if !k.GetParams(ctx).SwapEnabled || k.swapKeeper == nil {
		return sdk.Coin{}, types.ErrSwapDisabled
	}

	minShares, err := join.MinShares()
	if err != nil {
		return sdk.Coin{}, err
	}

	shares, err := k.swapKeeper.JoinSwapExternAmountIn(ctx, receiver, join.PoolID, tokenIn, minShares)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrapf(err, "join pool %d", join.PoolID)
	}
	if !shares.IsPositive() || shares.LT(minShares) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrMinOutNotMet, "pool %d returned %s shares, minimum %s", join.PoolID, shares, minShares)
	}

	shareOut := sdk.NewCoin(types.PoolShareDenom(join.PoolID), shares)
	if err := k.credit(ctx, receiver, shareOut); err != nil {
		return sdk.Coin{}, err
	}

	events.EmitPoolEvent(ctx, types.EventTypeJoinPool, receiver.String(), tokenIn, shareOut)
	telemetry.ReportPoolAction(types.ActionJoinPool, shareOut)

	return shareOut, nil
}

// exitPoolOnReceive redeems the pool shares held by receiver for a single token and credits it.
func (k Keeper) exitPoolOnReceive(ctx sdk.Context, receiver sdk.AccAddress, shares sdk.Coin, exit types.ExitPoolAction) (sdk.Coin, error) {
	if !k.GetParams(ctx).SwapEnabled || k.swapKeeper == nil {
		return sdk.Coin{}, types.ErrSwapDisabled
	}

	poolID, err := types.ParsePoolShareDenom(shares.Denom)
	if err != nil {
		return sdk.Coin{}, err
	}

	minOut, err := exit.MinOut()
	if err != nil {
		return sdk.Coin{}, err
	}

	out, err := k.swapKeeper.ExitSwapShareAmountIn(ctx, receiver, poolID, exit.TokenOutDenom, shares.Amount, minOut)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrapf(err, "exit pool %d", poolID)
	}
	if !out.IsPositive() || out.LT(minOut) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrMinOutNotMet, "pool %d returned %s%s, minimum %s", poolID, out, exit.TokenOutDenom, minOut)
	}

	tokenOut := sdk.NewCoin(exit.TokenOutDenom, out)
	if err := k.credit(ctx, receiver, tokenOut); err != nil {
		return sdk.Coin{}, err
	}

	events.EmitPoolEvent(ctx, types.EventTypeExitPool, receiver.String(), shares, tokenOut)
	telemetry.ReportPoolAction(types.ActionExitPool, tokenOut)

	return tokenOut, nil
}

// routeSlippage returns the relative shortfall of the estimated output against the output
// implied by the spot price of every hop.
func (k Keeper) routeSlippage(ctx sdk.Context, tokenIn sdk.Coin, routes []types.SwapRoute, estimate sdkmath.Int) (sdkmath.LegacyDec, error) {
	expected := sdkmath.LegacyNewDecFromInt(tokenIn.Amount)
	denomIn := tokenIn.Denom
	for _, route := range routes {
		price, err := k.swapKeeper.SpotPrice(ctx, route.PoolID, route.TokenOutDenom, denomIn)
		if err != nil {
			return sdkmath.LegacyDec{}, errorsmod.Wrapf(err, "spot price of pool %d", route.PoolID)
		}
		if !price.IsPositive() {
			return sdkmath.LegacyDec{}, errorsmod.Wrapf(types.ErrInvalidSwapRoute, "pool %d has no liquidity for %s", route.PoolID, denomIn)
		}
		expected = expected.Mul(price)
		denomIn = route.TokenOutDenom
	}

	if !expected.IsPositive() {
		return sdkmath.LegacyDec{}, errorsmod.Wrap(types.ErrInvalidSwapRoute, "route has no expected output")
	}

	slippage := expected.Sub(sdkmath.LegacyNewDecFromInt(estimate)).Quo(expected)
	if slippage.IsNegative() {
		return sdkmath.LegacyZeroDec(), nil
	}
	return slippage, nil
}

// returnToSender sends the swap output back over the channel the packet arrived on.
func (k Keeper) returnToSender(ctx sdk.Context, packet channeltypes.Packet, receiver sdk.AccAddress, sender string, out sdk.Coin) error {
	timeoutTimestamp := uint64(ctx.BlockTime().UnixNano()) + types.DefaultReturnTimeout()
	_, err := k.sendTransfer(ctx, packet.DestinationPort, packet.DestinationChannel, out, receiver, sender, clienttypes.ZeroHeight(), timeoutTimestamp, "", nil)
	return err
}

func (k Keeper) recordPrice(ctx sdk.Context, tokenIn, tokenOut sdk.Coin) error {
	observation := types.PriceObservation{
		DenomIn:  tokenIn.Denom,
		DenomOut: tokenOut.Denom,
		Price:    sdkmath.LegacyNewDecFromInt(tokenOut.Amount).QuoInt(tokenIn.Amount),
		Height:   ctx.BlockHeight(),
		Time:     ctx.BlockTime(),
	}
	return k.Prices.Set(ctx, collections.Join(tokenIn.Denom, tokenOut.Denom), observation)
}

// GetPriceObservation returns the latest execution price of denomIn quoted in denomOut.
func (k Keeper) GetPriceObservation(ctx sdk.Context, denomIn, denomOut string) (types.PriceObservation, bool) {
	observation, err := k.Prices.Get(ctx, collections.Join(denomIn, denomOut))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.PriceObservation{}, false
		}
		panic(err)
	}
	return observation, true
}
