package keeper

import (
	"errors"
	"time"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/internal/events"
	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// Lock moves coin from owner into a new lockup position releasable after duration. Only
// tokens credited to owner through receive processing can be locked.
func (k Keeper) Lock(ctx sdk.Context, owner sdk.AccAddress, coin sdk.Coin, duration time.Duration) (uint64, error) {
	if !k.GetParams(ctx).LockEnabled {
		return 0, types.ErrLockDisabled
	}

	if err := types.ValidateUnlockDuration(duration); err != nil {
		return 0, err
	}

	if !coin.IsValid() || !coin.IsPositive() {
		return 0, errorsmod.Wrapf(types.ErrInvalidAmount, "cannot lock %s", coin)
	}

	if err := k.checkAdjustment(ctx, owner); err != nil {
		return 0, err
	}

	if err := k.addLocked(ctx, owner, coin); err != nil {
		return 0, err
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, owner, types.LockupPoolName, sdk.NewCoins(coin)); err != nil {
		return 0, err
	}

	id, err := k.PositionID.Next(ctx)
	if err != nil {
		return 0, err
	}

	position := types.LockupPosition{
		Owner:          owner.String(),
		ID:             id,
		Denom:          coin.Denom,
		Amount:         coin.Amount,
		CreatedAt:      ctx.BlockTime(),
		UnlockDuration: duration,
	}
	if err := k.Positions.Set(ctx, collections.Join(position.Owner, id), position); err != nil {
		return 0, err
	}

	if err := k.markAdjusted(ctx, owner); err != nil {
		return 0, err
	}

	events.EmitLockEvent(ctx, position)

	return id, nil
}

// Deposit adds coin to an existing position that has not unlocked yet.
func (k Keeper) Deposit(ctx sdk.Context, owner sdk.AccAddress, id uint64, coin sdk.Coin) error {
	if !k.GetParams(ctx).LockEnabled {
		return types.ErrLockDisabled
	}

	position, err := k.getPosition(ctx, owner, id)
	if err != nil {
		return err
	}

	switch {
	case position.Released:
		return errorsmod.Wrapf(types.ErrAlreadyReleased, "position %d", id)
	case position.IsUnlocked(ctx.BlockTime()):
		return errorsmod.Wrapf(types.ErrPositionUnlocked, "position %d unlocked at %s", id, position.UnlockTime())
	case coin.Denom != position.Denom:
		return errorsmod.Wrapf(types.ErrInvalidAmount, "position %d holds %s, cannot deposit %s", id, position.Denom, coin.Denom)
	case !coin.IsValid() || !coin.IsPositive():
		return errorsmod.Wrapf(types.ErrInvalidAmount, "cannot deposit %s", coin)
	}

	if err := k.checkAdjustment(ctx, owner); err != nil {
		return err
	}

	if err := k.addLocked(ctx, owner, coin); err != nil {
		return err
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, owner, types.LockupPoolName, sdk.NewCoins(coin)); err != nil {
		return err
	}

	position.Amount, err = position.Amount.SafeAdd(coin.Amount)
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidAmount, err.Error())
	}

	if err := k.Positions.Set(ctx, collections.Join(position.Owner, id), position); err != nil {
		return err
	}

	if err := k.markAdjusted(ctx, owner); err != nil {
		return err
	}

	events.EmitDepositLockupEvent(ctx, position.Owner, id, coin)

	return nil
}

// Withdraw releases a position once now has reached its unlock time. The position is kept
// with a zero amount and the released flag set so that it can never be withdrawn again.
// ErrNotYetUnlocked and ErrAdjustmentRateLimited are retryable, see types.IsRetryable.
func (k Keeper) Withdraw(ctx sdk.Context, owner sdk.AccAddress, id uint64, now time.Time) (sdk.Coin, error) {
	position, err := k.getPosition(ctx, owner, id)
	if err != nil {
		return sdk.Coin{}, err
	}

	if position.Released {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrAlreadyReleased, "position %d", id)
	}

	if !position.IsUnlocked(now) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrNotYetUnlocked, "position %d unlocks at %s", id, position.UnlockTime())
	}

	if err := k.checkAdjustment(ctx, owner); err != nil {
		return sdk.Coin{}, err
	}

	withdrawn := position.Coin()
	if withdrawn.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.LockupPoolName, owner, sdk.NewCoins(withdrawn)); err != nil {
			return sdk.Coin{}, err
		}
	}

	if err := k.subLocked(ctx, owner, withdrawn); err != nil {
		return sdk.Coin{}, err
	}

	position.Released = true
	position.Amount = sdkmath.ZeroInt()
	if err := k.Positions.Set(ctx, collections.Join(position.Owner, id), position); err != nil {
		return sdk.Coin{}, err
	}

	if err := k.markAdjusted(ctx, owner); err != nil {
		return sdk.Coin{}, err
	}

	events.EmitWithdrawLockupEvent(ctx, position.Owner, id, withdrawn)

	return withdrawn, nil
}

// GetPosition returns the lockup position (owner, id).
func (k Keeper) GetPosition(ctx sdk.Context, owner sdk.AccAddress, id uint64) (types.LockupPosition, bool) {
	position, err := k.getPosition(ctx, owner, id)
	if err != nil {
		return types.LockupPosition{}, false
	}
	return position, true
}

// GetOwnerPositions returns every position of owner ordered by id.
func (k Keeper) GetOwnerPositions(ctx sdk.Context, owner sdk.AccAddress) ([]types.LockupPosition, error) {
	positions := []types.LockupPosition{}
	rng := collections.NewPrefixedPairRange[string, uint64](owner.String())
	err := k.Positions.Walk(ctx, rng, func(_ collections.Pair[string, uint64], position types.LockupPosition) (bool, error) {
		positions = append(positions, position)
		return false, nil
	})
	return positions, err
}

// GetCredited returns the amount of denom credited to owner through receive processing.
func (k Keeper) GetCredited(ctx sdk.Context, owner sdk.AccAddress, denom string) sdkmath.Int {
	return k.getInt(ctx, k.Credited, collections.Join(owner.String(), denom))
}

// GetLocked returns the amount of denom owner holds in non-released positions.
func (k Keeper) GetLocked(ctx sdk.Context, owner sdk.AccAddress, denom string) sdkmath.Int {
	return k.getInt(ctx, k.Locked, collections.Join(owner.String(), denom))
}

// credit records coin as received by owner.
func (k Keeper) credit(ctx sdk.Context, owner sdk.AccAddress, coin sdk.Coin) error {
	key := collections.Join(owner.String(), coin.Denom)
	credited, err := k.getInt(ctx, k.Credited, key).SafeAdd(coin.Amount)
	if err != nil {
		return errorsmod.Wrapf(types.ErrEscrowOverflow, "credit of %s for %s: %s", coin.Denom, owner, err)
	}
	return k.Credited.Set(ctx, key, credited)
}

func (k Keeper) addLocked(ctx sdk.Context, owner sdk.AccAddress, coin sdk.Coin) error {
	key := collections.Join(owner.String(), coin.Denom)
	locked, err := k.getInt(ctx, k.Locked, key).SafeAdd(coin.Amount)
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidAmount, err.Error())
	}

	if credited := k.getInt(ctx, k.Credited, key); locked.GT(credited) {
		return errorsmod.Wrapf(types.ErrInsufficientCredit, "locking %s would bring %s locked above %s credited", coin, locked, credited)
	}

	return k.Locked.Set(ctx, key, locked)
}

func (k Keeper) subLocked(ctx sdk.Context, owner sdk.AccAddress, coin sdk.Coin) error {
	key := collections.Join(owner.String(), coin.Denom)
	locked, err := k.getInt(ctx, k.Locked, key).SafeSub(coin.Amount)
	if err != nil || locked.IsNegative() {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "cannot release %s from locked total of %s", coin, owner)
	}
	if locked.IsZero() {
		return k.Locked.Remove(ctx, key)
	}
	return k.Locked.Set(ctx, key, locked)
}

// checkAdjustment enforces at most one position adjustment per owner per block.
func (k Keeper) checkAdjustment(ctx sdk.Context, owner sdk.AccAddress) error {
	height, err := k.LastAdjustment.Get(ctx, owner.String())
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return nil
		}
		return err
	}
	if height == ctx.BlockHeight() {
		return errorsmod.Wrapf(types.ErrAdjustmentRateLimited, "owner %s at height %d", owner, height)
	}
	return nil
}

func (k Keeper) markAdjusted(ctx sdk.Context, owner sdk.AccAddress) error {
	return k.LastAdjustment.Set(ctx, owner.String(), ctx.BlockHeight())
}

func (k Keeper) getPosition(ctx sdk.Context, owner sdk.AccAddress, id uint64) (types.LockupPosition, error) {
	position, err := k.Positions.Get(ctx, collections.Join(owner.String(), id))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.LockupPosition{}, errorsmod.Wrapf(types.ErrPositionNotFound, "owner %s id %d", owner, id)
		}
		return types.LockupPosition{}, err
	}
	return position, nil
}
