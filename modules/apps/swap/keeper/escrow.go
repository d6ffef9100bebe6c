package keeper

import (
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// GetEscrowBalance returns the outstanding escrow balance for the (channel, denom) pair. Absent
// entries read as zero.
func (k Keeper) GetEscrowBalance(ctx sdk.Context, channelID, denom string) sdkmath.Int {
	return k.getInt(ctx, k.EscrowBalances, collections.Join(channelID, denom))
}

// GetTotalSent returns the cumulative amount sent for the (channel, denom) pair.
func (k Keeper) GetTotalSent(ctx sdk.Context, channelID, denom string) sdkmath.Int {
	return k.getInt(ctx, k.TotalSent, collections.Join(channelID, denom))
}

// GetChannelEscrow returns the full ledger entry for the (channel, denom) pair.
func (k Keeper) GetChannelEscrow(ctx sdk.Context, channelID, denom string) types.ChannelEscrow {
	return types.NewChannelEscrow(channelID, denom, k.GetEscrowBalance(ctx, channelID, denom), k.GetTotalSent(ctx, channelID, denom))
}

// increaseEscrow adds amount to the outstanding balance. Overflow is a protocol violation.
func (k Keeper) increaseEscrow(ctx sdk.Context, channelID, denom string, amount sdkmath.Int) error {
	key := collections.Join(channelID, denom)
	balance, err := k.getInt(ctx, k.EscrowBalances, key).SafeAdd(amount)
	if err != nil {
		return errorsmod.Wrapf(types.ErrEscrowOverflow, "channel %s denom %s: %s", channelID, denom, err)
	}
	return k.EscrowBalances.Set(ctx, key, balance)
}

// decreaseEscrow subtracts amount from the outstanding balance. The balance never goes below
// zero: an underflow is returned as ErrEscrowUnderflow and nothing is written.
func (k Keeper) decreaseEscrow(ctx sdk.Context, channelID, denom string, amount sdkmath.Int) error {
	key := collections.Join(channelID, denom)
	current := k.getInt(ctx, k.EscrowBalances, key)
	balance, err := current.SafeSub(amount)
	if err != nil || balance.IsNegative() {
		return errorsmod.Wrapf(types.ErrEscrowUnderflow, "channel %s denom %s holds %s, cannot release %s", channelID, denom, current, amount)
	}
	if balance.IsZero() {
		return k.EscrowBalances.Remove(ctx, key)
	}
	return k.EscrowBalances.Set(ctx, key, balance)
}

func (k Keeper) recordSent(ctx sdk.Context, channelID, denom string, amount sdkmath.Int) error {
	key := collections.Join(channelID, denom)
	total, err := k.getInt(ctx, k.TotalSent, key).SafeAdd(amount)
	if err != nil {
		return errorsmod.Wrapf(types.ErrEscrowOverflow, "total sent on channel %s denom %s: %s", channelID, denom, err)
	}
	return k.TotalSent.Set(ctx, key, total)
}

// escrowToken moves coin from sender into the channel escrow account and records it in the ledger.
func (k Keeper) escrowToken(ctx sdk.Context, sender, escrowAddress sdk.AccAddress, channelID string, coin sdk.Coin) error {
	if err := k.bankKeeper.SendCoins(ctx, sender, escrowAddress, sdk.NewCoins(coin)); err != nil {
		// failure is expected for insufficient balances
		return err
	}

	return k.increaseEscrow(ctx, channelID, coin.Denom, coin.Amount)
}

// unescrowToken releases coin from the channel escrow account to receiver. The ledger is
// checked first so an underflow leaves the bank untouched.
func (k Keeper) unescrowToken(ctx sdk.Context, escrowAddress, receiver sdk.AccAddress, channelID string, coin sdk.Coin) error {
	if err := k.decreaseEscrow(ctx, channelID, coin.Denom, coin.Amount); err != nil {
		return err
	}

	if err := k.bankKeeper.SendCoins(ctx, escrowAddress, receiver, sdk.NewCoins(coin)); err != nil {
		// NOTE: this error is only expected to occur given an unexpected bug or a malicious
		// counterparty module. The bug may occur in bank or any part of the code that allows
		// the escrow address to be drained.
		return errorsmod.Wrapf(err, "unable to unescrow tokens")
	}

	return nil
}

// IterateChannelEscrows iterates over the ledger entries of a channel.
func (k Keeper) IterateChannelEscrows(ctx sdk.Context, channelID string, cb func(escrow types.ChannelEscrow) bool) error {
	seen := make(map[string]bool)
	rng := collections.NewPrefixedPairRange[string, string](channelID)

	// entries that were fully released only remain in TotalSent
	err := k.TotalSent.Walk(ctx, rng, func(key collections.Pair[string, string], total sdkmath.Int) (bool, error) {
		seen[key.K2()] = true
		return cb(types.NewChannelEscrow(channelID, key.K2(), k.GetEscrowBalance(ctx, channelID, key.K2()), total)), nil
	})
	if err != nil {
		return err
	}

	return k.EscrowBalances.Walk(ctx, rng, func(key collections.Pair[string, string], balance sdkmath.Int) (bool, error) {
		if seen[key.K2()] {
			return false, nil
		}
		return cb(types.NewChannelEscrow(channelID, key.K2(), balance, sdkmath.ZeroInt())), nil
	})
}

// GetAllChannelEscrows returns every ledger entry of every channel, one entry per
// (channel, denom) pair.
func (k Keeper) GetAllChannelEscrows(ctx sdk.Context) ([]types.ChannelEscrow, error) {
	var escrows []types.ChannelEscrow
	seen := make(map[string]bool)

	err := k.TotalSent.Walk(ctx, nil, func(key collections.Pair[string, string], total sdkmath.Int) (bool, error) {
		seen[key.K1()+"/"+key.K2()] = true
		escrows = append(escrows, types.NewChannelEscrow(key.K1(), key.K2(), k.getInt(ctx, k.EscrowBalances, key), total))
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	// mirrored vouchers and fully refunded sends only live in one of the two maps
	err = k.EscrowBalances.Walk(ctx, nil, func(key collections.Pair[string, string], balance sdkmath.Int) (bool, error) {
		if seen[key.K1()+"/"+key.K2()] {
			return false, nil
		}
		escrows = append(escrows, types.NewChannelEscrow(key.K1(), key.K2(), balance, sdkmath.ZeroInt()))
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return escrows, nil
}

// SetChannelEscrow overwrites the ledger entry. It is used by genesis import.
func (k Keeper) SetChannelEscrow(ctx sdk.Context, escrow types.ChannelEscrow) error {
	key := collections.Join(escrow.ChannelID, escrow.Denom)
	if escrow.Outstanding.IsPositive() {
		if err := k.EscrowBalances.Set(ctx, key, escrow.Outstanding); err != nil {
			return err
		}
	}
	if escrow.TotalSent.IsPositive() {
		return k.TotalSent.Set(ctx, key, escrow.TotalSent)
	}
	return nil
}

func (Keeper) getInt(ctx sdk.Context, m collections.Map[collections.Pair[string, string], sdkmath.Int], key collections.Pair[string, string]) sdkmath.Int {
	amount, err := m.Get(ctx, key)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkmath.ZeroInt()
		}
		panic(err)
	}
	return amount
}
