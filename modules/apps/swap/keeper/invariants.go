package keeper

import (
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// RegisterInvariants registers all swap invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "channel-escrow",
		ChannelEscrowInvariant(k))
	ir.RegisterRoute(types.ModuleName, "lockup-pool",
		LockupPoolInvariant(k))
}

// AllInvariants runs all invariants of the swap module.
func AllInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ChannelEscrowInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return LockupPoolInvariant(k)(ctx)
	}
}

// ChannelEscrowInvariant checks that every escrow account holds at least the outstanding
// balance recorded for its channel. Entries mirroring vouchers minted over the channel are
// not backed by the escrow account and are skipped.
func ChannelEscrowInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		portID := k.GetPort(ctx)

		escrows, err := k.GetAllChannelEscrows(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "channel escrow invariance", err.Error()), true
		}

		var broken []string
		for _, escrow := range escrows {
			if k.isMirroredVoucher(ctx, portID, escrow) {
				continue
			}

			escrowAddress := types.GetEscrowAddress(portID, escrow.ChannelID)
			balance := k.bankKeeper.GetBalance(ctx, escrowAddress, escrow.Denom)
			if balance.Amount.LT(escrow.Outstanding) {
				broken = append(broken, fmt.Sprintf("channel %s denom %s: escrowed %s, recorded %s", escrow.ChannelID, escrow.Denom, balance.Amount, escrow.Outstanding))
			}
		}

		if len(broken) > 0 {
			return sdk.FormatInvariant(
				types.ModuleName,
				"channel escrow invariance",
				fmt.Sprintf("found escrow account(s) holding less than the recorded outstanding balance:\n%s", strings.Join(broken, "\n"))), true
		}

		return "", false
	}
}

// LockupPoolInvariant checks that the lockup pool holds every non-released position and that
// no owner has locked more than it was credited.
func LockupPoolInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		expected := sdk.NewCoins()
		var broken []string

		err := k.Locked.Walk(ctx, nil, func(key collections.Pair[string, string], locked sdkmath.Int) (bool, error) {
			expected = expected.Add(sdk.NewCoin(key.K2(), locked))
			if credited := k.getInt(ctx, k.Credited, key); locked.GT(credited) {
				broken = append(broken, fmt.Sprintf("owner %s denom %s: locked %s, credited %s", key.K1(), key.K2(), locked, credited))
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "lockup pool invariance", err.Error()), true
		}

		pool := k.authKeeper.GetModuleAddress(types.LockupPoolName)
		for _, coin := range expected {
			if balance := k.bankKeeper.GetBalance(ctx, pool, coin.Denom); balance.Amount.LT(coin.Amount) {
				broken = append(broken, fmt.Sprintf("pool holds %s, positions hold %s", balance, coin))
			}
		}

		if len(broken) > 0 {
			return sdk.FormatInvariant(
				types.ModuleName,
				"lockup pool invariance",
				strings.Join(broken, "\n")), true
		}

		return "", false
	}
}

func (k Keeper) isMirroredVoucher(ctx sdk.Context, portID string, escrow types.ChannelEscrow) bool {
	if !strings.HasPrefix(escrow.Denom, types.DenomPrefix+"/") {
		return false
	}

	hash, err := types.ParseHexHash(strings.TrimPrefix(escrow.Denom, types.DenomPrefix+"/"))
	if err != nil {
		return false
	}

	trace, found := k.GetDenomTrace(ctx, hash)
	if !found {
		return false
	}

	port, channel, ok := trace.FirstHop()
	return ok && port == portID && channel == escrow.ChannelID
}
