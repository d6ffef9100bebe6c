package keeper

import (
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// SetPendingTransfer stores the outbound packet under its (channel, sequence). A second record
// for the same key is rejected.
func (k Keeper) SetPendingTransfer(ctx sdk.Context, pending types.PendingTransfer) error {
	key := collections.Join(pending.ChannelID, pending.Sequence)
	has, err := k.PendingTransfers.Has(ctx, key)
	if err != nil {
		return err
	}
	if has {
		return errorsmod.Wrapf(types.ErrPendingTransferMismatch, "pending transfer already exists for channel %s sequence %d", pending.ChannelID, pending.Sequence)
	}
	return k.PendingTransfers.Set(ctx, key, pending)
}

// GetPendingTransfer returns the pending transfer for (channel, sequence).
func (k Keeper) GetPendingTransfer(ctx sdk.Context, channelID string, sequence uint64) (types.PendingTransfer, bool) {
	pending, err := k.PendingTransfers.Get(ctx, collections.Join(channelID, sequence))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.PendingTransfer{}, false
		}
		panic(err)
	}
	return pending, true
}

// consumePendingTransfer removes and returns the pending transfer matching the packet. A
// missing record means the packet was already acknowledged or timed out, or was never sent.
func (k Keeper) consumePendingTransfer(ctx sdk.Context, channelID string, sequence uint64, data types.FungibleTokenPacketData) (types.PendingTransfer, error) {
	pending, found := k.GetPendingTransfer(ctx, channelID, sequence)
	if !found {
		return types.PendingTransfer{}, errorsmod.Wrapf(types.ErrPendingTransferNotFound, "channel %s sequence %d", channelID, sequence)
	}

	if err := pending.Matches(data); err != nil {
		return types.PendingTransfer{}, errorsmod.Wrapf(err, "channel %s sequence %d", channelID, sequence)
	}

	if err := k.PendingTransfers.Remove(ctx, collections.Join(channelID, sequence)); err != nil {
		return types.PendingTransfer{}, err
	}

	return pending, nil
}

// GetAllPendingTransfers returns every unacknowledged outbound packet.
func (k Keeper) GetAllPendingTransfers(ctx sdk.Context) ([]types.PendingTransfer, error) {
	pending := []types.PendingTransfer{}
	err := k.PendingTransfers.Walk(ctx, nil, func(_ collections.Pair[string, uint64], p types.PendingTransfer) (bool, error) {
		pending = append(pending, p)
		return false, nil
	})
	return pending, err
}
