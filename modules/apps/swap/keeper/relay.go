package keeper

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"

	"github.com/cosmos/ics20-swap/modules/apps/swap/internal/events"
	"github.com/cosmos/ics20-swap/modules/apps/swap/internal/telemetry"
	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// sendTransfer handles transfer sending logic. There are 2 possible cases:
//
// 1. Sender chain is acting as the source zone. The coins are transferred
// to an escrow address (i.e locked) on the sender chain and then transferred
// to the receiving chain through IBC TAO logic. It is expected that the
// receiving chain will mint vouchers to the receiving address.
//
// 2. Sender chain is acting as the sink zone. The coins (vouchers) are burned
// on the sender chain and then transferred to the receiving chain through IBC
// TAO logic. It is expected that the receiving chain, which had previously
// sent the original denomination, will unescrow the fungible token and send
// it to the receiving address.
//
// In both cases the (channel, denom) escrow ledger is updated and a pending transfer is
// recorded under the packet sequence so that the acknowledgement or timeout can finalize or
// reverse exactly this mutation.
//
// Note: An IBC Transfer must be initiated using a MsgTransfer via the Transfer rpc handler.
func (k Keeper) sendTransfer(
	ctx sdk.Context,
	sourcePort,
	sourceChannel string,
	token sdk.Coin,
	sender sdk.AccAddress,
	receiver string,
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	memo string,
	action *types.PacketAction,
) (uint64, error) {
	if !k.GetParams(ctx).SendEnabled {
		return 0, types.ErrSendDisabled
	}

	if k.bankKeeper.BlockedAddr(sender) {
		return 0, errorsmod.Wrapf(ibcerrors.ErrUnauthorized, "%s is not allowed to send funds", sender)
	}

	channel, found := k.channelKeeper.GetChannel(ctx, sourcePort, sourceChannel)
	if !found {
		return 0, errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port ID (%s) channel ID (%s)", sourcePort, sourceChannel)
	}

	if !token.Amount.IsPositive() {
		return 0, errorsmod.Wrapf(types.ErrInvalidAmount, "amount must be strictly positive: got %s", token.Amount)
	}

	if spendable := k.bankKeeper.SpendableCoin(ctx, sender, token.Denom); spendable.Amount.LT(token.Amount) {
		return 0, errorsmod.Wrapf(types.ErrInsufficientFunds, "%s is smaller than %s", spendable, token)
	}

	// deconstruct the token denomination into the denomination trace info
	// to determine if the sender is the source chain
	fullDenomPath, err := k.fullDenomPath(ctx, token.Denom)
	if err != nil {
		return 0, err
	}

	var path types.SendPath
	if types.SenderChainIsSource(sourcePort, sourceChannel, fullDenomPath) {
		path = types.SendPathEscrow

		escrowAddress := types.GetEscrowAddress(sourcePort, sourceChannel)
		if err := k.escrowToken(ctx, sender, escrowAddress, sourceChannel, token); err != nil {
			return 0, err
		}
	} else {
		path = types.SendPathBurn

		// the voucher is redeemed: it leaves the ledger before it leaves the bank so an
		// inconsistent ledger aborts the send
		if err := k.decreaseEscrow(ctx, sourceChannel, token.Denom, token.Amount); err != nil {
			return 0, err
		}

		// transfer the coins to the module account and burn them
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, sdk.NewCoins(token)); err != nil {
			return 0, err
		}

		if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, sdk.NewCoins(token)); err != nil {
			// NOTE: should not happen as the module account was
			// retrieved on the step above and it has enough balance
			// to burn.
			panic(fmt.Errorf("cannot burn coins after a successful send to a module account: %v", err))
		}
	}

	if err := k.recordSent(ctx, sourceChannel, token.Denom, token.Amount); err != nil {
		return 0, err
	}

	packetData := types.NewFungibleTokenPacketData(fullDenomPath, token.Amount.String(), sender.String(), receiver, memo, action)
	if err := packetData.ValidateBasic(); err != nil {
		return 0, errorsmod.Wrapf(err, "failed to validate %s packet data", types.V1)
	}

	sequence, err := k.ics4Wrapper.SendPacket(ctx, sourcePort, sourceChannel, timeoutHeight, timeoutTimestamp, packetData.GetBytes())
	if err != nil {
		return 0, err
	}

	pending := types.PendingTransfer{
		ChannelID:  sourceChannel,
		Sequence:   sequence,
		Path:       path,
		LocalDenom: token.Denom,
		Denom:      packetData.Denom,
		Amount:     packetData.Amount,
		Sender:     packetData.Sender,
		Receiver:   packetData.Receiver,
		Memo:       packetData.Memo,
		Action:     packetData.Action,
		CreatedAt:  ctx.BlockTime(),
	}
	if err := k.SetPendingTransfer(ctx, pending); err != nil {
		return 0, err
	}

	events.EmitTransferEvent(ctx, sender.String(), receiver, token, memo)

	telemetry.ReportTransfer(sourcePort, sourceChannel, channel.Counterparty.PortId, channel.Counterparty.ChannelId, fullDenomPath, token.Amount)

	return sequence, nil
}

// OnRecvPacket processes a cross chain fungible token transfer.
//
// If the sender chain is the source of minted tokens then vouchers will be minted
// and sent to the receiving address. Otherwise if the sender chain is sending
// back tokens this chain originally transferred to it, the tokens are
// unescrowed and sent to the receiving address.
//
// Once the tokens are credited the optional packet action is executed. Action failures never
// fail the receive: the receiver keeps the credited tokens and the returned result reports the
// downgrade. A returned error is turned into an error acknowledgement by the caller, which must
// discard every state change made here.
func (k Keeper) OnRecvPacket(ctx sdk.Context, packet channeltypes.Packet, data types.FungibleTokenPacketData) (*types.ActionResult, error) {
	if !k.GetParams(ctx).ReceiveEnabled {
		return nil, types.ErrReceiveDisabled
	}

	// decode the receiver address
	receiver, err := sdk.AccAddressFromBech32(data.Receiver)
	if err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "failed to decode receiver address %s: %v", data.Receiver, err)
	}

	if k.bankKeeper.BlockedAddr(receiver) {
		return nil, errorsmod.Wrapf(ibcerrors.ErrUnauthorized, "%s is not allowed to receive funds", receiver)
	}

	amount := data.GetAmount()

	var credited sdk.Coin
	if types.ReceiverChainIsSource(packet.SourcePort, packet.SourceChannel, data.Denom) {
		credited, err = k.receiveReturningToken(ctx, packet, data.Denom, amount, receiver)
	} else {
		credited, err = k.receiveVoucher(ctx, packet, data.Denom, amount, receiver)
	}
	if err != nil {
		return nil, err
	}

	if err := k.credit(ctx, receiver, credited); err != nil {
		return nil, err
	}

	if data.Action == nil {
		return nil, nil
	}

	return k.executeAction(ctx, packet, data, receiver, credited), nil
}

// receiveReturningToken releases a token this chain originally sent over the packet's
// destination channel.
func (k Keeper) receiveReturningToken(ctx sdk.Context, packet channeltypes.Packet, denom string, amount sdkmath.Int, receiver sdk.AccAddress) (sdk.Coin, error) {
	// sender chain is not the source, unescrow tokens

	// remove prefix added by sender chain
	voucherPrefix := types.GetDenomPrefix(packet.SourcePort, packet.SourceChannel)
	unprefixedDenom := strings.TrimPrefix(denom, voucherPrefix)

	// coin denomination used in sending from the escrow address
	denomTrace := types.ParseDenomTrace(unprefixedDenom)
	token := sdk.Coin{Denom: denomTrace.IBCDenom(), Amount: amount}
	if err := token.Validate(); err != nil {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidDenomForTransfer, "invalid returning token %s: %s", unprefixedDenom, err)
	}

	escrowAddress := types.GetEscrowAddress(packet.DestinationPort, packet.DestinationChannel)
	if err := k.unescrowToken(ctx, escrowAddress, receiver, packet.DestinationChannel, token); err != nil {
		return sdk.Coin{}, err
	}

	return token, nil
}

// receiveVoucher mints a voucher for a token arriving from its source chain or passing
// through it.
func (k Keeper) receiveVoucher(ctx sdk.Context, packet channeltypes.Packet, denom string, amount sdkmath.Int, receiver sdk.AccAddress) (sdk.Coin, error) {
	// sender chain is the source, mint vouchers

	// since SendPacket did not prefix the denomination, we must prefix denomination here
	prefixedDenom := types.GetPrefixedDenom(packet.DestinationPort, packet.DestinationChannel, denom)

	// construct the denomination trace from the full raw denomination
	denomTrace := types.ParseDenomTrace(prefixedDenom)
	if err := denomTrace.Validate(); err != nil {
		return sdk.Coin{}, errorsmod.Wrap(types.ErrInvalidDenomForTransfer, err.Error())
	}

	traceHash := denomTrace.Hash()
	if !k.HasDenomTrace(ctx, traceHash) {
		k.SetDenomTrace(ctx, denomTrace)
		events.EmitDenomEvent(ctx, denomTrace)
	}

	voucherDenom := denomTrace.IBCDenom()
	if !k.bankKeeper.HasDenomMetaData(ctx, voucherDenom) {
		k.setDenomMetadata(ctx, denomTrace)
	}

	voucher := sdk.NewCoin(voucherDenom, amount)

	// mint new tokens if the source of the transfer is the same chain
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, sdk.NewCoins(voucher)); err != nil {
		return sdk.Coin{}, errorsmod.Wrap(err, "failed to mint IBC tokens")
	}

	// send to receiver
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiver, sdk.NewCoins(voucher)); err != nil {
		return sdk.Coin{}, errorsmod.Wrapf(err, "failed to send coins to receiver %s", receiver.String())
	}

	// the voucher supply outstanding over this channel is mirrored in the ledger so that
	// redeeming it later decreases the same entry
	if err := k.increaseEscrow(ctx, packet.DestinationChannel, voucherDenom, amount); err != nil {
		return sdk.Coin{}, err
	}

	return voucher, nil
}

// OnAcknowledgementPacket responds to the success or failure of a packet
// acknowledgement written on the receiving chain. If the acknowledgement
// was a success then nothing occurs. If the acknowledgement failed, then
// the sender is refunded their tokens. In both cases the pending transfer is consumed; a
// missing or mismatched pending transfer is returned as an error.
func (k Keeper) OnAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, data types.FungibleTokenPacketData, ack channeltypes.Acknowledgement) error {
	pending, err := k.consumePendingTransfer(ctx, packet.SourceChannel, packet.Sequence, data)
	if err != nil {
		return err
	}

	switch ack.Response.(type) {
	case *channeltypes.Acknowledgement_Result:
		// the acknowledgement succeeded on the receiving chain so nothing
		// needs to be executed and no error needs to be returned
		return nil
	case *channeltypes.Acknowledgement_Error:
		if err := k.refundPacketToken(ctx, packet.SourcePort, pending); err != nil {
			return err
		}
		telemetry.ReportRefund(packet.SourcePort, packet.SourceChannel, "acknowledgement_error")
		return nil
	default:
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "expected one of [%T, %T], got %T", channeltypes.Acknowledgement_Result{}, channeltypes.Acknowledgement_Error{}, ack.Response)
	}
}

// OnTimeoutPacket processes a transfer packet timeout by refunding the tokens to the sender.
func (k Keeper) OnTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet, data types.FungibleTokenPacketData) error {
	pending, err := k.consumePendingTransfer(ctx, packet.SourceChannel, packet.Sequence, data)
	if err != nil {
		return err
	}

	if err := k.refundPacketToken(ctx, packet.SourcePort, pending); err != nil {
		return err
	}

	telemetry.ReportRefund(packet.SourcePort, packet.SourceChannel, "timeout")
	return nil
}

// refundPacketToken reverses the ledger and bank mutation performed when the pending transfer
// was sent. The escrow path unescrows to the sender, the burn path re-mints the voucher.
func (k Keeper) refundPacketToken(ctx sdk.Context, sourcePort string, pending types.PendingTransfer) error {
	sender, err := sdk.AccAddressFromBech32(pending.Sender)
	if err != nil {
		return err
	}

	token := sdk.NewCoin(pending.LocalDenom, pending.GetAmount())

	switch pending.Path {
	case types.SendPathEscrow:
		escrowAddress := types.GetEscrowAddress(sourcePort, pending.ChannelID)
		return k.unescrowToken(ctx, escrowAddress, sender, pending.ChannelID, token)
	case types.SendPathBurn:
		if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, sdk.NewCoins(token)); err != nil {
			return err
		}

		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, sdk.NewCoins(token)); err != nil {
			panic(fmt.Errorf("unable to send coins from module to account despite previously minting coins to module account: %v", err))
		}

		return k.increaseEscrow(ctx, pending.ChannelID, pending.LocalDenom, token.Amount)
	default:
		return errorsmod.Wrapf(types.ErrPendingTransferMismatch, "unknown send path %q", pending.Path)
	}
}
