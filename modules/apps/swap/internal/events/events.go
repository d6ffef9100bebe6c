package events

import (
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	ibcexported "github.com/cosmos/ibc-go/v10/modules/core/exported"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// EmitTransferEvent emits a ibc transfer event on successful transfers.
func EmitTransferEvent(ctx sdk.Context, sender, receiver string, token sdk.Coin, memo string) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeySender, sender),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
			sdk.NewAttribute(types.AttributeKeyDenom, token.Denom),
			sdk.NewAttribute(types.AttributeKeyAmount, token.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyMemo, memo),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})
}

// EmitOnRecvPacketEvent emits a fungible token packet event in the OnRecvPacket callback
func EmitOnRecvPacketEvent(ctx sdk.Context, packetData types.FungibleTokenPacketData, ack ibcexported.Acknowledgement, ackErr error) {
	eventAttributes := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeySender, packetData.Sender),
		sdk.NewAttribute(types.AttributeKeyReceiver, packetData.Receiver),
		sdk.NewAttribute(types.AttributeKeyDenom, packetData.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, packetData.Amount),
		sdk.NewAttribute(types.AttributeKeyMemo, packetData.Memo),
		sdk.NewAttribute(types.AttributeKeyAckSuccess, strconv.FormatBool(ack != nil && ack.Success())),
	}

	if ackErr != nil {
		eventAttributes = append(eventAttributes, sdk.NewAttribute(types.AttributeKeyAckError, ackErr.Error()))
	}

	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypePacket,
			eventAttributes...,
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})
}

// EmitOnAcknowledgementPacketEvent emits a fungible token packet event in the OnAcknowledgementPacket callback
func EmitOnAcknowledgementPacketEvent(ctx sdk.Context, packetData types.FungibleTokenPacketData, ack channeltypes.Acknowledgement) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypePacket,
			sdk.NewAttribute(sdk.AttributeKeySender, packetData.Sender),
			sdk.NewAttribute(types.AttributeKeyReceiver, packetData.Receiver),
			sdk.NewAttribute(types.AttributeKeyDenom, packetData.Denom),
			sdk.NewAttribute(types.AttributeKeyAmount, packetData.Amount),
			sdk.NewAttribute(types.AttributeKeyMemo, packetData.Memo),
			sdk.NewAttribute(types.AttributeKeyAck, ack.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})

	switch resp := ack.Response.(type) {
	case *channeltypes.Acknowledgement_Result:
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePacket,
				sdk.NewAttribute(types.AttributeKeyAckSuccess, string(resp.Result)),
			),
		)
	case *channeltypes.Acknowledgement_Error:
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePacket,
				sdk.NewAttribute(types.AttributeKeyAckError, resp.Error),
			),
		)
	}
}

// EmitOnTimeoutEvent emits a fungible token packet event in the OnTimeoutPacket callback
func EmitOnTimeoutEvent(ctx sdk.Context, packetData types.FungibleTokenPacketData) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeTimeout,
			sdk.NewAttribute(types.AttributeKeyRefundReceiver, packetData.Sender),
			sdk.NewAttribute(types.AttributeKeyRefundDenom, packetData.Denom),
			sdk.NewAttribute(types.AttributeKeyRefundAmount, packetData.Amount),
			sdk.NewAttribute(types.AttributeKeyMemo, packetData.Memo),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})
}

// EmitDenomEvent emits a denomination event in the OnRecv callback.
func EmitDenomEvent(ctx sdk.Context, trace types.DenomTrace) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDenom,
			sdk.NewAttribute(types.AttributeKeyTraceHash, trace.Hash().String()),
			sdk.NewAttribute(types.AttributeKeyDenom, trace.GetFullDenomPath()),
		),
	)
}

// EmitSwapEvent emits an event for a swap executed on receive.
func EmitSwapEvent(ctx sdk.Context, receiver string, tokenIn, tokenOut sdk.Coin) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
			sdk.NewAttribute(types.AttributeKeyTokenIn, tokenIn.String()),
			sdk.NewAttribute(types.AttributeKeyTokenOut, tokenOut.String()),
		),
	)
}

// EmitPoolEvent emits an event of eventType for a pool join or exit executed on receive.
func EmitPoolEvent(ctx sdk.Context, eventType, receiver string, tokenIn, tokenOut sdk.Coin) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
			sdk.NewAttribute(types.AttributeKeyTokenIn, tokenIn.String()),
			sdk.NewAttribute(types.AttributeKeyTokenOut, tokenOut.String()),
		),
	)
}

// EmitActionDowngradeEvent emits an event when a receive action failed and the receiver kept
// the credited tokens.
func EmitActionDowngradeEvent(ctx sdk.Context, receiver, action string, err error) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeActionDowngrade,
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
			sdk.NewAttribute(types.AttributeKeyAction, action),
			sdk.NewAttribute(types.AttributeKeyAckError, err.Error()),
		),
	)
}

// EmitLockEvent emits an event for a new lockup position.
func EmitLockEvent(ctx sdk.Context, position types.LockupPosition) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLock,
			sdk.NewAttribute(types.AttributeKeyOwner, position.Owner),
			sdk.NewAttribute(types.AttributeKeyPositionID, strconv.FormatUint(position.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyDenom, position.Denom),
			sdk.NewAttribute(types.AttributeKeyAmount, position.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyUnlockTime, position.UnlockTime().Format(time.RFC3339)),
		),
	)
}

// EmitDepositLockupEvent emits an event for a deposit into an existing position.
func EmitDepositLockupEvent(ctx sdk.Context, owner string, id uint64, deposit sdk.Coin) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDepositLockup,
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyPositionID, strconv.FormatUint(id, 10)),
			sdk.NewAttribute(types.AttributeKeyDenom, deposit.Denom),
			sdk.NewAttribute(types.AttributeKeyAmount, deposit.Amount.String()),
		),
	)
}

// EmitWithdrawLockupEvent emits an event for a released position.
func EmitWithdrawLockupEvent(ctx sdk.Context, owner string, id uint64, withdrawn sdk.Coin) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdrawLockup,
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyPositionID, strconv.FormatUint(id, 10)),
			sdk.NewAttribute(types.AttributeKeyDenom, withdrawn.Denom),
			sdk.NewAttribute(types.AttributeKeyAmount, withdrawn.Amount.String()),
		),
	)
}
