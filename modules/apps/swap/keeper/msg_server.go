package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

var _ types.MsgServer = (*Keeper)(nil)

// Transfer defines an rpc handler method for MsgTransfer.
func (k Keeper) Transfer(goCtx context.Context, msg *types.MsgTransfer) (*types.MsgTransferResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	if !k.GetParams(ctx).SendEnabled {
		return nil, types.ErrSendDisabled
	}

	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, err
	}

	sequence, err := k.sendTransfer(
		ctx, msg.SourcePort, msg.SourceChannel, msg.Token, sender, msg.Receiver, msg.TimeoutHeight, msg.TimeoutTimestamp,
		msg.Memo, msg.Action,
	)
	if err != nil {
		return nil, err
	}

	k.Logger(ctx).Info("IBC fungible token transfer", "token", msg.Token.Denom, "amount", msg.Token.Amount.String(), "sender", msg.Sender, "receiver", msg.Receiver, "sequence", sequence)

	return &types.MsgTransferResponse{Sequence: sequence}, nil
}

// WithdrawLockup defines an rpc handler method for MsgWithdrawLockup.
func (k Keeper) WithdrawLockup(goCtx context.Context, msg *types.MsgWithdrawLockup) (*types.MsgWithdrawLockupResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, err
	}

	withdrawn, err := k.Withdraw(ctx, owner, msg.PositionID, ctx.BlockTime())
	if err != nil {
		return nil, err
	}

	k.Logger(ctx).Info("lockup position withdrawn", "owner", msg.Owner, "position", msg.PositionID, "amount", withdrawn.String())

	return &types.MsgWithdrawLockupResponse{Amount: withdrawn}, nil
}

// DepositLockup defines an rpc handler method for MsgDepositLockup.
func (k Keeper) DepositLockup(goCtx context.Context, msg *types.MsgDepositLockup) (*types.MsgDepositLockupResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, err
	}

	if err := k.Deposit(ctx, owner, msg.PositionID, msg.Amount); err != nil {
		return nil, err
	}

	return &types.MsgDepositLockupResponse{}, nil
}

// UpdateParams defines an rpc handler method for MsgUpdateParams. Updates the swap module's parameters.
func (k Keeper) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if k.GetAuthority() != msg.Signer {
		return nil, errorsmod.Wrapf(ibcerrors.ErrUnauthorized, "expected %s, got %s", k.GetAuthority(), msg.Signer)
	}

	if err := msg.Params.Validate(); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	k.SetParams(ctx, msg.Params)

	return &types.MsgUpdateParamsResponse{}, nil
}
