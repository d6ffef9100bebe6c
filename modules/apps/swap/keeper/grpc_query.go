package keeper

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"

	"github.com/cosmos/ics20-swap/internal/validate"
	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

var _ types.QueryServer = (*Keeper)(nil)

// EscrowBalance implements the Query/EscrowBalance gRPC method
func (k Keeper) EscrowBalance(goCtx context.Context, req *types.QueryEscrowBalanceRequest) (*types.QueryEscrowBalanceResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	if err := validate.ChannelRequest(req.ChannelID); err != nil {
		return nil, err
	}

	if err := validate.DenomRequest(req.Denom); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	return &types.QueryEscrowBalanceResponse{
		Escrow: k.GetChannelEscrow(ctx, req.ChannelID, req.Denom),
	}, nil
}

// Channel implements the Query/Channel gRPC method
func (k Keeper) Channel(goCtx context.Context, req *types.QueryChannelRequest) (*types.QueryChannelResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	if err := validate.GRPCRequest(req.PortID, req.ChannelID); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	if _, found := k.channelKeeper.GetChannel(ctx, req.PortID, req.ChannelID); !found {
		return nil, status.Error(
			codes.NotFound,
			errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port ID (%s) channel ID (%s)", req.PortID, req.ChannelID).Error(),
		)
	}

	escrows := []types.ChannelEscrow{}
	err := k.IterateChannelEscrows(ctx, req.ChannelID, func(escrow types.ChannelEscrow) bool {
		escrows = append(escrows, escrow)
		return false
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryChannelResponse{
		Escrows:       escrows,
		EscrowAddress: types.GetEscrowAddress(req.PortID, req.ChannelID).String(),
	}, nil
}

// PendingTransfer implements the Query/PendingTransfer gRPC method
func (k Keeper) PendingTransfer(goCtx context.Context, req *types.QueryPendingTransferRequest) (*types.QueryPendingTransferResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	if err := validate.ChannelRequest(req.ChannelID); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	pending, found := k.GetPendingTransfer(ctx, req.ChannelID, req.Sequence)
	if !found {
		return nil, status.Error(
			codes.NotFound,
			errorsmod.Wrapf(types.ErrPendingTransferNotFound, "channel %s sequence %d", req.ChannelID, req.Sequence).Error(),
		)
	}

	return &types.QueryPendingTransferResponse{
		PendingTransfer: pending,
	}, nil
}

// LockupPosition implements the Query/LockupPosition gRPC method
func (k Keeper) LockupPosition(goCtx context.Context, req *types.QueryLockupPositionRequest) (*types.QueryLockupPositionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	owner, err := validate.AddressRequest(req.Owner)
	if err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	position, found := k.GetPosition(ctx, owner, req.PositionID)
	if !found {
		return nil, status.Error(
			codes.NotFound,
			errorsmod.Wrapf(types.ErrPositionNotFound, "owner %s id %d", req.Owner, req.PositionID).Error(),
		)
	}

	return &types.QueryLockupPositionResponse{
		Position: position,
	}, nil
}

// LockupPositions implements the Query/LockupPositions gRPC method
func (k Keeper) LockupPositions(goCtx context.Context, req *types.QueryLockupPositionsRequest) (*types.QueryLockupPositionsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	owner, err := validate.AddressRequest(req.Owner)
	if err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	positions, err := k.GetOwnerPositions(ctx, owner)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	locked := sdk.NewCoins()
	for _, position := range positions {
		if !position.Released {
			locked = locked.Add(position.Coin())
		}
	}

	return &types.QueryLockupPositionsResponse{
		Positions: positions,
		Locked:    locked,
	}, nil
}

// DenomTrace implements the Query/DenomTrace gRPC method
func (k Keeper) DenomTrace(goCtx context.Context, req *types.QueryDenomTraceRequest) (*types.QueryDenomTraceResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	hash, err := types.ParseHexHash(strings.TrimPrefix(req.Hash, types.DenomPrefix+"/"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid denom trace hash: %s, error: %s", req.Hash, err))
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	denomTrace, found := k.GetDenomTrace(ctx, hash)
	if !found {
		return nil, status.Error(
			codes.NotFound,
			errorsmod.Wrap(types.ErrTraceNotFound, req.Hash).Error(),
		)
	}

	return &types.QueryDenomTraceResponse{
		DenomTrace: denomTrace,
	}, nil
}

// Params implements the Query/Params gRPC method
func (k Keeper) Params(goCtx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)
	params := k.GetParams(ctx)

	return &types.QueryParamsResponse{
		Params: params,
	}, nil
}

// PriceObservation implements the Query/PriceObservation gRPC method
func (k Keeper) PriceObservation(goCtx context.Context, req *types.QueryPriceObservationRequest) (*types.QueryPriceObservationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	if err := validate.DenomRequest(req.DenomIn, req.DenomOut); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	observation, found := k.GetPriceObservation(ctx, req.DenomIn, req.DenomOut)
	if !found {
		return nil, status.Error(
			codes.NotFound,
			errorsmod.Wrapf(types.ErrPriceNotFound, "%s/%s", req.DenomIn, req.DenomOut).Error(),
		)
	}

	return &types.QueryPriceObservationResponse{
		Observation: observation,
	}, nil
}
