package keeper_test

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
	ibctesting "github.com/cosmos/ics20-swap/testing"
	"github.com/cosmos/ics20-swap/testing/mock"
)

func (suite *KeeperTestSuite) TestJoinPoolOnReceive() {
	ctx := suite.chain.Ctx
	suite.createPool()
	voucherDenom := ibctesting.VoucherDenom("uosmo")
	shareDenom := types.PoolShareDenom(1)

	result, err := suite.recv(suite.recvData("uosmo", 1000, &types.PacketAction{
		JoinPool: &types.JoinPoolAction{PoolID: 1, ShareOutMinAmount: "49000"},
	}))
	suite.Require().NoError(err)
	suite.Require().Equal(types.ActionJoinPool, result.Action)
	suite.Require().False(result.Downgraded)
	suite.Require().Equal(shareDenom, result.Denom)
	suite.Require().Equal("49987", result.Amount)

	suite.requireAmount(49987, suite.chain.Balance(suite.receiver, shareDenom).Amount)
	suite.Require().True(suite.chain.Balance(suite.receiver, voucherDenom).IsZero())
	suite.requireAmount(poolReserve+1000, suite.chain.Balance(suite.chain.Pools.Pool(1).Address(), voucherDenom).Amount)
	suite.requireAmount(49987, suite.chain.Keeper.GetCredited(ctx, suite.receiver, shareDenom))

	// the voucher left the receiver but remains outstanding over the channel
	suite.requireAmount(1000, suite.chain.Keeper.GetEscrowBalance(ctx, ibctesting.ChannelID, voucherDenom))

	suite.Require().True(suite.hasEvent(types.EventTypeJoinPool))
	suite.Require().False(suite.hasEvent(types.EventTypeActionDowngrade))
}

func (suite *KeeperTestSuite) TestJoinPoolDowngrade() {
	var action *types.JoinPoolAction

	testCases := []struct {
		name     string
		malleate func()
		expError *errorsmod.Error
	}{
		{
			"minimum shares not met by pool",
			func() {
				action.ShareOutMinAmount = "50000"
			},
			sdkerrors.ErrInvalidRequest,
		},
		{
			"pool returns fewer shares than requested",
			func() {
				action.ShareOutMinAmount = "10"
				suite.chain.Pools.JoinSwapExternAmountInFn = func(sdk.Context, sdk.AccAddress, uint64, sdk.Coin, sdkmath.Int) (sdkmath.Int, error) {
					return sdkmath.NewInt(5), nil
				}
			},
			types.ErrMinOutNotMet,
		},
		{
			"pool does not exist",
			func() {
				action.PoolID = 2
			},
			sdkerrors.ErrNotFound,
		},
		{
			"swaps disabled",
			func() {
				params := suite.chain.Keeper.GetParams(suite.chain.Ctx)
				params.SwapEnabled = false
				suite.chain.Keeper.SetParams(suite.chain.Ctx, params)
			},
			types.ErrSwapDisabled,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset
			suite.createPool()

			voucherDenom := ibctesting.VoucherDenom("uosmo")
			action = &types.JoinPoolAction{PoolID: 1}

			tc.malleate()

			result, err := suite.recv(suite.recvData("uosmo", 1000, &types.PacketAction{JoinPool: action}))
			suite.Require().NoError(err)
			suite.Require().Equal(types.ActionJoinPool, result.Action)
			suite.Require().True(result.IsError(tc.expError))

			// the receiver keeps the plain voucher
			suite.Require().Equal(voucherDenom, result.Denom)
			suite.Require().Equal("1000", result.Amount)
			suite.requireAmount(1000, suite.chain.Balance(suite.receiver, voucherDenom).Amount)
			suite.Require().True(suite.chain.Balance(suite.receiver, types.PoolShareDenom(1)).IsZero())
			suite.requireAmount(poolReserve, suite.chain.Balance(suite.chain.Pools.Pool(1).Address(), voucherDenom).Amount)

			suite.Require().True(suite.hasEvent(types.EventTypeActionDowngrade))
			suite.Require().False(suite.hasEvent(types.EventTypeJoinPool))
		})
	}
}

func (suite *KeeperTestSuite) TestJoinPoolAndLock() {
	ctx := suite.chain.Ctx
	suite.createPool()
	shareDenom := types.PoolShareDenom(1)

	result, err := suite.recv(suite.recvData("uosmo", 1000, &types.PacketAction{
		JoinPool: &types.JoinPoolAction{PoolID: 1},
		Lock:     &types.LockAction{Duration: 3600},
	}))
	suite.Require().NoError(err)
	suite.Require().Equal(types.ActionJoinPoolAndLock, result.Action)
	suite.Require().False(result.Downgraded)
	suite.Require().Equal(uint64(0), result.PositionID)

	position, found := suite.chain.Keeper.GetPosition(ctx, suite.receiver, 0)
	suite.Require().True(found)
	suite.Require().Equal(shareDenom, position.Denom)
	suite.requireAmount(49987, position.Amount)
	suite.Require().True(ctx.BlockTime().Add(time.Hour).Equal(position.UnlockTime()))

	suite.Require().True(suite.chain.Balance(suite.receiver, shareDenom).IsZero())
	suite.requireAmount(49987, suite.chain.Keeper.GetLocked(ctx, suite.receiver, shareDenom))
}

func (suite *KeeperTestSuite) TestExitPoolOnReceive() {
	ctx := suite.chain.Ctx
	suite.createPool()
	shareDenom := types.PoolShareDenom(1)

	// shares sent to the counterparty earlier come back with an exit instruction
	suite.chain.Fund(suite.sender, sdk.NewInt64Coin(shareDenom, 10_000))
	suite.chain.Transfer(suite.sender, suite.remote, sdk.NewInt64Coin(shareDenom, 10_000), nil)

	result, err := suite.recv(suite.recvData(ibctesting.ReturningDenom(shareDenom), 10_000, &types.PacketAction{
		ExitPool: &types.ExitPoolAction{TokenOutDenom: sdk.DefaultBondDenom, TokenOutMinAmount: "150"},
	}))
	suite.Require().NoError(err)
	suite.Require().Equal(types.ActionExitPool, result.Action)
	suite.Require().False(result.Downgraded)
	suite.Require().Equal(sdk.DefaultBondDenom, result.Denom)
	suite.Require().Equal("199", result.Amount)

	suite.requireAmount(199, suite.chain.Balance(suite.receiver, sdk.DefaultBondDenom).Amount)
	suite.Require().True(suite.chain.Balance(suite.receiver, shareDenom).IsZero())
	suite.requireAmount(poolReserve-199, suite.chain.Balance(suite.chain.Pools.Pool(1).Address(), sdk.DefaultBondDenom).Amount)
	suite.requireAmount(mock.InitialShares, suite.chain.Bank.Supply(ctx, shareDenom).Amount)
	suite.requireAmount(199, suite.chain.Keeper.GetCredited(ctx, suite.receiver, sdk.DefaultBondDenom))
	suite.Require().True(suite.chain.Keeper.GetEscrowBalance(ctx, ibctesting.ChannelID, shareDenom).IsZero())

	suite.Require().True(suite.hasEvent(types.EventTypeExitPool))
}

func (suite *KeeperTestSuite) TestExitPoolDowngrade() {
	ctx := suite.chain.Ctx
	suite.createPool()
	voucherDenom := ibctesting.VoucherDenom("uosmo")

	// vouchers are not pool shares
	result, err := suite.recv(suite.recvData("uosmo", 1000, &types.PacketAction{
		ExitPool: &types.ExitPoolAction{TokenOutDenom: sdk.DefaultBondDenom},
	}))
	suite.Require().NoError(err)
	suite.Require().Equal(types.ActionExitPool, result.Action)
	suite.Require().True(result.IsError(types.ErrInvalidPoolShares))
	suite.Require().Equal(voucherDenom, result.Denom)
	suite.requireAmount(1000, suite.chain.Balance(suite.receiver, voucherDenom).Amount)

	// the minimum output is enforced by the pool
	shareDenom := types.PoolShareDenom(1)
	suite.chain.Fund(suite.sender, sdk.NewInt64Coin(shareDenom, 10_000))
	suite.chain.Transfer(suite.sender, suite.remote, sdk.NewInt64Coin(shareDenom, 10_000), nil)

	result, err = suite.recv(suite.recvData(ibctesting.ReturningDenom(shareDenom), 10_000, &types.PacketAction{
		ExitPool: &types.ExitPoolAction{TokenOutDenom: sdk.DefaultBondDenom, TokenOutMinAmount: "200"},
		Lock:     &types.LockAction{Duration: 3600},
	}))
	suite.Require().NoError(err)
	suite.Require().Equal(types.ActionExitPoolAndLock, result.Action)
	suite.Require().True(result.IsError(sdkerrors.ErrInvalidRequest))

	// the shares themselves are locked instead
	position, found := suite.chain.Keeper.GetPosition(ctx, suite.receiver, result.PositionID)
	suite.Require().True(found)
	suite.Require().Equal(shareDenom, position.Denom)
	suite.requireAmount(10_000, position.Amount)
	suite.requireAmount(poolReserve, suite.chain.Balance(suite.chain.Pools.Pool(1).Address(), sdk.DefaultBondDenom).Amount)
}
