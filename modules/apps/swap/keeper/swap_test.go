package keeper_test

import (
	"errors"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
	ibctesting "github.com/cosmos/ics20-swap/testing"
)

const poolReserve = 1_000_000

// createPool creates pool 1 trading the uosmo voucher against stake.
func (suite *KeeperTestSuite) createPool() {
	suite.chain.Pools.CreatePool(
		suite.chain.Ctx, 1,
		sdk.NewInt64Coin(ibctesting.VoucherDenom("uosmo"), poolReserve),
		sdk.NewInt64Coin(sdk.DefaultBondDenom, poolReserve),
	)
}

func swapAction(minOut string, returnToSender bool) *types.SwapAction {
	return &types.SwapAction{
		Routes:            []types.SwapRoute{{PoolID: 1, TokenOutDenom: sdk.DefaultBondDenom}},
		TokenOutMinAmount: minOut,
		ReturnToSender:    returnToSender,
	}
}

func (suite *KeeperTestSuite) hasEvent(eventType string) bool {
	for _, event := range suite.chain.Ctx.EventManager().Events() {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func (suite *KeeperTestSuite) TestSwapOnReceive() {
	ctx := suite.chain.Ctx
	suite.createPool()
	voucherDenom := ibctesting.VoucherDenom("uosmo")

	result, err := suite.recv(suite.recvData("uosmo", 1000, &types.PacketAction{Swap: swapAction("900", false)}))
	suite.Require().NoError(err)
	suite.Require().NotNil(result)

	suite.Require().Equal(types.ActionSwap, result.Action)
	suite.Require().Equal(sdk.DefaultBondDenom, result.Denom)
	suite.Require().Equal("999", result.Amount)
	suite.Require().False(result.Downgraded)
	suite.Require().Zero(result.ErrorCode)

	suite.requireAmount(999, suite.chain.Balance(suite.receiver, sdk.DefaultBondDenom).Amount)
	suite.Require().True(suite.chain.Balance(suite.receiver, voucherDenom).IsZero())
	suite.requireAmount(999, suite.chain.Keeper.GetCredited(ctx, suite.receiver, sdk.DefaultBondDenom))

	// the voucher left the receiver but remains outstanding over the channel
	suite.requireAmount(1000, suite.chain.Keeper.GetEscrowBalance(ctx, ibctesting.ChannelID, voucherDenom))

	observation, found := suite.chain.Keeper.GetPriceObservation(ctx, voucherDenom, sdk.DefaultBondDenom)
	suite.Require().True(found)
	suite.Require().True(observation.Price.Equal(sdkmath.LegacyMustNewDecFromStr("0.999")))
	suite.Require().Equal(ctx.BlockHeight(), observation.Height)

	suite.Require().True(suite.hasEvent(types.EventTypeSwap))
	suite.Require().False(suite.hasEvent(types.EventTypeActionDowngrade))
}

func (suite *KeeperTestSuite) TestSwapDowngrade() {
	var (
		amount int64
		action *types.PacketAction
	)

	testCases := []struct {
		name     string
		malleate func()
		expError *errorsmod.Error
	}{
		{
			"minimum output not met",
			func() {
				action.Swap.TokenOutMinAmount = "1000"
			},
			types.ErrMinOutNotMet,
		},
		{
			"slippage exceeds bound",
			func() {
				// 100000 in against 1000000 reserves yields 90909, about 9% below spot
				amount = 100_000
				action.Swap.TokenOutMinAmount = ""
			},
			types.ErrSlippageExceeded,
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
		{
			"pool does not exist",
			func() {
				action.Swap.Routes[0].PoolID = 2
			},
			sdkerrors.ErrNotFound,
		},
		{
			"pool swap fails",
			func() {
				suite.chain.Pools.SwapExactAmountInFn = func(sdk.Context, sdk.AccAddress, sdk.Coin, []types.SwapRoute, sdkmath.Int) (sdkmath.Int, error) {
					return sdkmath.Int{}, errors.New("pool frozen")
				}
			},
			nil,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset
			suite.createPool()

			ctx := suite.chain.Ctx
			voucherDenom := ibctesting.VoucherDenom("uosmo")
			amount = 1000
			action = &types.PacketAction{Swap: swapAction("900", false)}

			tc.malleate()

			result, err := suite.recv(suite.recvData("uosmo", amount, action))
			suite.Require().NoError(err)
			suite.Require().NotNil(result)

			suite.Require().Equal(types.ActionSwap, result.Action)
			suite.Require().True(result.Downgraded)
			suite.Require().NotZero(result.ErrorCode)
			if tc.expError != nil {
				suite.Require().True(result.IsError(tc.expError))
			} else {
				// errors without a registered code are reported as undefined
				suite.Require().Equal(errorsmod.UndefinedCodespace, result.ErrorCodespace)
			}

			// the receiver keeps the plain voucher
			suite.Require().Equal(voucherDenom, result.Denom)
			suite.Require().Equal(sdkmath.NewInt(amount).String(), result.Amount)
			suite.requireAmount(amount, suite.chain.Balance(suite.receiver, voucherDenom).Amount)
			suite.Require().True(suite.chain.Balance(suite.receiver, sdk.DefaultBondDenom).IsZero())
			suite.requireAmount(poolReserve, suite.chain.Balance(suite.chain.Pools.Pool(1).Address(), voucherDenom).Amount)

			_, found := suite.chain.Keeper.GetPriceObservation(ctx, voucherDenom, sdk.DefaultBondDenom)
			suite.Require().False(found)

			suite.Require().True(suite.hasEvent(types.EventTypeActionDowngrade))
			suite.Require().False(suite.hasEvent(types.EventTypeSwap))
			suite.Require().True(suite.chain.Logger.HasInfo("receive action downgraded"))
		})
	}
}

func (suite *KeeperTestSuite) TestSwapRouteEndingInReceivedDenom() {
	suite.createPool()
	voucherDenom := ibctesting.VoucherDenom("uosmo")

	action := &types.PacketAction{Swap: &types.SwapAction{
		Routes: []types.SwapRoute{
			{PoolID: 1, TokenOutDenom: sdk.DefaultBondDenom},
			{PoolID: 1, TokenOutDenom: voucherDenom},
		},
	}}

	result, err := suite.recv(suite.recvData("uosmo", 1000, action))
	suite.Require().NoError(err)
	suite.Require().False(result.Downgraded)
	suite.Require().Equal(voucherDenom, result.Denom)
	suite.Require().Equal("1000", result.Amount)
	suite.requireAmount(1000, suite.chain.Balance(suite.receiver, voucherDenom).Amount)
	suite.Require().False(suite.hasEvent(types.EventTypeSwap))
}

func (suite *KeeperTestSuite) TestSwapAndLock() {
	ctx := suite.chain.Ctx
	suite.createPool()

	action := &types.PacketAction{
		Swap: swapAction("900", false),
		Lock: &types.LockAction{Duration: 3600},
	}

	result, err := suite.recv(suite.recvData("uosmo", 1000, action))
	suite.Require().NoError(err)
	suite.Require().Equal(types.ActionSwapAndLock, result.Action)
	suite.Require().False(result.Downgraded)
	suite.Require().Equal(sdk.DefaultBondDenom, result.Denom)
	suite.Require().Equal("999", result.Amount)
	suite.Require().Equal(uint64(0), result.PositionID)

	position, found := suite.chain.Keeper.GetPosition(ctx, suite.receiver, 0)
	suite.Require().True(found)
	suite.Require().Equal(sdk.DefaultBondDenom, position.Denom)
	suite.requireAmount(999, position.Amount)
	suite.Require().True(ctx.BlockTime().Add(time.Hour).Equal(position.UnlockTime()))

	suite.Require().True(suite.chain.Balance(suite.receiver, sdk.DefaultBondDenom).IsZero())
	suite.requireAmount(999, suite.chain.Balance(authtypes.NewModuleAddress(types.LockupPoolName), sdk.DefaultBondDenom).Amount)
	suite.requireAmount(999, suite.chain.Keeper.GetLocked(ctx, suite.receiver, sdk.DefaultBondDenom))
}

func (suite *KeeperTestSuite) TestSwapDowngradedThenLocked() {
	ctx := suite.chain.Ctx
	suite.createPool()
	voucherDenom := ibctesting.VoucherDenom("uosmo")

	action := &types.PacketAction{
		Swap: swapAction("1000", false),
		Lock: &types.LockAction{Duration: 3600},
	}

	result, err := suite.recv(suite.recvData("uosmo", 1000, action))
	suite.Require().NoError(err)
	suite.Require().Equal(types.ActionSwapAndLock, result.Action)
	suite.Require().True(result.Downgraded)
	suite.Require().True(result.IsError(types.ErrMinOutNotMet))
	suite.Require().Equal(voucherDenom, result.Denom)

	position, found := suite.chain.Keeper.GetPosition(ctx, suite.receiver, result.PositionID)
	suite.Require().True(found)
	suite.Require().Equal(voucherDenom, position.Denom)
	suite.requireAmount(1000, position.Amount)
	suite.Require().True(suite.chain.Balance(suite.receiver, voucherDenom).IsZero())
}

func (suite *KeeperTestSuite) TestSwapReturnToSender() {
	ctx := suite.chain.Ctx
	suite.createPool()

	result, err := suite.recv(suite.recvData("uosmo", 1000, &types.PacketAction{Swap: swapAction("900", true)}))
	suite.Require().NoError(err)
	suite.Require().False(result.Downgraded)
	suite.Require().Equal(sdk.DefaultBondDenom, result.Denom)
	suite.Require().Equal("999", result.Amount)

	suite.Require().Len(suite.chain.ICS4.Sent, 1)
	sent := suite.chain.ICS4.LastSent()
	suite.Require().Equal(ibctesting.ChannelID, sent.SourceChannel)
	suite.Require().Equal(uint64(ctx.BlockTime().UnixNano())+types.DefaultReturnTimeout(), sent.TimeoutTimestamp)

	data, err := types.DecodePacketData(sent.Data)
	suite.Require().NoError(err)
	suite.Require().Equal(sdk.DefaultBondDenom, data.Denom)
	suite.Require().Equal("999", data.Amount)
	suite.Require().Equal(suite.receiver.String(), data.Sender)
	suite.Require().Equal(suite.remote, data.Receiver)
	suite.Require().Nil(data.Action)

	suite.Require().True(suite.chain.Balance(suite.receiver, sdk.DefaultBondDenom).IsZero())
	suite.requireAmount(999, suite.chain.Keeper.GetEscrowBalance(ctx, ibctesting.ChannelID, sdk.DefaultBondDenom))

	pending, found := suite.chain.Keeper.GetPendingTransfer(ctx, ibctesting.ChannelID, sent.Sequence)
	suite.Require().True(found)
	suite.Require().Equal(types.SendPathEscrow, pending.Path)
}

func (suite *KeeperTestSuite) TestSwapReturnToSenderFails() {
	ctx := suite.chain.Ctx
	suite.createPool()

	params := suite.chain.Keeper.GetParams(ctx)
	params.SendEnabled = false
	suite.chain.Keeper.SetParams(ctx, params)

	result, err := suite.recv(suite.recvData("uosmo", 1000, &types.PacketAction{Swap: swapAction("900", true)}))
	suite.Require().NoError(err)
	suite.Require().True(result.Downgraded)
	suite.Require().True(result.IsError(types.ErrSendDisabled))

	// the swap stands and its output stays with the receiver
	suite.Require().Equal(sdk.DefaultBondDenom, result.Denom)
	suite.requireAmount(999, suite.chain.Balance(suite.receiver, sdk.DefaultBondDenom).Amount)
	suite.Require().Empty(suite.chain.ICS4.Sent)
	suite.Require().True(suite.chain.Keeper.GetEscrowBalance(ctx, ibctesting.ChannelID, sdk.DefaultBondDenom).IsZero())
}
