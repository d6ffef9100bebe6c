package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
	ibctesting "github.com/cosmos/ics20-swap/testing"
)

func (suite *KeeperTestSuite) TestMsgTransfer() {
	var msg *types.MsgTransfer

	testCases := []struct {
		name     string
		malleate func()
		expError error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"success: with swap action",
			func() {
				msg.Action = &types.PacketAction{Swap: swapAction("10", false)}
			},
			nil,
		},
		{
			"failure: invalid sender",
			func() {
				msg.Sender = "invalid"
			},
			ibcerrors.ErrInvalidAddress,
		},
		{
			"failure: no timeout",
			func() {
				msg.TimeoutTimestamp = 0
			},
			types.ErrInvalidPacketTimeout,
		},
		{
			"failure: memo too long",
			func() {
				msg.Memo = ibctesting.GenerateString(types.MaximumMemoLength + 1)
			},
			types.ErrInvalidMemo,
		},
		{
			"failure: send disabled",
			func() {
				params := suite.chain.Keeper.GetParams(suite.chain.Ctx)
				params.SendEnabled = false
				suite.chain.Keeper.SetParams(suite.chain.Ctx, params)
			},
			types.ErrSendDisabled,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			suite.chain.Fund(suite.sender, sdk.NewInt64Coin("uatom", 1000))
			msg = types.NewMsgTransfer(
				types.PortID, ibctesting.ChannelID, sdk.NewInt64Coin("uatom", 100),
				suite.sender.String(), suite.remote, clienttypes.ZeroHeight(),
				uint64(suite.chain.Ctx.BlockTime().Add(time.Hour).UnixNano()), "memo", nil,
			)

			tc.malleate()

			res, err := suite.chain.Keeper.Transfer(suite.chain.Ctx, msg)

			if tc.expError == nil {
				suite.Require().NoError(err)
				suite.Require().NotNil(res)
				suite.Require().True(suite.hasEvent(types.EventTypeTransfer))
				suite.Require().True(suite.chain.Logger.HasInfo("IBC fungible token transfer"))

				data := suite.packetData(suite.chain.SentPacket(res.Sequence))
				suite.Require().Equal(msg.Memo, data.Memo)
				suite.Require().Equal(msg.Action, data.Action)
			} else {
				suite.Require().ErrorIs(err, tc.expError)
				suite.Require().Nil(res)
				suite.requireAmount(1000, suite.chain.Balance(suite.sender, "uatom").Amount)
			}
		})
	}
}

func (suite *KeeperTestSuite) TestMsgWithdrawAndDepositLockup() {
	suite.creditReceiver(sdk.NewInt64Coin("uatom", 1000))
	id, err := suite.chain.Keeper.Lock(suite.chain.Ctx, suite.receiver, sdk.NewInt64Coin("uatom", 100), time.Hour)
	suite.Require().NoError(err)

	suite.chain.NextBlock(time.Minute)

	_, err = suite.chain.Keeper.DepositLockup(suite.chain.Ctx, types.NewMsgDepositLockup(suite.receiver.String(), id, sdk.NewInt64Coin("uatom", 0)))
	suite.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = suite.chain.Keeper.DepositLockup(suite.chain.Ctx, types.NewMsgDepositLockup(suite.receiver.String(), id, sdk.NewInt64Coin("uatom", 50)))
	suite.Require().NoError(err)

	_, err = suite.chain.Keeper.WithdrawLockup(suite.chain.Ctx, types.NewMsgWithdrawLockup("invalid", id))
	suite.Require().ErrorIs(err, ibcerrors.ErrInvalidAddress)

	suite.chain.NextBlock(time.Hour)

	res, err := suite.chain.Keeper.WithdrawLockup(suite.chain.Ctx, types.NewMsgWithdrawLockup(suite.receiver.String(), id))
	suite.Require().NoError(err)
	suite.Require().Equal(sdk.NewInt64Coin("uatom", 150).String(), res.Amount.String())
	suite.requireAmount(1000, suite.chain.Balance(suite.receiver, "uatom").Amount)
	suite.Require().True(suite.chain.Logger.HasInfo("lockup position withdrawn"))
}

func (suite *KeeperTestSuite) TestUpdateParams() {
	validParams := types.DefaultParams()
	validParams.MaxSlippage = sdkmath.LegacyNewDecWithPrec(1, 2)
	validParams.LockEnabled = false

	invalidParams := types.DefaultParams()
	invalidParams.MaxSlippage = sdkmath.LegacyNewDec(2)

	testCases := []struct {
		name     string
		msg      *types.MsgUpdateParams
		expError error
	}{
		{
			"success",
			types.NewMsgUpdateParams(ibctesting.Authority.String(), validParams),
			nil,
		},
		{
			"failure: invalid signer",
			types.NewMsgUpdateParams(suite.sender.String(), validParams),
			ibcerrors.ErrUnauthorized,
		},
		{
			"failure: invalid max slippage",
			types.NewMsgUpdateParams(ibctesting.Authority.String(), invalidParams),
			types.ErrInvalidSlippageParameter,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			_, err := suite.chain.Keeper.UpdateParams(suite.chain.Ctx, tc.msg)

			params := suite.chain.Keeper.GetParams(suite.chain.Ctx)
			if tc.expError == nil {
				suite.Require().NoError(err)
				suite.Require().False(params.LockEnabled)
				suite.Require().True(params.MaxSlippage.Equal(validParams.MaxSlippage))
			} else {
				suite.Require().ErrorIs(err, tc.expError)
				suite.Require().True(params.LockEnabled)
				suite.Require().True(params.MaxSlippage.Equal(types.DefaultMaxSlippage))
			}
		})
	}
}
