package keeper_test

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
	ibctesting "github.com/cosmos/ics20-swap/testing"
)

func (suite *KeeperTestSuite) TestQueryEscrowBalance() {
	var req *types.QueryEscrowBalanceRequest

	testCases := []struct {
		name     string
		malleate func()
		expCode  codes.Code
		expTotal int64
	}{
		{
			"success",
			func() {},
			codes.OK,
			100,
		},
		{
			"success: unknown denom has zero balance",
			func() {
				req.Denom = "ufoo"
			},
			codes.OK,
			0,
		},
		{
			"failure: empty request",
			func() {
				req = nil
			},
			codes.InvalidArgument,
			0,
		},
		{
			"failure: invalid channel identifier",
			func() {
				req.ChannelID = "channel"
			},
			codes.InvalidArgument,
			0,
		},
		{
			"failure: invalid denom",
			func() {
				req.Denom = "1x"
			},
			codes.InvalidArgument,
			0,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			suite.chain.Fund(suite.sender, sdk.NewInt64Coin("uatom", 1000))
			suite.chain.Transfer(suite.sender, suite.remote, sdk.NewInt64Coin("uatom", 100), nil)

			req = &types.QueryEscrowBalanceRequest{ChannelID: ibctesting.ChannelID, Denom: "uatom"}

			tc.malleate()

			res, err := suite.chain.Keeper.EscrowBalance(suite.chain.Ctx, req)

			suite.Require().Equal(tc.expCode, status.Code(err))
			if tc.expCode == codes.OK {
				suite.requireAmount(tc.expTotal, res.Escrow.Outstanding)
				suite.requireAmount(tc.expTotal, res.Escrow.TotalSent)
			} else {
				suite.Require().Nil(res)
			}
		})
	}
}

func (suite *KeeperTestSuite) TestQueryChannel() {
	suite.chain.Fund(suite.sender, sdk.NewInt64Coin("uatom", 1000), sdk.NewInt64Coin("stake", 1000))
	suite.chain.Transfer(suite.sender, suite.remote, sdk.NewInt64Coin("uatom", 100), nil)
	suite.chain.Transfer(suite.sender, suite.remote, sdk.NewInt64Coin("stake", 20), nil)
	_, err := suite.recv(suite.recvData("uosmo", 5, nil))
	suite.Require().NoError(err)

	res, err := suite.chain.Keeper.Channel(suite.chain.Ctx, &types.QueryChannelRequest{PortID: types.PortID, ChannelID: ibctesting.ChannelID})
	suite.Require().NoError(err)
	suite.Require().Len(res.Escrows, 3)
	suite.Require().Equal(types.GetEscrowAddress(types.PortID, ibctesting.ChannelID).String(), res.EscrowAddress)

	outstanding := make(map[string]int64)
	for _, escrow := range res.Escrows {
		suite.Require().Equal(ibctesting.ChannelID, escrow.ChannelID)
		outstanding[escrow.Denom] = escrow.Outstanding.Int64()
	}
	suite.Require().Equal(map[string]int64{
		"uatom":                          100,
		"stake":                          20,
		ibctesting.VoucherDenom("uosmo"): 5,
	}, outstanding)

	_, err = suite.chain.Keeper.Channel(suite.chain.Ctx, &types.QueryChannelRequest{PortID: types.PortID, ChannelID: ibctesting.UnknownChannelID})
	suite.Require().Equal(codes.NotFound, status.Code(err))

	_, err = suite.chain.Keeper.Channel(suite.chain.Ctx, &types.QueryChannelRequest{PortID: "", ChannelID: ibctesting.ChannelID})
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))

	_, err = suite.chain.Keeper.Channel(suite.chain.Ctx, nil)
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))
}

func (suite *KeeperTestSuite) TestQueryPendingTransfer() {
	suite.chain.Fund(suite.sender, sdk.NewInt64Coin("uatom", 1000))
	packet := suite.chain.Transfer(suite.sender, suite.remote, sdk.NewInt64Coin("uatom", 100), nil)

	res, err := suite.chain.Keeper.PendingTransfer(suite.chain.Ctx, &types.QueryPendingTransferRequest{ChannelID: ibctesting.ChannelID, Sequence: packet.Sequence})
	suite.Require().NoError(err)
	suite.Require().Equal(packet.Sequence, res.PendingTransfer.Sequence)
	suite.Require().Equal("100", res.PendingTransfer.Amount)
	suite.Require().Equal(suite.sender.String(), res.PendingTransfer.Sender)

	suite.Require().NoError(suite.chain.Keeper.OnAcknowledgementPacket(suite.chain.Ctx, packet, suite.packetData(packet), successAck))

	_, err = suite.chain.Keeper.PendingTransfer(suite.chain.Ctx, &types.QueryPendingTransferRequest{ChannelID: ibctesting.ChannelID, Sequence: packet.Sequence})
	suite.Require().Equal(codes.NotFound, status.Code(err))
}

func (suite *KeeperTestSuite) TestQueryLockupPositions() {
	suite.creditReceiver(sdk.NewInt64Coin("uatom", 1000))

	first, err := suite.chain.Keeper.Lock(suite.chain.Ctx, suite.receiver, sdk.NewInt64Coin("uatom", 100), time.Hour)
	suite.Require().NoError(err)
	suite.chain.NextBlock(time.Minute)
	second, err := suite.chain.Keeper.Lock(suite.chain.Ctx, suite.receiver, sdk.NewInt64Coin("uatom", 200), 2*time.Hour)
	suite.Require().NoError(err)

	suite.chain.NextBlock(time.Hour)
	_, err = suite.chain.Keeper.Withdraw(suite.chain.Ctx, suite.receiver, first, suite.chain.Ctx.BlockTime())
	suite.Require().NoError(err)

	res, err := suite.chain.Keeper.LockupPositions(suite.chain.Ctx, &types.QueryLockupPositionsRequest{Owner: suite.receiver.String()})
	suite.Require().NoError(err)
	suite.Require().Len(res.Positions, 2)
	suite.Require().Equal(first, res.Positions[0].ID)
	suite.Require().True(res.Positions[0].Released)
	suite.Require().Equal(second, res.Positions[1].ID)
	suite.Require().Equal(sdk.NewCoins(sdk.NewInt64Coin("uatom", 200)).String(), res.Locked.String())

	single, err := suite.chain.Keeper.LockupPosition(suite.chain.Ctx, &types.QueryLockupPositionRequest{Owner: suite.receiver.String(), PositionID: second})
	suite.Require().NoError(err)
	suite.requireAmount(200, single.Position.Amount)

	_, err = suite.chain.Keeper.LockupPosition(suite.chain.Ctx, &types.QueryLockupPositionRequest{Owner: suite.sender.String(), PositionID: second})
	suite.Require().Equal(codes.NotFound, status.Code(err))

	_, err = suite.chain.Keeper.LockupPositions(suite.chain.Ctx, &types.QueryLockupPositionsRequest{Owner: "invalid"})
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))

	empty, err := suite.chain.Keeper.LockupPositions(suite.chain.Ctx, &types.QueryLockupPositionsRequest{Owner: suite.sender.String()})
	suite.Require().NoError(err)
	suite.Require().Empty(empty.Positions)
	suite.Require().True(empty.Locked.IsZero())
}

func (suite *KeeperTestSuite) TestQueryDenomTrace() {
	var req *types.QueryDenomTraceRequest

	expTrace := types.ParseDenomTrace(types.GetPrefixedDenom(types.PortID, ibctesting.ChannelID, "uosmo"))

	testCases := []struct {
		name     string
		malleate func()
		expCode  codes.Code
	}{
		{
			"success: hex hash",
			func() {
				req.Hash = expTrace.Hash().String()
			},
			codes.OK,
		},
		{
			"success: ibc denom",
			func() {
				req.Hash = expTrace.IBCDenom()
			},
			codes.OK,
		},
		{
			"failure: invalid hash",
			func() {
				req.Hash = "!@#!@#"
			},
			codes.InvalidArgument,
		},
		{
			"failure: unknown trace",
			func() {
				req.Hash = types.ParseDenomTrace("transfer/channel-5/uosmo").Hash().String()
			},
			codes.NotFound,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			_, err := suite.recv(suite.recvData("uosmo", 1, nil))
			suite.Require().NoError(err)

			req = &types.QueryDenomTraceRequest{}

			tc.malleate()

			res, err := suite.chain.Keeper.DenomTrace(suite.chain.Ctx, req)

			suite.Require().Equal(tc.expCode, status.Code(err))
			if tc.expCode == codes.OK {
				suite.Require().Equal(expTrace, res.DenomTrace)
			}
		})
	}
}

func (suite *KeeperTestSuite) TestQueryParams() {
	res, err := suite.chain.Keeper.Params(suite.chain.Ctx, &types.QueryParamsRequest{})
	suite.Require().NoError(err)
	suite.Require().True(res.Params.SendEnabled)
	suite.Require().True(res.Params.MaxSlippage.Equal(types.DefaultMaxSlippage))
}

func (suite *KeeperTestSuite) TestQueryPriceObservation() {
	voucherDenom := ibctesting.VoucherDenom("uosmo")

	_, err := suite.chain.Keeper.PriceObservation(suite.chain.Ctx, &types.QueryPriceObservationRequest{DenomIn: voucherDenom, DenomOut: sdk.DefaultBondDenom})
	suite.Require().Equal(codes.NotFound, status.Code(err))

	suite.createPool()
	_, err = suite.recv(suite.recvData("uosmo", 1000, &types.PacketAction{Swap: swapAction("", false)}))
	suite.Require().NoError(err)

	res, err := suite.chain.Keeper.PriceObservation(suite.chain.Ctx, &types.QueryPriceObservationRequest{DenomIn: voucherDenom, DenomOut: sdk.DefaultBondDenom})
	suite.Require().NoError(err)
	suite.Require().Equal(voucherDenom, res.Observation.DenomIn)
	suite.Require().Equal(sdk.DefaultBondDenom, res.Observation.DenomOut)
	suite.Require().True(res.Observation.Price.IsPositive())

	_, err = suite.chain.Keeper.PriceObservation(suite.chain.Ctx, &types.QueryPriceObservationRequest{DenomIn: "", DenomOut: sdk.DefaultBondDenom})
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))
}
