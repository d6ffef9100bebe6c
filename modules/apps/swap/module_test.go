package swap_test

import (
	"encoding/json"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap"
	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
	ibctesting "github.com/cosmos/ics20-swap/testing"
)

func (suite *SwapTestSuite) TestAppModuleGenesis() {
	appModule := swap.NewAppModule(suite.chain.Keeper)
	suite.Require().Equal(types.ModuleName, appModule.Name())

	defaultGenesis := appModule.DefaultGenesis(nil)
	suite.Require().NoError(appModule.ValidateGenesis(nil, nil, defaultGenesis))
	suite.Require().Error(appModule.ValidateGenesis(nil, nil, json.RawMessage(`{"port_id":1}`)))
	suite.Require().Error(appModule.ValidateGenesis(nil, nil, json.RawMessage(`{"port_id":"(invalid)"}`)))

	sender := ibctesting.AccAddress("sender")
	suite.chain.Fund(sender, sdk.NewInt64Coin("uatom", 1000))
	suite.chain.Transfer(sender, "osmo1remoteaccountaddress", sdk.NewInt64Coin("uatom", 100), nil)
	ack := suite.module.OnRecvPacket(suite.chain.Ctx, types.V1, suite.recvPacket("uosmo"), nil)
	suite.Require().True(ack.Success())

	exported := appModule.ExportGenesis(suite.chain.Ctx, nil)
	suite.Require().NoError(appModule.ValidateGenesis(nil, nil, exported))

	chain := ibctesting.NewChain(suite.T())
	imported := swap.NewAppModule(chain.Keeper)
	imported.InitGenesis(chain.Ctx, nil, exported)

	suite.Require().JSONEq(string(exported), string(imported.ExportGenesis(chain.Ctx, nil)))
	suite.Require().Equal("100", chain.Keeper.GetEscrowBalance(chain.Ctx, ibctesting.ChannelID, "uatom").String())
	suite.Require().Equal("100", chain.Keeper.GetEscrowBalance(chain.Ctx, ibctesting.ChannelID, ibctesting.VoucherDenom("uosmo")).String())
	suite.Require().Panics(func() {
		imported.InitGenesis(chain.Ctx, nil, json.RawMessage("not json"))
	})
}

func (suite *SwapTestSuite) TestAppModuleServers() {
	appModule := swap.NewAppModule(suite.chain.Keeper)
	ctx := suite.chain.Ctx

	sender := ibctesting.AccAddress("sender")
	suite.chain.Fund(sender, sdk.NewInt64Coin("uatom", 1000))

	msg := types.NewMsgTransfer(
		types.PortID, ibctesting.ChannelID, sdk.NewInt64Coin("uatom", 100), sender.String(), "osmo1remoteaccountaddress",
		clienttypes.ZeroHeight(), uint64(ctx.BlockTime().Add(time.Hour).UnixNano()), "", nil,
	)
	res, err := appModule.MsgServer().Transfer(ctx, msg)
	suite.Require().NoError(err)
	suite.Require().NotZero(res.Sequence)

	escrow, err := appModule.QueryServer().EscrowBalance(ctx, &types.QueryEscrowBalanceRequest{ChannelID: ibctesting.ChannelID, Denom: "uatom"})
	suite.Require().NoError(err)
	suite.Require().Equal("100", escrow.Escrow.Outstanding.String())
	suite.Require().Equal("100", escrow.Escrow.TotalSent.String())
}
