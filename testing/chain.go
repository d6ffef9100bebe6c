package ibctesting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	corestore "cosmossdk.io/core/store"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/keeper"
	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
	"github.com/cosmos/ics20-swap/testing/mock"
)

const (
	// ChannelID is the local end of the swap channel opened by NewChain
	ChannelID = "channel-0"
	// CounterpartyChannelID is the remote end of the swap channel opened by NewChain
	CounterpartyChannelID = "channel-1"
	// UnknownChannelID is a valid channel identifier without channel
	UnknownChannelID = "channel-9"
)

// Authority is the account allowed to update the swap parameters.
var Authority = authtypes.NewModuleAddress("gov")

// Chain is a single chain running the swap keeper against mocked bank, channel and pool
// keepers.
type Chain struct {
	TB testing.TB

	Ctx          sdk.Context
	Keeper       keeper.Keeper
	StoreService corestore.KVStoreService

	Bank     *mock.BankKeeper
	Channels *mock.ChannelKeeper
	ICS4     *mock.ICS4Wrapper
	Pools    *mock.SwapKeeper
	Logger   *mock.MockLogger

	recvSequence uint64
}

// NewChain creates a chain with an open swap channel on the transfer port.
func NewChain(tb testing.TB) *Chain {
	tb.Helper()

	key := storetypes.NewKVStoreKey(types.StoreKey)
	tkey := storetypes.NewTransientStoreKey("transient_test")
	testCtx := testutil.DefaultContextWithDB(tb, key, tkey)
	storeService := runtime.NewKVStoreService(key)

	logger := mock.NewMockLogger()
	ctx := testCtx.Ctx.
		WithBlockHeight(1).
		WithBlockTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
		WithLogger(logger)

	bank := mock.NewBankKeeper(storeService)
	channels := mock.NewChannelKeeper()
	channels.OpenChannel(types.PortID, ChannelID, types.PortID, CounterpartyChannelID)
	ics4 := mock.NewICS4Wrapper(channels)
	pools := mock.NewSwapKeeper(bank)

	k := keeper.NewKeeper(storeService, ics4, channels, mock.AccountKeeper{}, bank, pools, Authority.String())
	k.SetPort(ctx, types.PortID)
	k.SetParams(ctx, types.DefaultParams())

	return &Chain{
		TB:           tb,
		Ctx:          ctx,
		Keeper:       k,
		StoreService: storeService,
		Bank:         bank,
		Channels:     channels,
		ICS4:         ics4,
		Pools:        pools,
		Logger:       logger,
	}
}

// NextBlock advances the block height by one and the block time by d.
func (c *Chain) NextBlock(d time.Duration) {
	c.Ctx = c.Ctx.WithBlockHeight(c.Ctx.BlockHeight() + 1).WithBlockTime(c.Ctx.BlockTime().Add(d))
}

// Fund credits addr with coins outside of any transfer.
func (c *Chain) Fund(addr sdk.AccAddress, coins ...sdk.Coin) {
	c.Bank.FundAccount(c.Ctx, addr, sdk.NewCoins(coins...))
}

// Balance returns the balance of denom held by addr.
func (c *Chain) Balance(addr sdk.AccAddress, denom string) sdk.Coin {
	return c.Bank.GetBalance(c.Ctx, addr, denom)
}

// Transfer sends token from sender over the swap channel and returns the sent packet.
func (c *Chain) Transfer(sender sdk.AccAddress, receiver string, token sdk.Coin, action *types.PacketAction) channeltypes.Packet {
	c.TB.Helper()

	msg := types.NewMsgTransfer(
		types.PortID, ChannelID, token, sender.String(), receiver,
		clienttypes.ZeroHeight(), uint64(c.Ctx.BlockTime().Add(time.Hour).UnixNano()), "", action,
	)
	res, err := c.Keeper.Transfer(c.Ctx, msg)
	require.NoError(c.TB, err)

	return c.SentPacket(res.Sequence)
}

// SentPacket returns the packet sent over the swap channel with sequence.
func (c *Chain) SentPacket(sequence uint64) channeltypes.Packet {
	c.TB.Helper()

	for _, sent := range c.ICS4.Sent {
		if sent.SourceChannel == ChannelID && sent.Sequence == sequence {
			return channeltypes.NewPacket(
				sent.Data, sent.Sequence,
				sent.SourcePort, sent.SourceChannel,
				types.PortID, CounterpartyChannelID,
				sent.TimeoutHeight, sent.TimeoutTimestamp,
			)
		}
	}

	require.FailNow(c.TB, "packet not sent", "sequence %d", sequence)
	return channeltypes.Packet{}
}

// RecvPacket returns a packet carrying data sent by the counterparty over the swap channel.
func (c *Chain) RecvPacket(data types.FungibleTokenPacketData) channeltypes.Packet {
	c.recvSequence++
	return channeltypes.NewPacket(
		data.GetBytes(), c.recvSequence,
		types.PortID, CounterpartyChannelID,
		types.PortID, ChannelID,
		clienttypes.ZeroHeight(), uint64(c.Ctx.BlockTime().Add(time.Hour).UnixNano()),
	)
}
