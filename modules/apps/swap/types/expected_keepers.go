package types

import (
	"context"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
)

// AccountKeeper defines the contract required for account APIs.
type AccountKeeper interface {
	GetModuleAddress(name string) sdk.AccAddress
}

// BankKeeper defines the expected bank keeper
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr sdk.AccAddress, toAddr sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	BlockedAddr(addr sdk.AccAddress) bool
	HasDenomMetaData(ctx context.Context, denom string) bool
	SetDenomMetaData(ctx context.Context, denomMetaData banktypes.Metadata)
	SpendableCoin(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// ChannelKeeper defines the expected IBC channel keeper
type ChannelKeeper interface {
	GetChannel(ctx sdk.Context, srcPort, srcChan string) (channel channeltypes.Channel, found bool)
}

// ICS4Wrapper defines the subset of the IBC core packet API the module sends through.
type ICS4Wrapper interface {
	SendPacket(
		ctx sdk.Context,
		sourcePort string,
		sourceChannel string,
		timeoutHeight clienttypes.Height,
		timeoutTimestamp uint64,
		data []byte,
	) (sequence uint64, err error)
	GetAppVersion(ctx sdk.Context, portID, channelID string) (string, bool)
}

// SwapKeeper is the pool capability swaps, joins and exits on receive are executed against. Pools are
// addressed by id; a route is traversed in order.
type SwapKeeper interface {
	// EstimateSwapExactAmountIn returns the output of swapping tokenIn along routes without
	// mutating pool state.
	EstimateSwapExactAmountIn(ctx sdk.Context, tokenIn sdk.Coin, routes []SwapRoute) (sdkmath.Int, error)
	// SpotPrice returns the price of baseDenom quoted in quoteDenom for the given pool.
	SpotPrice(ctx sdk.Context, poolID uint64, quoteDenom, baseDenom string) (sdkmath.LegacyDec, error)
	// SwapExactAmountIn swaps tokenIn held by sender along routes and returns the output
	// credited to sender.
	SwapExactAmountIn(ctx sdk.Context, sender sdk.AccAddress, tokenIn sdk.Coin, routes []SwapRoute, tokenOutMinAmount sdkmath.Int) (sdkmath.Int, error)
	// JoinSwapExternAmountIn adds tokenIn held by sender to the pool and returns the amount
	// of pool shares credited to sender.
	JoinSwapExternAmountIn(ctx sdk.Context, sender sdk.AccAddress, poolID uint64, tokenIn sdk.Coin, shareOutMinAmount sdkmath.Int) (sdkmath.Int, error)
	// ExitSwapShareAmountIn redeems shareInAmount pool shares held by sender for
	// tokenOutDenom and returns the amount credited to sender.
	ExitSwapShareAmountIn(ctx sdk.Context, sender sdk.AccAddress, poolID uint64, tokenOutDenom string, shareInAmount, tokenOutMinAmount sdkmath.Int) (sdkmath.Int, error)
}
