package keeper

import (
	"errors"
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// Keeper defines the ICS20 swap keeper
type Keeper struct {
	storeService corestore.KVStoreService

	ics4Wrapper   types.ICS4Wrapper
	channelKeeper types.ChannelKeeper
	authKeeper    types.AccountKeeper
	bankKeeper    types.BankKeeper
	swapKeeper    types.SwapKeeper

	// the address capable of executing a MsgUpdateParams message. Typically, this
	// should be the x/gov module account.
	authority string

	Schema collections.Schema
	Port   collections.Item[string]
	// ParamsStore holds the module parameters, see GetParams
	ParamsStore collections.Item[types.Params]
	// DenomTraces maps the trace hash to the voucher's origin
	DenomTraces collections.Map[string, types.DenomTrace]
	// EscrowBalances is the outstanding balance per (channel, denom)
	EscrowBalances collections.Map[collections.Pair[string, string], sdkmath.Int]
	// TotalSent counts every token sent per (channel, denom)
	TotalSent collections.Map[collections.Pair[string, string], sdkmath.Int]
	// PendingTransfers maps (channel, sequence) to an unacknowledged outbound packet
	PendingTransfers collections.Map[collections.Pair[string, uint64], types.PendingTransfer]
	// Positions maps (owner, id) to a lockup position
	Positions  collections.Map[collections.Pair[string, uint64], types.LockupPosition]
	PositionID collections.Sequence
	// Credited is the amount credited to (owner, denom) through receive processing
	Credited collections.Map[collections.Pair[string, string], sdkmath.Int]
	// Locked is the non-released amount locked by (owner, denom)
	Locked collections.Map[collections.Pair[string, string], sdkmath.Int]
	// LastAdjustment is the block height of an owner's latest position change
	LastAdjustment collections.Map[string, int64]
	// Prices maps (denom in, denom out) to the latest swap execution price
	Prices collections.Map[collections.Pair[string, string], types.PriceObservation]
}

// NewKeeper creates a new ICS20 swap Keeper instance
func NewKeeper(
	storeService corestore.KVStoreService,
	ics4Wrapper types.ICS4Wrapper,
	channelKeeper types.ChannelKeeper,
	authKeeper types.AccountKeeper,
	bankKeeper types.BankKeeper,
	swapKeeper types.SwapKeeper,
	authority string,
) Keeper {
	// ensure ibc swap module account is set
	if addr := authKeeper.GetModuleAddress(types.ModuleName); addr == nil {
		panic(errors.New("the IBC swap module account has not been set"))
	}
	if addr := authKeeper.GetModuleAddress(types.LockupPoolName); addr == nil {
		panic(errors.New("the IBC swap lockup pool account has not been set"))
	}

	if strings.TrimSpace(authority) == "" {
		panic(errors.New("authority must be non-empty"))
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		storeService:  storeService,
		ics4Wrapper:   ics4Wrapper,
		channelKeeper: channelKeeper,
		authKeeper:    authKeeper,
		bankKeeper:    bankKeeper,
		swapKeeper:    swapKeeper,
		authority:     authority,

		Port:             collections.NewItem(sb, types.PortKey, "port", collections.StringValue),
		ParamsStore:      collections.NewItem(sb, types.ParamsKey, "params", types.ParamsValue),
		DenomTraces:      collections.NewMap(sb, types.DenomTraceKey, "denom_traces", collections.StringKey, types.DenomTraceValue),
		EscrowBalances:   collections.NewMap(sb, types.EscrowBalanceKey, "escrow_balances", collections.PairKeyCodec(collections.StringKey, collections.StringKey), sdk.IntValue),
		TotalSent:        collections.NewMap(sb, types.TotalSentKey, "total_sent", collections.PairKeyCodec(collections.StringKey, collections.StringKey), sdk.IntValue),
		PendingTransfers: collections.NewMap(sb, types.PendingTransferKey, "pending_transfers", collections.PairKeyCodec(collections.StringKey, collections.Uint64Key), types.PendingTransferValue),
		Positions:        collections.NewMap(sb, types.PositionKey, "positions", collections.PairKeyCodec(collections.StringKey, collections.Uint64Key), types.LockupPositionValue),
		PositionID:       collections.NewSequence(sb, types.PositionSequenceKey, "position_id"),
		Credited:         collections.NewMap(sb, types.CreditedKey, "credited", collections.PairKeyCodec(collections.StringKey, collections.StringKey), sdk.IntValue),
		Locked:           collections.NewMap(sb, types.LockedKey, "locked", collections.PairKeyCodec(collections.StringKey, collections.StringKey), sdk.IntValue),
		LastAdjustment:   collections.NewMap(sb, types.LastAdjustmentKey, "last_adjustment", collections.StringKey, collections.Int64Value),
		Prices:           collections.NewMap(sb, types.PriceObservationKey, "prices", collections.PairKeyCodec(collections.StringKey, collections.StringKey), types.PriceObservationValue),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}

	k.Schema = schema

	return k
}

// SetICS4Wrapper sets the ICS4Wrapper. It is used after the middleware stack is created since
// the keeper needs the underlying module's SendPacket capability, creating a dependency cycle.
func (k *Keeper) SetICS4Wrapper(ics4Wrapper types.ICS4Wrapper) {
	k.ics4Wrapper = ics4Wrapper
}

// GetICS4Wrapper returns the ICS4Wrapper.
func (k Keeper) GetICS4Wrapper() types.ICS4Wrapper {
	return k.ics4Wrapper
}

// GetAuthority returns the module's authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger.
func (Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// GetPort returns the portID the swap module is bound to.
func (k Keeper) GetPort(ctx sdk.Context) string {
	port, err := k.Port.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.PortID
		}
		panic(err)
	}
	return port
}

// SetPort sets the portID for the swap module.
func (k Keeper) SetPort(ctx sdk.Context, portID string) {
	if err := k.Port.Set(ctx, portID); err != nil {
		panic(err)
	}
}

// GetParams returns the current swap module parameters.
func (k Keeper) GetParams(ctx sdk.Context) types.Params {
	params, err := k.ParamsStore.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultParams()
		}
		panic(fmt.Errorf("failed to read %s params: %w", types.ModuleName, err))
	}
	return params
}

// SetParams sets the swap module parameters.
func (k Keeper) SetParams(ctx sdk.Context, params types.Params) {
	if err := k.ParamsStore.Set(ctx, params); err != nil {
		panic(err)
	}
}
