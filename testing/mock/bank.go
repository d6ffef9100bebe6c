package mock

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

var (
	_ types.BankKeeper    = (*BankKeeper)(nil)
	_ types.AccountKeeper = (*AccountKeeper)(nil)
)

// Store prefixes of the mock bank. They must not collide with the prefixes of the module
// sharing the store.
var (
	BalancesPrefix = collections.NewPrefix(200)
	MetadataPrefix = collections.NewPrefix(201)
)

// AccountKeeper resolves module account addresses the way x/auth derives them.
type AccountKeeper struct {
	// Missing lists module names without an account
	Missing []string
}

// GetModuleAddress returns the address of the module account name.
func (ak AccountKeeper) GetModuleAddress(name string) sdk.AccAddress {
	for _, missing := range ak.Missing {
		if missing == name {
			return nil
		}
	}
	return authtypes.NewModuleAddress(name)
}

// BankKeeper is a minimal store backed bank. Balances are written through the context so that
// cached contexts discard them together with the module state.
type BankKeeper struct {
	Balances collections.Map[collections.Pair[string, string], sdkmath.Int]
	Metadata collections.Map[string, string]

	blocked map[string]bool

	// SendCoinsFn overrides SendCoins when set
	SendCoinsFn func(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	// MintCoinsFn overrides MintCoins when set
	MintCoinsFn func(ctx context.Context, moduleName string, amt sdk.Coins) error
}

// NewBankKeeper returns an empty BankKeeper storing balances in storeService.
func NewBankKeeper(storeService corestore.KVStoreService) *BankKeeper {
	sb := collections.NewSchemaBuilder(storeService)
	bk := &BankKeeper{
		Balances: collections.NewMap(sb, BalancesPrefix, "balances", collections.PairKeyCodec(collections.StringKey, collections.StringKey), sdk.IntValue),
		Metadata: collections.NewMap(sb, MetadataPrefix, "metadata", collections.StringKey, collections.StringValue),
		blocked:  make(map[string]bool),
	}
	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return bk
}

// FundAccount credits addr with amt.
func (bk *BankKeeper) FundAccount(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) {
	for _, coin := range amt {
		bk.setBalance(ctx, addr, coin.Denom, bk.GetBalance(ctx, addr, coin.Denom).Amount.Add(coin.Amount))
	}
}

// BlockAddr marks addr as blocked from receiving or sending funds.
func (bk *BankKeeper) BlockAddr(addr sdk.AccAddress) {
	bk.blocked[addr.String()] = true
}

// Supply returns the total amount of denom held by every account.
func (bk *BankKeeper) Supply(ctx context.Context, denom string) sdk.Coin {
	supply := sdk.NewInt64Coin(denom, 0)
	err := bk.Balances.Walk(ctx, nil, func(key collections.Pair[string, string], amount sdkmath.Int) (bool, error) {
		if key.K2() == denom {
			supply = supply.AddAmount(amount)
		}
		return false, nil
	})
	if err != nil {
		panic(err)
	}
	return supply
}

// SendCoins implements types.BankKeeper
func (bk *BankKeeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if bk.SendCoinsFn != nil {
		return bk.SendCoinsFn(ctx, fromAddr, toAddr, amt)
	}

	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}

	for _, coin := range amt {
		balance := bk.GetBalance(ctx, fromAddr, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "spendable balance %s is smaller than %s", balance, coin)
		}
	}

	for _, coin := range amt {
		bk.setBalance(ctx, fromAddr, coin.Denom, bk.GetBalance(ctx, fromAddr, coin.Denom).Amount.Sub(coin.Amount))
		bk.setBalance(ctx, toAddr, coin.Denom, bk.GetBalance(ctx, toAddr, coin.Denom).Amount.Add(coin.Amount))
	}

	return nil
}

// MintCoins implements types.BankKeeper
func (bk *BankKeeper) MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	if bk.MintCoinsFn != nil {
		return bk.MintCoinsFn(ctx, moduleName, amt)
	}

	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}

	bk.FundAccount(ctx, authtypes.NewModuleAddress(moduleName), amt)
	return nil
}

// BurnCoins implements types.BankKeeper
func (bk *BankKeeper) BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	addr := authtypes.NewModuleAddress(moduleName)
	for _, coin := range amt {
		balance := bk.GetBalance(ctx, addr, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "module %s cannot burn %s", moduleName, coin)
		}
		bk.setBalance(ctx, addr, coin.Denom, balance.Amount.Sub(coin.Amount))
	}
	return nil
}

// SendCoinsFromModuleToAccount implements types.BankKeeper
func (bk *BankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	if bk.blocked[recipientAddr.String()] {
		return errorsmod.Wrapf(sdkerrors.ErrUnauthorized, "%s is not allowed to receive funds", recipientAddr)
	}
	return bk.SendCoins(ctx, authtypes.NewModuleAddress(senderModule), recipientAddr, amt)
}

// SendCoinsFromAccountToModule implements types.BankKeeper
func (bk *BankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return bk.SendCoins(ctx, senderAddr, authtypes.NewModuleAddress(recipientModule), amt)
}

// BlockedAddr implements types.BankKeeper
func (bk *BankKeeper) BlockedAddr(addr sdk.AccAddress) bool {
	return bk.blocked[addr.String()]
}

// HasDenomMetaData implements types.BankKeeper
func (bk *BankKeeper) HasDenomMetaData(ctx context.Context, denom string) bool {
	has, err := bk.Metadata.Has(ctx, denom)
	if err != nil {
		panic(err)
	}
	return has
}

// GetDenomDisplay returns the display name set in the metadata of denom.
func (bk *BankKeeper) GetDenomDisplay(ctx context.Context, denom string) (string, bool) {
	display, err := bk.Metadata.Get(ctx, denom)
	if errors.Is(err, collections.ErrNotFound) {
		return "", false
	}
	if err != nil {
		panic(err)
	}
	return display, true
}

// SetDenomMetaData implements types.BankKeeper
func (bk *BankKeeper) SetDenomMetaData(ctx context.Context, denomMetaData banktypes.Metadata) {
	if err := bk.Metadata.Set(ctx, denomMetaData.Base, denomMetaData.Display); err != nil {
		panic(err)
	}
}

// SpendableCoin implements types.BankKeeper
func (bk *BankKeeper) SpendableCoin(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return bk.GetBalance(ctx, addr, denom)
}

// GetBalance implements types.BankKeeper
func (bk *BankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	amount, err := bk.Balances.Get(ctx, collections.Join(addr.String(), denom))
	if errors.Is(err, collections.ErrNotFound) {
		return sdk.NewCoin(denom, sdkmath.ZeroInt())
	}
	if err != nil {
		panic(err)
	}
	return sdk.NewCoin(denom, amount)
}

func (bk *BankKeeper) setBalance(ctx context.Context, addr sdk.AccAddress, denom string, amount sdkmath.Int) {
	key := collections.Join(addr.String(), denom)
	var err error
	if amount.IsZero() {
		err = bk.Balances.Remove(ctx, key)
	} else {
		err = bk.Balances.Set(ctx, key, amount)
	}
	if err != nil {
		panic(err)
	}
}
