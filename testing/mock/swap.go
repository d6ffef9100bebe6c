package mock

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

var _ types.SwapKeeper = (*SwapKeeper)(nil)

// Pool is a two asset constant product pool without swap fee.
type Pool struct {
	ID     uint64
	DenomA string
	DenomB string
}

// InitialShares is the amount of shares minted to the pool creator.
const InitialShares = 100_000_000

// Address returns the account holding the pool reserves.
func (p Pool) Address() sdk.AccAddress {
	return authtypes.NewModuleAddress(p.moduleName())
}

// Creator returns the account holding the initial pool shares.
func (p Pool) Creator() sdk.AccAddress {
	return authtypes.NewModuleAddress(p.moduleName() + "-creator")
}

// ShareDenom returns the denomination of the pool shares.
func (p Pool) ShareDenom() string {
	return types.PoolShareDenom(p.ID)
}

func (p Pool) moduleName() string {
	return fmt.Sprintf("pool-%d", p.ID)
}

func (p Pool) other(denom string) (string, bool) {
	switch denom {
	case p.DenomA:
		return p.DenomB, true
	case p.DenomB:
		return p.DenomA, true
	default:
		return "", false
	}
}

// SwapKeeper swaps through constant product pools whose reserves are held in the mock bank.
type SwapKeeper struct {
	bank  *BankKeeper
	pools map[uint64]Pool

	// SwapExactAmountInFn overrides SwapExactAmountIn when set
	SwapExactAmountInFn func(ctx sdk.Context, sender sdk.AccAddress, tokenIn sdk.Coin, routes []types.SwapRoute, tokenOutMinAmount sdkmath.Int) (sdkmath.Int, error)
	// JoinSwapExternAmountInFn overrides JoinSwapExternAmountIn when set
	JoinSwapExternAmountInFn func(ctx sdk.Context, sender sdk.AccAddress, poolID uint64, tokenIn sdk.Coin, shareOutMinAmount sdkmath.Int) (sdkmath.Int, error)
}

// NewSwapKeeper returns a SwapKeeper without pools.
func NewSwapKeeper(bank *BankKeeper) *SwapKeeper {
	return &SwapKeeper{bank: bank, pools: make(map[uint64]Pool)}
}

// CreatePool creates a pool funded with the two reserves. The creator receives InitialShares.
func (sk *SwapKeeper) CreatePool(ctx sdk.Context, id uint64, reserveA, reserveB sdk.Coin) Pool {
	pool := Pool{ID: id, DenomA: reserveA.Denom, DenomB: reserveB.Denom}
	sk.pools[id] = pool
	sk.bank.FundAccount(ctx, pool.Address(), sdk.NewCoins(reserveA, reserveB))
	sk.bank.FundAccount(ctx, pool.Creator(), sdk.NewCoins(sdk.NewInt64Coin(pool.ShareDenom(), InitialShares)))
	return pool
}

// Pool returns the pool with id.
func (sk *SwapKeeper) Pool(id uint64) Pool {
	return sk.pools[id]
}

// EstimateSwapExactAmountIn implements types.SwapKeeper
func (sk *SwapKeeper) EstimateSwapExactAmountIn(ctx sdk.Context, tokenIn sdk.Coin, routes []types.SwapRoute) (sdkmath.Int, error) {
	out, _, err := sk.route(ctx, tokenIn, routes)
	return out, err
}

// SpotPrice implements types.SwapKeeper
func (sk *SwapKeeper) SpotPrice(ctx sdk.Context, poolID uint64, quoteDenom, baseDenom string) (sdkmath.LegacyDec, error) {
	pool, found := sk.pools[poolID]
	if !found {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(sdkerrors.ErrNotFound, "pool %d", poolID)
	}
	if other, ok := pool.other(baseDenom); !ok || other != quoteDenom {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "pool %d does not trade %s for %s", poolID, baseDenom, quoteDenom)
	}

	quote := sk.bank.GetBalance(ctx, pool.Address(), quoteDenom).Amount
	base := sk.bank.GetBalance(ctx, pool.Address(), baseDenom).Amount
	if base.IsZero() {
		return sdkmath.LegacyZeroDec(), nil
	}
	return sdkmath.LegacyNewDecFromInt(quote).QuoInt(base), nil
}

// SwapExactAmountIn implements types.SwapKeeper
func (sk *SwapKeeper) SwapExactAmountIn(ctx sdk.Context, sender sdk.AccAddress, tokenIn sdk.Coin, routes []types.SwapRoute, tokenOutMinAmount sdkmath.Int) (sdkmath.Int, error) {
	if sk.SwapExactAmountInFn != nil {
		return sk.SwapExactAmountInFn(ctx, sender, tokenIn, routes, tokenOutMinAmount)
	}

	out, hops, err := sk.route(ctx, tokenIn, routes)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if out.LT(tokenOutMinAmount) {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "token out %s is lower than minimum %s", out, tokenOutMinAmount)
	}

	if err := sk.bank.SendCoins(ctx, sender, hops[0].pool.Address(), sdk.NewCoins(tokenIn)); err != nil {
		return sdkmath.Int{}, err
	}
	for i, hop := range hops {
		to := sender
		if i < len(hops)-1 {
			to = hops[i+1].pool.Address()
		}
		if err := sk.bank.SendCoins(ctx, hop.pool.Address(), to, sdk.NewCoins(hop.out)); err != nil {
			return sdkmath.Int{}, err
		}
	}

	return out, nil
}

// JoinSwapExternAmountIn implements types.SwapKeeper. Both assets are equally weighted, so
// adding a to reserve R mints S * (sqrt(1 + a/R) - 1) of the S outstanding shares.
func (sk *SwapKeeper) JoinSwapExternAmountIn(ctx sdk.Context, sender sdk.AccAddress, poolID uint64, tokenIn sdk.Coin, shareOutMinAmount sdkmath.Int) (sdkmath.Int, error) {
	if sk.JoinSwapExternAmountInFn != nil {
		return sk.JoinSwapExternAmountInFn(ctx, sender, poolID, tokenIn, shareOutMinAmount)
	}

	pool, found := sk.pools[poolID]
	if !found {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrNotFound, "pool %d", poolID)
	}
	if _, ok := pool.other(tokenIn.Denom); !ok {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "pool %d does not hold %s", poolID, tokenIn.Denom)
	}

	reserve := sk.bank.GetBalance(ctx, pool.Address(), tokenIn.Denom).Amount
	if !reserve.IsPositive() {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "pool %d has no %s liquidity", poolID, tokenIn.Denom)
	}

	ratio := sdkmath.LegacyOneDec().Add(sdkmath.LegacyNewDecFromInt(tokenIn.Amount).QuoInt(reserve))
	root, err := ratio.ApproxSqrt()
	if err != nil {
		return sdkmath.Int{}, err
	}

	totalShares := sk.bank.Supply(ctx, pool.ShareDenom()).Amount
	shares := sdkmath.LegacyNewDecFromInt(totalShares).Mul(root.Sub(sdkmath.LegacyOneDec())).TruncateInt()
	if !shares.IsPositive() || shares.LT(shareOutMinAmount) {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "shares out %s is lower than minimum %s", shares, shareOutMinAmount)
	}

	if err := sk.bank.SendCoins(ctx, sender, pool.Address(), sdk.NewCoins(tokenIn)); err != nil {
		return sdkmath.Int{}, err
	}
	sk.bank.FundAccount(ctx, sender, sdk.NewCoins(sdk.NewCoin(pool.ShareDenom(), shares)))

	return shares, nil
}

// ExitSwapShareAmountIn implements types.SwapKeeper. Redeeming fraction f of the shares pays
// out R * f * (2 - f) of the reserve R of tokenOutDenom.
func (sk *SwapKeeper) ExitSwapShareAmountIn(ctx sdk.Context, sender sdk.AccAddress, poolID uint64, tokenOutDenom string, shareInAmount, tokenOutMinAmount sdkmath.Int) (sdkmath.Int, error) {
	pool, found := sk.pools[poolID]
	if !found {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrNotFound, "pool %d", poolID)
	}
	if _, ok := pool.other(tokenOutDenom); !ok {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "pool %d does not hold %s", poolID, tokenOutDenom)
	}

	totalShares := sk.bank.Supply(ctx, pool.ShareDenom()).Amount
	if !shareInAmount.IsPositive() || shareInAmount.GTE(totalShares) {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "cannot redeem %s of %s shares", shareInAmount, totalShares)
	}

	reserve := sk.bank.GetBalance(ctx, pool.Address(), tokenOutDenom).Amount
	fraction := sdkmath.LegacyNewDecFromInt(shareInAmount).QuoInt(totalShares)
	out := sdkmath.LegacyNewDecFromInt(reserve).Mul(fraction).Mul(sdkmath.LegacyNewDec(2).Sub(fraction)).TruncateInt()
	if !out.IsPositive() || out.LT(tokenOutMinAmount) {
		return sdkmath.Int{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "token out %s is lower than minimum %s", out, tokenOutMinAmount)
	}

	// shares are burned through the pool account
	shares := sdk.NewCoins(sdk.NewCoin(pool.ShareDenom(), shareInAmount))
	if err := sk.bank.SendCoins(ctx, sender, pool.Address(), shares); err != nil {
		return sdkmath.Int{}, err
	}
	if err := sk.bank.BurnCoins(ctx, pool.moduleName(), shares); err != nil {
		return sdkmath.Int{}, err
	}
	if err := sk.bank.SendCoins(ctx, pool.Address(), sender, sdk.NewCoins(sdk.NewCoin(tokenOutDenom, out))); err != nil {
		return sdkmath.Int{}, err
	}

	return out, nil
}

type hop struct {
	pool Pool
	out  sdk.Coin
}

func (sk *SwapKeeper) route(ctx sdk.Context, tokenIn sdk.Coin, routes []types.SwapRoute) (sdkmath.Int, []hop, error) {
	if len(routes) == 0 {
		return sdkmath.Int{}, nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "empty route")
	}

	hops := make([]hop, 0, len(routes))
	in := tokenIn
	for _, route := range routes {
		pool, found := sk.pools[route.PoolID]
		if !found {
			return sdkmath.Int{}, nil, errorsmod.Wrapf(sdkerrors.ErrNotFound, "pool %d", route.PoolID)
		}
		if other, ok := pool.other(in.Denom); !ok || other != route.TokenOutDenom {
			return sdkmath.Int{}, nil, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "pool %d does not trade %s for %s", route.PoolID, in.Denom, route.TokenOutDenom)
		}

		reserveIn := sk.bank.GetBalance(ctx, pool.Address(), in.Denom).Amount
		reserveOut := sk.bank.GetBalance(ctx, pool.Address(), route.TokenOutDenom).Amount

		// out = reserveOut * in / (reserveIn + in)
		out := reserveOut.Mul(in.Amount).Quo(reserveIn.Add(in.Amount))
		if !out.IsPositive() {
			return sdkmath.Int{}, nil, errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "pool %d has no %s liquidity", route.PoolID, route.TokenOutDenom)
		}

		next := sdk.NewCoin(route.TokenOutDenom, out)
		hops = append(hops, hop{pool: pool, out: next})
		in = next
	}

	return in.Amount, hops, nil
}
