package keeper

import (
	"errors"
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	cmtbytes "github.com/cometbft/cometbft/libs/bytes"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// GetDenomTrace retrieves the full identifiers trace and base denomination from the store.
func (k Keeper) GetDenomTrace(ctx sdk.Context, traceHash cmtbytes.HexBytes) (types.DenomTrace, bool) {
	trace, err := k.DenomTraces.Get(ctx, traceHash.String())
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DenomTrace{}, false
		}
		panic(err)
	}
	return trace, true
}

// HasDenomTrace checks if a the key with the given denomination trace hash exists on the store.
func (k Keeper) HasDenomTrace(ctx sdk.Context, traceHash cmtbytes.HexBytes) bool {
	has, err := k.DenomTraces.Has(ctx, traceHash.String())
	if err != nil {
		panic(err)
	}
	return has
}

// SetDenomTrace sets a new {trace hash -> denom trace} pair to the store.
func (k Keeper) SetDenomTrace(ctx sdk.Context, denomTrace types.DenomTrace) {
	if err := k.DenomTraces.Set(ctx, denomTrace.Hash().String(), denomTrace); err != nil {
		panic(err)
	}
}

// GetAllDenomTraces returns the trace information for all the denominations.
func (k Keeper) GetAllDenomTraces(ctx sdk.Context) []types.DenomTrace {
	traces := []types.DenomTrace{}
	err := k.DenomTraces.Walk(ctx, nil, func(_ string, trace types.DenomTrace) (bool, error) {
		traces = append(traces, trace)
		return false, nil
	})
	if err != nil {
		panic(err)
	}
	return traces
}

// DenomPathFromHash returns the full denomination path prefix from an ibc denom with a hash
// component.
func (k Keeper) DenomPathFromHash(ctx sdk.Context, denom string) (string, error) {
	// trim the denomination prefix, by default "ibc/"
	hexHash := denom[len(types.DenomPrefix+"/"):]

	hash, err := types.ParseHexHash(hexHash)
	if err != nil {
		return "", errorsmod.Wrap(types.ErrInvalidDenomForTransfer, err.Error())
	}

	denomTrace, found := k.GetDenomTrace(ctx, hash)
	if !found {
		return "", errorsmod.Wrap(types.ErrTraceNotFound, hexHash)
	}

	return denomTrace.GetFullDenomPath(), nil
}

// fullDenomPath returns the wire denomination of a local coin denomination.
func (k Keeper) fullDenomPath(ctx sdk.Context, denom string) (string, error) {
	if strings.HasPrefix(denom, types.DenomPrefix+"/") {
		return k.DenomPathFromHash(ctx, denom)
	}
	return denom, nil
}

// setDenomMetadata sets an IBC token's denomination metadata
func (k Keeper) setDenomMetadata(ctx sdk.Context, denomTrace types.DenomTrace) {
	metadata := banktypes.Metadata{
		Description: fmt.Sprintf("IBC token from %s", denomTrace.GetFullDenomPath()),
		DenomUnits: []*banktypes.DenomUnit{
			{
				Denom:    denomTrace.BaseDenom,
				Exponent: 0,
			},
		},
		// Setting base as IBC hash denom since bank keepers's SetDenomMetadata uses
		// Base as key path and the IBC hash is what gives this token uniqueness
		// on the executing chain
		Base:    denomTrace.IBCDenom(),
		Display: denomTrace.GetFullDenomPath(),
		Name:    fmt.Sprintf("%s IBC token", denomTrace.GetFullDenomPath()),
		Symbol:  strings.ToUpper(denomTrace.BaseDenom),
	}

	k.bankKeeper.SetDenomMetaData(ctx, metadata)
}
