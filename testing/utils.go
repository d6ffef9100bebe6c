package ibctesting

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateString returns a random alphanumeric string of length bytes, used to exceed the
// memo and receiver limits.
func GenerateString(length uint) string {
	bz := make([]byte, length)
	for i := range bz {
		bz[i] = charset[rand.Intn(len(charset))]
	}
	return string(bz)
}

// RequireErrorIsOrContains fails the test unless err wraps target or carries its message.
func RequireErrorIsOrContains(t *testing.T, err, target error, msgAndArgs ...any) {
	t.Helper()
	require.Error(t, err)
	if errors.Is(err, target) {
		return
	}
	require.Contains(t, err.Error(), target.Error(), msgAndArgs...)
}

// VoucherDenom returns the local denomination of baseDenom sent over the swap channel by the
// counterparty chain.
func VoucherDenom(baseDenom string) string {
	return types.ParseDenomTrace(types.GetPrefixedDenom(types.PortID, ChannelID, baseDenom)).IBCDenom()
}

// ReturningDenom returns the wire denomination of a local token sent back by the counterparty.
func ReturningDenom(baseDenom string) string {
	return types.GetPrefixedDenom(types.PortID, CounterpartyChannelID, baseDenom)
}

// AccAddress returns a deterministic test address for name.
func AccAddress(name string) sdk.AccAddress {
	return authtypes.NewModuleAddress("test/" + name)
}
