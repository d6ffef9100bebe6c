package types

import (
	"crypto/sha256"
	"fmt"

	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the ICS20 swap module name
	ModuleName = "ics20swap"

	// LockupPoolName is the module account holding locked tokens
	LockupPoolName = "ics20swap_lockup"

	// PortID is the default port id that the swap module binds to
	PortID = "transfer"

	// StoreKey is the store key string for the swap module
	StoreKey = ModuleName

	// RouterKey is the message route for the swap module
	RouterKey = ModuleName

	// QuerierRoute is the querier route for the swap module
	QuerierRoute = ModuleName

	// DenomPrefix is the prefix used for internal SDK coin representation.
	DenomPrefix = "ibc"
)

const (
	// V1 defines the ICS20 version spoken on swap channels
	V1 = "ics20-1"

	// escrowAddressVersion should remain as ics20-1 to avoid the address changing.
	escrowAddressVersion = V1
)

var (
	PortKey              = collections.NewPrefix(0)
	ParamsKey            = collections.NewPrefix(1)
	DenomTraceKey        = collections.NewPrefix(2)
	EscrowBalanceKey     = collections.NewPrefix(3)
	TotalSentKey         = collections.NewPrefix(4)
	PendingTransferKey   = collections.NewPrefix(5)
	PositionKey          = collections.NewPrefix(6)
	PositionSequenceKey  = collections.NewPrefix(7)
	CreditedKey          = collections.NewPrefix(8)
	LockedKey            = collections.NewPrefix(9)
	LastAdjustmentKey    = collections.NewPrefix(10)
	PriceObservationKey  = collections.NewPrefix(11)
	SupportedVersions    = []string{V1}
	defaultReturnTimeout = uint64(600_000_000_000) // 10 minutes in nanoseconds
)

// DefaultReturnTimeout is the relative timeout applied to swap outputs sent back to the
// original sender.
func DefaultReturnTimeout() uint64 { return defaultReturnTimeout }

// GetEscrowAddress returns the escrow address for the specified channel.
// The escrow address follows the format as outlined in ADR 028:
// https://github.com/cosmos/cosmos-sdk/blob/main/docs/architecture/adr-028-public-key-addresses.md
func GetEscrowAddress(portID, channelID string) sdk.AccAddress {
	// a slash is used to create domain separation between port and channel identifiers to
	// prevent address collisions between escrow addresses created for different channels
	contents := fmt.Sprintf("%s/%s", portID, channelID)

	// ADR 028 AddressHash construction
	preImage := []byte(escrowAddressVersion)
	preImage = append(preImage, 0)
	preImage = append(preImage, contents...)
	hash := sha256.Sum256(preImage)
	return hash[:20]
}
