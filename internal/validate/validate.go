package validate

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sdk "github.com/cosmos/cosmos-sdk/types"

	host "github.com/cosmos/ibc-go/v10/modules/core/24-host"
)

// GRPCRequest validates that the portID and channelID of a gRPC Request are valid identifiers.
func GRPCRequest(portID, channelID string) error {
	if err := host.PortIdentifierValidator(portID); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	return ChannelRequest(channelID)
}

// ChannelRequest validates the channelID of a gRPC Request.
func ChannelRequest(channelID string) error {
	if err := host.ChannelIdentifierValidator(channelID); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	return nil
}

// AddressRequest decodes a bech32 account address carried by a gRPC Request.
func AddressRequest(address string) (sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid address %q: %s", address, err)
	}

	return addr, nil
}

// DenomRequest validates the denominations of a gRPC Request.
func DenomRequest(denoms ...string) error {
	for _, denom := range denoms {
		if err := sdk.ValidateDenom(denom); err != nil {
			return status.Error(codes.InvalidArgument, err.Error())
		}
	}

	return nil
}
