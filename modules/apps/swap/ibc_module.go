package swap

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v10/modules/core/05-port/types"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"
	ibcexported "github.com/cosmos/ibc-go/v10/modules/core/exported"

	"github.com/cosmos/ics20-swap/modules/apps/swap/internal/events"
	"github.com/cosmos/ics20-swap/modules/apps/swap/internal/telemetry"
	"github.com/cosmos/ics20-swap/modules/apps/swap/keeper"
	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

var (
	_ porttypes.IBCModule             = (*IBCModule)(nil)
	_ porttypes.PacketDataUnmarshaler = (*IBCModule)(nil)
)

// IBCModule implements the ICS26 callbacks of the swap port. It decodes packets and
// acknowledgements and hands them to the keeper, which runs the transfer and any action.
type IBCModule struct {
	keeper keeper.Keeper
}

// NewIBCModule creates a new IBCModule given the keeper
func NewIBCModule(k keeper.Keeper) IBCModule {
	return IBCModule{
		keeper: k,
	}
}

// ValidateSwapChannelParams checks the parameters of a swap channel end. The channel must be
// UNORDERED and opened on the port the swap module is bound to. Escrow addresses are derived
// from 32 bit channel sequences, so higher sequences are refused.
func ValidateSwapChannelParams(
	ctx sdk.Context,
	swapKeeper keeper.Keeper,
	order channeltypes.Order,
	portID string,
	channelID string,
) error {
	channelSequence, err := channeltypes.ParseChannelSequence(channelID)
	if err != nil {
		return err
	}
	if channelSequence > uint64(math.MaxUint32) {
		return errorsmod.Wrapf(types.ErrMaxTransferChannels, "channel sequence %d is greater than max allowed swap channels %d", channelSequence, uint64(math.MaxUint32))
	}

	// an action failing on one packet never holds back the next one
	if order != channeltypes.UNORDERED {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering, "expected %s channel, got %s ", channeltypes.UNORDERED, order)
	}

	if boundPort := swapKeeper.GetPort(ctx); boundPort != portID {
		return errorsmod.Wrapf(porttypes.ErrInvalidPort, "invalid port: %s, expected %s", portID, boundPort)
	}

	return nil
}

func isSupportedVersion(version string) bool {
	return slices.Contains(types.SupportedVersions, version)
}

// OnChanOpenInit implements the IBCModule interface. A swap channel speaks ics20-1 packets
// extended with receive actions; an empty version proposes types.V1.
func (im IBCModule) OnChanOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	counterparty channeltypes.Counterparty,
	version string,
) (string, error) {
	if err := ValidateSwapChannelParams(ctx, im.keeper, order, portID, channelID); err != nil {
		return "", err
	}

	if strings.TrimSpace(version) == "" {
		return types.V1, nil
	}
	if !isSupportedVersion(version) {
		return "", errorsmod.Wrapf(types.ErrInvalidVersion, "expected one of %s, got %s", types.SupportedVersions, version)
	}

	return version, nil
}

// OnChanOpenTry implements the IBCModule interface. An unsupported counterparty version is
// answered with types.V1, leaving the initiating end to accept or refuse it on ack.
func (im IBCModule) OnChanOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID,
	channelID string,
	counterparty channeltypes.Counterparty,
	counterpartyVersion string,
) (string, error) {
	if err := ValidateSwapChannelParams(ctx, im.keeper, order, portID, channelID); err != nil {
		return "", err
	}

	if !isSupportedVersion(counterpartyVersion) {
		im.keeper.Logger(ctx).Debug("unsupported swap channel version, proposing default", "counterpartyVersion", counterpartyVersion, "version", types.V1)
		return types.V1, nil
	}

	return counterpartyVersion, nil
}

// OnChanOpenAck implements the IBCModule interface
func (IBCModule) OnChanOpenAck(
	ctx sdk.Context,
	portID,
	channelID string,
	_ string,
	counterpartyVersion string,
) error {
	if !isSupportedVersion(counterpartyVersion) {
		return errorsmod.Wrapf(types.ErrInvalidVersion, "invalid counterparty version: expected one of %s, got %s", types.SupportedVersions, counterpartyVersion)
	}

	return nil
}

// OnChanOpenConfirm implements the IBCModule interface. The channel escrow ledger is created
// lazily by the first transfer.
func (IBCModule) OnChanOpenConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	return nil
}

// OnChanCloseInit implements the IBCModule interface. The escrow ledger and pending transfers
// of a swap channel live as long as the channel, so it is never closed from this end.
func (IBCModule) OnChanCloseInit(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	return errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "swap channels cannot be closed")
}

// OnChanCloseConfirm implements the IBCModule interface. A close started by the counterparty
// is accepted; transfers still in flight are refunded when they time out on close.
func (IBCModule) OnChanCloseConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	return nil
}

// OnRecvPacket implements the IBCModule interface. A successful acknowledgement
// is returned if the packet data is successfully decoded and the receive application
// logic returns without error. The receive runs in a cached context that is only written
// on success, so an error acknowledgement leaves no state behind.
func (im IBCModule) OnRecvPacket(
	ctx sdk.Context,
	channelVersion string,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) ibcexported.Acknowledgement {
	var (
		ack    ibcexported.Acknowledgement
		ackErr error
		data   types.FungibleTokenPacketData
		result *types.ActionResult
	)

	// we are explicitly wrapping this emit event call in an anonymous function so that
	// the packet data is evaluated after it has been assigned a value.
	defer func() {
		events.EmitOnRecvPacketEvent(ctx, data, ack, ackErr)
	}()

	data, ackErr = types.DecodePacketData(packet.GetData())
	if ackErr != nil {
		ack = channeltypes.NewErrorAcknowledgement(ackErr)
		im.keeper.Logger(ctx).Error(fmt.Sprintf("%s sequence %d", ackErr.Error(), packet.Sequence))
		return ack
	}

	cacheCtx, writeFn := ctx.CacheContext()

	// NOTE: this needs to set the ackErr variable and not do if ackErr := ... because the ackErr variable is used in the defer function
	result, ackErr = im.keeper.OnRecvPacket(cacheCtx, packet, data)
	if ackErr != nil {
		ack = channeltypes.NewErrorAcknowledgement(ackErr)
		im.keeper.Logger(ctx).Error(fmt.Sprintf("%s sequence %d", ackErr.Error(), packet.Sequence))
		return ack
	}

	writeFn()

	ack = types.NewSuccessAcknowledgement(result)

	telemetry.ReportOnRecvPacket(packet.SourcePort, packet.SourceChannel, data)

	im.keeper.Logger(ctx).Info("successfully handled ICS-20 packet", "sequence", packet.Sequence)

	// NOTE: acknowledgement will be written synchronously during IBC handler execution.
	return ack
}

// OnAcknowledgementPacket implements the IBCModule interface
func (im IBCModule) OnAcknowledgementPacket(
	ctx sdk.Context,
	channelVersion string,
	packet channeltypes.Packet,
	acknowledgement []byte,
	relayer sdk.AccAddress,
) error {
	var ack channeltypes.Acknowledgement
	if err := types.ModuleCdc.UnmarshalJSON(acknowledgement, &ack); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrUnknownRequest, "cannot unmarshal ICS-20 swap packet acknowledgement: %v", err)
	}

	data, err := types.DecodePacketData(packet.GetData())
	if err != nil {
		return err
	}

	bz := types.ModuleCdc.MustMarshalJSON(&ack)
	if !bytes.Equal(bz, acknowledgement) {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "acknowledgement did not marshal to expected bytes: %X ≠ %X", bz, acknowledgement)
	}

	if err := im.keeper.OnAcknowledgementPacket(ctx, packet, data, ack); err != nil {
		return err
	}

	events.EmitOnAcknowledgementPacketEvent(ctx, data, ack)

	return nil
}

// OnTimeoutPacket implements the IBCModule interface
func (im IBCModule) OnTimeoutPacket(
	ctx sdk.Context,
	channelVersion string,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) error {
	data, err := types.DecodePacketData(packet.GetData())
	if err != nil {
		return err
	}

	// refund tokens
	if err := im.keeper.OnTimeoutPacket(ctx, packet, data); err != nil {
		return err
	}

	events.EmitOnTimeoutEvent(ctx, data)

	return nil
}

// UnmarshalPacketData attempts to unmarshal the provided packet data bytes
// into a FungibleTokenPacketData. This function implements the optional
// PacketDataUnmarshaler interface required for ADR 008 support.
func (im IBCModule) UnmarshalPacketData(ctx sdk.Context, portID string, channelID string, bz []byte) (interface{}, string, error) {
	version, found := im.keeper.GetICS4Wrapper().GetAppVersion(ctx, portID, channelID)
	if !found {
		return types.FungibleTokenPacketData{}, "", errorsmod.Wrapf(ibcerrors.ErrNotFound, "app version not found for port %s and channel %s", portID, channelID)
	}

	if !slices.Contains(types.SupportedVersions, version) {
		return types.FungibleTokenPacketData{}, "", errorsmod.Wrapf(types.ErrInvalidVersion, "expected one of %s, got %s", types.SupportedVersions, version)
	}

	data, err := types.DecodePacketData(bz)
	return data, version, err
}
