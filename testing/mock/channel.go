package mock

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

var (
	_ types.ChannelKeeper = (*ChannelKeeper)(nil)
	_ types.ICS4Wrapper   = (*ICS4Wrapper)(nil)
)

// ChannelKeeper serves the channels opened by a test.
type ChannelKeeper struct {
	channels map[string]channeltypes.Channel
}

// NewChannelKeeper returns a ChannelKeeper without channels.
func NewChannelKeeper() *ChannelKeeper {
	return &ChannelKeeper{channels: make(map[string]channeltypes.Channel)}
}

// OpenChannel registers an open UNORDERED channel between the given ends.
func (ck *ChannelKeeper) OpenChannel(portID, channelID, counterpartyPortID, counterpartyChannelID string) {
	ck.channels[portID+"/"+channelID] = channeltypes.NewChannel(
		channeltypes.OPEN, channeltypes.UNORDERED,
		channeltypes.NewCounterparty(counterpartyPortID, counterpartyChannelID),
		[]string{"connection-0"}, types.V1,
	)
}

// GetChannel implements types.ChannelKeeper
func (ck *ChannelKeeper) GetChannel(_ sdk.Context, srcPort, srcChan string) (channeltypes.Channel, bool) {
	channel, found := ck.channels[srcPort+"/"+srcChan]
	return channel, found
}

// SentPacket is a packet handed to the ICS4Wrapper.
type SentPacket struct {
	SourcePort       string
	SourceChannel    string
	Sequence         uint64
	TimeoutHeight    clienttypes.Height
	TimeoutTimestamp uint64
	Data             []byte
}

// ICS4Wrapper records sent packets and assigns sequences per channel starting at 1.
type ICS4Wrapper struct {
	channels *ChannelKeeper

	Sent      []SentPacket
	sequences map[string]uint64

	// SendPacketFn overrides SendPacket when set
	SendPacketFn func(ctx sdk.Context, sourcePort, sourceChannel string, timeoutHeight clienttypes.Height, timeoutTimestamp uint64, data []byte) (uint64, error)
}

// NewICS4Wrapper returns an ICS4Wrapper sending over the channels of channels.
func NewICS4Wrapper(channels *ChannelKeeper) *ICS4Wrapper {
	return &ICS4Wrapper{
		channels:  channels,
		sequences: make(map[string]uint64),
	}
}

// SendPacket implements types.ICS4Wrapper
func (w *ICS4Wrapper) SendPacket(ctx sdk.Context, sourcePort, sourceChannel string, timeoutHeight clienttypes.Height, timeoutTimestamp uint64, data []byte) (uint64, error) {
	if w.SendPacketFn != nil {
		return w.SendPacketFn(ctx, sourcePort, sourceChannel, timeoutHeight, timeoutTimestamp, data)
	}

	key := sourcePort + "/" + sourceChannel
	w.sequences[key]++
	sequence := w.sequences[key]

	w.Sent = append(w.Sent, SentPacket{
		SourcePort:       sourcePort,
		SourceChannel:    sourceChannel,
		Sequence:         sequence,
		TimeoutHeight:    timeoutHeight,
		TimeoutTimestamp: timeoutTimestamp,
		Data:             data,
	})

	return sequence, nil
}

// LastSent returns the most recently sent packet.
func (w *ICS4Wrapper) LastSent() SentPacket {
	return w.Sent[len(w.Sent)-1]
}

// GetAppVersion implements types.ICS4Wrapper
func (w *ICS4Wrapper) GetAppVersion(ctx sdk.Context, portID, channelID string) (string, bool) {
	channel, found := w.channels.GetChannel(ctx, portID, channelID)
	if !found {
		return "", false
	}
	return channel.Version, true
}
