package types

import (
	"context"
	"strings"
	"unicode/utf8"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	host "github.com/cosmos/ibc-go/v10/modules/core/24-host"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"
)

// MsgTransfer sends tokens over a swap channel, optionally instructing the counterparty to
// act on them.
type MsgTransfer struct {
	SourcePort       string             `json:"source_port"`
	SourceChannel    string             `json:"source_channel"`
	Token            sdk.Coin           `json:"token"`
	Sender           string             `json:"sender"`
	Receiver         string             `json:"receiver"`
	TimeoutHeight    clienttypes.Height `json:"timeout_height"`
	TimeoutTimestamp uint64             `json:"timeout_timestamp"`
	Memo             string             `json:"memo,omitempty"`
	Action           *PacketAction      `json:"action,omitempty"`
}

// MsgTransferResponse returns the sequence of the sent packet.
type MsgTransferResponse struct {
	Sequence uint64 `json:"sequence"`
}

// NewMsgTransfer creates a new MsgTransfer instance
func NewMsgTransfer(
	sourcePort, sourceChannel string,
	token sdk.Coin, sender, receiver string,
	timeoutHeight clienttypes.Height, timeoutTimestamp uint64,
	memo string, action *PacketAction,
) *MsgTransfer {
	return &MsgTransfer{
		SourcePort:       sourcePort,
		SourceChannel:    sourceChannel,
		Token:            token,
		Sender:           sender,
		Receiver:         receiver,
		TimeoutHeight:    timeoutHeight,
		TimeoutTimestamp: timeoutTimestamp,
		Memo:             memo,
		Action:           action,
	}
}

// ValidateBasic performs a basic check of the MsgTransfer fields.
// NOTE: The recipient addresses format is not validated as the format defined by
// the chain is not known to IBC.
func (msg MsgTransfer) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.SourcePort); err != nil {
		return errorsmod.Wrap(err, "invalid source port ID")
	}
	if err := host.ChannelIdentifierValidator(msg.SourceChannel); err != nil {
		return errorsmod.Wrap(err, "invalid source channel ID")
	}
	if !msg.Token.IsValid() {
		return errorsmod.Wrap(ibcerrors.ErrInvalidCoins, msg.Token.String())
	}
	if !msg.Token.IsPositive() {
		return errorsmod.Wrap(ErrInvalidAmount, msg.Token.String())
	}
	// NOTE: sender format must be validated as it is required by the GetSigners function.
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	if strings.TrimSpace(msg.Receiver) == "" {
		return errorsmod.Wrap(ibcerrors.ErrInvalidAddress, "missing recipient address")
	}
	if !utf8.ValidString(msg.Receiver) {
		return errorsmod.Wrap(ibcerrors.ErrInvalidAddress, "recipient address must be valid UTF-8")
	}
	if !utf8.ValidString(msg.Memo) {
		return errorsmod.Wrap(ErrInvalidMemo, "memo must be valid UTF-8")
	}
	if len(msg.Receiver) > MaximumReceiverLength {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "recipient address must not exceed %d bytes", MaximumReceiverLength)
	}
	if len(msg.Memo) > MaximumMemoLength {
		return errorsmod.Wrapf(ErrInvalidMemo, "memo must not exceed %d bytes", MaximumMemoLength)
	}
	if msg.TimeoutHeight.IsZero() && msg.TimeoutTimestamp == 0 {
		return errorsmod.Wrap(ErrInvalidPacketTimeout, "timeout height and timeout timestamp cannot both be 0")
	}
	if msg.Action != nil {
		if err := msg.Action.ValidateBasic(); err != nil {
			return err
		}
	}
	return ValidateIBCDenom(msg.Token.Denom)
}

// MsgWithdrawLockup withdraws a matured lockup position.
type MsgWithdrawLockup struct {
	Owner      string `json:"owner"`
	PositionID uint64 `json:"position_id"`
}

// MsgWithdrawLockupResponse returns the withdrawn tokens.
type MsgWithdrawLockupResponse struct {
	Amount sdk.Coin `json:"amount"`
}

// NewMsgWithdrawLockup creates a new MsgWithdrawLockup instance
func NewMsgWithdrawLockup(owner string, positionID uint64) *MsgWithdrawLockup {
	return &MsgWithdrawLockup{Owner: owner, PositionID: positionID}
}

// ValidateBasic checks the owner is a valid address.
func (msg MsgWithdrawLockup) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	return nil
}

// MsgDepositLockup adds tokens to a lockup position that has not unlocked yet.
type MsgDepositLockup struct {
	Owner      string   `json:"owner"`
	PositionID uint64   `json:"position_id"`
	Amount     sdk.Coin `json:"amount"`
}

// MsgDepositLockupResponse is the empty response to MsgDepositLockup.
type MsgDepositLockupResponse struct{}

// NewMsgDepositLockup creates a new MsgDepositLockup instance
func NewMsgDepositLockup(owner string, positionID uint64, amount sdk.Coin) *MsgDepositLockup {
	return &MsgDepositLockup{Owner: owner, PositionID: positionID, Amount: amount}
}

// ValidateBasic checks the owner and deposited amount.
func (msg MsgDepositLockup) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	if !msg.Amount.IsValid() || !msg.Amount.IsPositive() {
		return errorsmod.Wrap(ErrInvalidAmount, msg.Amount.String())
	}
	return nil
}

// MsgUpdateParams updates the module parameters. Only the authority may submit it.
type MsgUpdateParams struct {
	Signer string `json:"signer"`
	Params Params `json:"params"`
}

// MsgUpdateParamsResponse is the empty response to MsgUpdateParams.
type MsgUpdateParamsResponse struct{}

// NewMsgUpdateParams creates a new MsgUpdateParams instance
func NewMsgUpdateParams(signer string, params Params) *MsgUpdateParams {
	return &MsgUpdateParams{Signer: signer, Params: params}
}

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Signer); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	return msg.Params.Validate()
}

// MsgServer is the message service of the swap module.
type MsgServer interface {
	Transfer(context.Context, *MsgTransfer) (*MsgTransferResponse, error)
	WithdrawLockup(context.Context, *MsgWithdrawLockup) (*MsgWithdrawLockupResponse, error)
	DepositLockup(context.Context, *MsgDepositLockup) (*MsgDepositLockupResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}
