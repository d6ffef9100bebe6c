package types

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"
)

const (
	// MaximumReceiverLength is the maximum length of the receiver address in bytes
	MaximumReceiverLength = 2048
	// MaximumMemoLength is the maximum length of the memo in bytes
	MaximumMemoLength = 32768
	// MaximumSwapRoutes bounds the number of pools a swap action may traverse
	MaximumSwapRoutes = 8
)

var (
	// DefaultRelativePacketTimeoutTimestamp is the default packet timeout timestamp (in nanoseconds)
	// relative to the current block timestamp of the counterparty chain. The default is currently
	// set to a 10 minute timeout.
	DefaultRelativePacketTimeoutTimestamp = uint64((time.Duration(10) * time.Minute).Nanoseconds())
)

// FungibleTokenPacketData is the ICS20 packet payload carried over swap channels. It is the
// fungible token packet extended with an optional action executed by the receiving chain.
type FungibleTokenPacketData struct {
	// Denom is the full denomination path of the token being transferred
	Denom string `json:"denom"`
	// Amount is the decimal string of the transferred amount
	Amount   string `json:"amount"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Memo     string `json:"memo,omitempty"`
	// Action is executed on the receiving chain after the token has been credited
	Action *PacketAction `json:"action,omitempty"`
}

// PacketAction instructs the receiving chain to act on the credited tokens. At most one of
// Swap, JoinPool and ExitPool converts the tokens; Lock may follow it, in which case the
// converted tokens are locked. Unlock stands alone.
type PacketAction struct {
	Swap     *SwapAction     `json:"swap,omitempty"`
	JoinPool *JoinPoolAction `json:"join_pool,omitempty"`
	ExitPool *ExitPoolAction `json:"exit_pool,omitempty"`
	Lock     *LockAction     `json:"lock,omitempty"`
	Unlock   *UnlockAction   `json:"unlock,omitempty"`
}

// SwapRoute is one hop of a swap.
type SwapRoute struct {
	PoolID        uint64 `json:"pool_id,string"`
	TokenOutDenom string `json:"token_out_denom"`
}

// SwapAction swaps the credited tokens along Routes.
type SwapAction struct {
	Routes            []SwapRoute `json:"routes"`
	TokenOutMinAmount string      `json:"token_out_min_amount"`
	// ReturnToSender sends the swap output back to the packet sender over the same channel
	ReturnToSender bool `json:"return_to_sender,omitempty"`
}

// JoinPoolAction adds the credited tokens to a pool as single sided liquidity.
type JoinPoolAction struct {
	PoolID            uint64 `json:"pool_id,string"`
	ShareOutMinAmount string `json:"share_out_min_amount"`
}

// ExitPoolAction redeems credited pool shares for a single token of the pool.
type ExitPoolAction struct {
	TokenOutDenom     string `json:"token_out_denom"`
	TokenOutMinAmount string `json:"token_out_min_amount"`
}

// LockAction locks the credited tokens for Duration seconds.
type LockAction struct {
	Duration uint64 `json:"duration"`
}

// UnlockAction withdraws a matured lockup position of the packet receiver.
type UnlockAction struct {
	ID uint64 `json:"id,string"`
}

// NewFungibleTokenPacketData constructs a new FungibleTokenPacketData instance
func NewFungibleTokenPacketData(
	denom string, amount string,
	sender, receiver string,
	memo string,
	action *PacketAction,
) FungibleTokenPacketData {
	return FungibleTokenPacketData{
		Denom:    denom,
		Amount:   amount,
		Sender:   sender,
		Receiver: receiver,
		Memo:     memo,
		Action:   action,
	}
}

// DecodePacketData unmarshals the packet payload and validates it. Unknown fields are ignored.
func DecodePacketData(bz []byte) (FungibleTokenPacketData, error) {
	var data FungibleTokenPacketData
	if err := json.Unmarshal(bz, &data); err != nil {
		return FungibleTokenPacketData{}, errorsmod.Wrapf(ErrInvalidPacketData, "cannot unmarshal ICS-20 swap packet data: %s", err)
	}

	if err := data.ValidateBasic(); err != nil {
		return FungibleTokenPacketData{}, err
	}

	return data, nil
}

// ValidateBasic is used for validating the token transfer.
// NOTE: The addresses formats are not validated as the sender and recipient can have different
// formats defined by their corresponding chains that are not known to IBC.
func (ftpd FungibleTokenPacketData) ValidateBasic() error {
	// JSON encoding replaces invalid bytes, so such fields would not survive the wire
	for _, field := range []struct{ name, value string }{
		{"denom", ftpd.Denom},
		{"amount", ftpd.Amount},
		{"sender", ftpd.Sender},
		{"receiver", ftpd.Receiver},
		{"memo", ftpd.Memo},
	} {
		if !utf8.ValidString(field.value) {
			return errorsmod.Wrapf(ErrInvalidPacketData, "%s must be valid UTF-8", field.name)
		}
	}

	if strings.TrimSpace(ftpd.Denom) == "" {
		return errorsmod.Wrap(ErrInvalidPacketData, "denom cannot be blank")
	}
	if strings.TrimSpace(ftpd.Amount) == "" {
		return errorsmod.Wrap(ErrInvalidPacketData, "amount cannot be blank")
	}
	if strings.TrimSpace(ftpd.Receiver) == "" {
		return errorsmod.Wrap(ErrInvalidPacketData, "receiver address cannot be blank")
	}
	if strings.TrimSpace(ftpd.Sender) == "" {
		return errorsmod.Wrap(ErrInvalidPacketData, "sender address cannot be blank")
	}

	amount, ok := sdkmath.NewIntFromString(ftpd.Amount)
	if !ok {
		return errorsmod.Wrapf(ErrInvalidAmount, "unable to parse transfer amount (%s) into math.Int", ftpd.Amount)
	}
	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "amount must be strictly positive: got %s", amount)
	}

	if len(ftpd.Receiver) > MaximumReceiverLength {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "receiver address must not exceed %d bytes", MaximumReceiverLength)
	}
	if len(ftpd.Memo) > MaximumMemoLength {
		return errorsmod.Wrapf(ErrInvalidMemo, "memo must not exceed %d bytes", MaximumMemoLength)
	}

	if ftpd.Action != nil {
		if err := ftpd.Action.ValidateBasic(); err != nil {
			return err
		}
	}

	return ValidatePrefixedDenom(ftpd.Denom)
}

// GetBytes is a helper for serialising
func (ftpd FungibleTokenPacketData) GetBytes() []byte {
	bz, err := json.Marshal(ftpd)
	if err != nil {
		panic(err)
	}
	return sdk.MustSortJSON(bz)
}

// GetAmount returns the parsed amount. The packet data must have passed ValidateBasic.
func (ftpd FungibleTokenPacketData) GetAmount() sdkmath.Int {
	amount, ok := sdkmath.NewIntFromString(ftpd.Amount)
	if !ok {
		return sdkmath.ZeroInt()
	}
	return amount
}

// ValidateBasic checks the action is well formed. Whether the action can succeed is only
// known while the packet is received.
func (a PacketAction) ValidateBasic() error {
	conversions := 0
	for _, set := range []bool{a.Swap != nil, a.JoinPool != nil, a.ExitPool != nil} {
		if set {
			conversions++
		}
	}

	if conversions == 0 && a.Lock == nil && a.Unlock == nil {
		return errorsmod.Wrap(ErrInvalidAction, "action must set one of swap, join_pool, exit_pool, lock or unlock")
	}
	if conversions > 1 {
		return errorsmod.Wrap(ErrInvalidAction, "only one of swap, join_pool and exit_pool may be set")
	}
	if a.Unlock != nil && (conversions > 0 || a.Lock != nil) {
		return errorsmod.Wrap(ErrInvalidAction, "unlock cannot be combined with other actions")
	}

	switch {
	case a.Swap != nil:
		return a.Swap.ValidateBasic()
	case a.JoinPool != nil:
		return a.JoinPool.ValidateBasic()
	case a.ExitPool != nil:
		return a.ExitPool.ValidateBasic()
	}

	return nil
}

// ValidateBasic checks the route and minimum output.
func (s SwapAction) ValidateBasic() error {
	if len(s.Routes) == 0 {
		return errorsmod.Wrap(ErrInvalidSwapRoute, "swap routes cannot be empty")
	}
	if len(s.Routes) > MaximumSwapRoutes {
		return errorsmod.Wrapf(ErrInvalidSwapRoute, "swap routes must not exceed %d hops", MaximumSwapRoutes)
	}
	for i, route := range s.Routes {
		if err := sdk.ValidateDenom(route.TokenOutDenom); err != nil {
			return errorsmod.Wrapf(ErrInvalidSwapRoute, "invalid token out denom at hop %d: %s", i, err)
		}
	}

	if _, err := s.MinOut(); err != nil {
		return err
	}

	return nil
}

// MinOut returns the minimum acceptable swap output. An empty value means zero.
func (s SwapAction) MinOut() (sdkmath.Int, error) {
	return parseMinAmount("token out", s.TokenOutMinAmount)
}

// ValidateBasic checks the minimum share output.
func (j JoinPoolAction) ValidateBasic() error {
	_, err := j.MinShares()
	return err
}

// MinShares returns the minimum acceptable amount of pool shares. An empty value means zero.
func (j JoinPoolAction) MinShares() (sdkmath.Int, error) {
	return parseMinAmount("share out", j.ShareOutMinAmount)
}

// ValidateBasic checks the output denom and minimum output.
func (e ExitPoolAction) ValidateBasic() error {
	if err := sdk.ValidateDenom(e.TokenOutDenom); err != nil {
		return errorsmod.Wrapf(ErrInvalidSwapRoute, "invalid token out denom: %s", err)
	}

	_, err := e.MinOut()
	return err
}

// MinOut returns the minimum acceptable exit output. An empty value means zero.
func (e ExitPoolAction) MinOut() (sdkmath.Int, error) {
	return parseMinAmount("token out", e.TokenOutMinAmount)
}

func parseMinAmount(name, value string) (sdkmath.Int, error) {
	if strings.TrimSpace(value) == "" {
		return sdkmath.ZeroInt(), nil
	}

	minAmount, ok := sdkmath.NewIntFromString(value)
	if !ok || minAmount.IsNegative() {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "invalid %s min amount (%s)", name, value)
	}

	return minAmount, nil
}

// TokenOutDenom returns the denomination produced by the last hop.
func (s SwapAction) TokenOutDenom() string {
	if len(s.Routes) == 0 {
		return ""
	}
	return s.Routes[len(s.Routes)-1].TokenOutDenom
}
