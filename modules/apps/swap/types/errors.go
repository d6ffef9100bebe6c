package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ICS20 swap sentinel errors
var (
	ErrInvalidPacketTimeout     = errorsmod.Register(ModuleName, 2, "invalid packet timeout")
	ErrInvalidDenomForTransfer  = errorsmod.Register(ModuleName, 3, "invalid denomination for cross-chain transfer")
	ErrInvalidVersion           = errorsmod.Register(ModuleName, 4, "invalid ICS20 version")
	ErrInvalidAmount            = errorsmod.Register(ModuleName, 5, "invalid token amount")
	ErrTraceNotFound            = errorsmod.Register(ModuleName, 6, "denomination trace not found")
	ErrSendDisabled             = errorsmod.Register(ModuleName, 7, "fungible token transfers from this chain are disabled")
	ErrReceiveDisabled          = errorsmod.Register(ModuleName, 8, "fungible token transfers to this chain are disabled")
	ErrMaxTransferChannels      = errorsmod.Register(ModuleName, 9, "max transfer channels")
	ErrInvalidPacketData        = errorsmod.Register(ModuleName, 10, "invalid packet data")
	ErrInvalidMemo              = errorsmod.Register(ModuleName, 11, "invalid memo")
	ErrInvalidAction            = errorsmod.Register(ModuleName, 12, "invalid packet action")
	ErrPendingTransferNotFound  = errorsmod.Register(ModuleName, 13, "pending transfer not found")
	ErrPendingTransferMismatch  = errorsmod.Register(ModuleName, 14, "packet data does not match pending transfer")
	ErrEscrowUnderflow          = errorsmod.Register(ModuleName, 15, "channel escrow balance underflow")
	ErrEscrowOverflow           = errorsmod.Register(ModuleName, 16, "channel escrow balance overflow")
	ErrInsufficientFunds        = errorsmod.Register(ModuleName, 17, "insufficient funds")
	ErrSwapDisabled             = errorsmod.Register(ModuleName, 18, "swaps on receive are disabled")
	ErrInvalidSwapRoute         = errorsmod.Register(ModuleName, 19, "invalid swap route")
	ErrSlippageExceeded         = errorsmod.Register(ModuleName, 20, "swap slippage exceeds the configured bound")
	ErrMinOutNotMet             = errorsmod.Register(ModuleName, 21, "swap output below minimum amount")
	ErrLockDisabled             = errorsmod.Register(ModuleName, 22, "lockups on receive are disabled")
	ErrInvalidDuration          = errorsmod.Register(ModuleName, 23, "invalid unlock duration")
	ErrNotYetUnlocked           = errorsmod.Register(ModuleName, 24, "lockup position is not yet unlocked")
	ErrAlreadyReleased          = errorsmod.Register(ModuleName, 25, "lockup position already released")
	ErrPositionNotFound         = errorsmod.Register(ModuleName, 26, "lockup position not found")
	ErrInsufficientCredit       = errorsmod.Register(ModuleName, 27, "lock amount exceeds tokens credited through receive")
	ErrAdjustmentRateLimited    = errorsmod.Register(ModuleName, 28, "lockup position already adjusted in this block")
	ErrPriceNotFound            = errorsmod.Register(ModuleName, 29, "price observation not found")
	ErrInvalidAcknowledgement   = errorsmod.Register(ModuleName, 30, "invalid acknowledgement")
	ErrInvalidSlippageParameter = errorsmod.Register(ModuleName, 31, "invalid max slippage parameter")
	ErrPositionUnlocked         = errorsmod.Register(ModuleName, 32, "lockup position already unlocked")
	ErrInvalidPoolShares        = errorsmod.Register(ModuleName, 33, "tokens are not pool shares")
)

// IsRetryable reports whether err signals a condition that may succeed if the same request
// is submitted again at a later block.
func IsRetryable(err error) bool {
	return errorsmod.IsOf(err, ErrNotYetUnlocked, ErrAdjustmentRateLimited)
}
