package types

// ICS20 swap events
const (
	EventTypeTimeout         = "timeout"
	EventTypePacket          = "fungible_token_packet"
	EventTypeTransfer        = "ibc_transfer"
	EventTypeDenom           = "denomination"
	EventTypeSwap            = "swap_on_receive"
	EventTypeJoinPool        = "join_pool_on_receive"
	EventTypeExitPool        = "exit_pool_on_receive"
	EventTypeActionDowngrade = "action_downgrade"
	EventTypeLock            = "lock"
	EventTypeDepositLockup   = "deposit_lockup"
	EventTypeWithdrawLockup  = "withdraw_lockup"

	AttributeKeySender         = "sender"
	AttributeKeyReceiver       = "receiver"
	AttributeKeyDenom          = "denom"
	AttributeKeyAmount         = "amount"
	AttributeKeyMemo           = "memo"
	AttributeKeyRefundReceiver = "refund_receiver"
	AttributeKeyRefundDenom    = "refund_denom"
	AttributeKeyRefundAmount   = "refund_amount"
	AttributeKeyAckSuccess     = "success"
	AttributeKeyAck            = "acknowledgement"
	AttributeKeyAckError       = "error"
	AttributeKeyTraceHash      = "trace_hash"
	AttributeKeyAction         = "action"
	AttributeKeyTokenIn        = "token_in"
	AttributeKeyTokenOut       = "token_out"
	AttributeKeyOwner          = "owner"
	AttributeKeyPositionID     = "position_id"
	AttributeKeyUnlockTime     = "unlock_time"
	AttributeKeySequence       = "sequence"
)
