package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
)

// Action names reported in acknowledgement result bodies.
const (
	ActionSwap            = "swap"
	ActionLock            = "lock"
	ActionUnlock          = "unlock"
	ActionSwapAndLock     = "swap_and_lock"
	ActionJoinPool        = "join_pool"
	ActionJoinPoolAndLock = "join_pool_and_lock"
	ActionExitPool        = "exit_pool"
	ActionExitPoolAndLock = "exit_pool_and_lock"
)

// ActionResult is the success acknowledgement body returned when a packet carried an action.
// Downgraded is set when the action failed and the receiver kept the plain credited tokens.
// Only the ABCI codespace and code of the failure are kept since the body is committed.
type ActionResult struct {
	Action         string `json:"action"`
	Denom          string `json:"denom"`
	Amount         string `json:"amount"`
	PositionID     uint64 `json:"position_id,omitempty"`
	Downgraded     bool   `json:"downgraded,omitempty"`
	ErrorCodespace string `json:"error_codespace,omitempty"`
	ErrorCode      uint32 `json:"error_code,omitempty"`
}

// SetError marks the result downgraded by err.
func (r *ActionResult) SetError(err error) {
	r.Downgraded = true
	r.ErrorCodespace, r.ErrorCode, _ = errorsmod.ABCIInfo(err, false)
}

// IsError reports whether the result was downgraded by an error registered as target.
func (r ActionResult) IsError(target *errorsmod.Error) bool {
	return r.Downgraded && r.ErrorCodespace == target.Codespace() && r.ErrorCode == target.ABCICode()
}

// GetBytes returns the sorted JSON encoding of the result.
func (r ActionResult) GetBytes() []byte {
	bz, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	return sdk.MustSortJSON(bz)
}

// NewSuccessAcknowledgement returns the success acknowledgement for a receive. Plain
// transfers acknowledge with the single byte 1.
func NewSuccessAcknowledgement(result *ActionResult) channeltypes.Acknowledgement {
	if result == nil {
		return channeltypes.NewResultAcknowledgement([]byte{byte(1)})
	}
	return channeltypes.NewResultAcknowledgement(result.GetBytes())
}

// ParseActionResult decodes the result body of a success acknowledgement carrying an action.
func ParseActionResult(bz []byte) (ActionResult, error) {
	var result ActionResult
	if err := json.Unmarshal(bz, &result); err != nil {
		return ActionResult{}, errorsmod.Wrapf(ErrInvalidAcknowledgement, "cannot unmarshal action result: %s", err)
	}
	return result, nil
}
