package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QueryEscrowBalanceRequest is the request type for the Query/EscrowBalance method.
type QueryEscrowBalanceRequest struct {
	ChannelID string `json:"channel_id"`
	Denom     string `json:"denom"`
}

// QueryEscrowBalanceResponse is the response type for the Query/EscrowBalance method.
type QueryEscrowBalanceResponse struct {
	Escrow ChannelEscrow `json:"escrow"`
}

// QueryChannelRequest is the request type for the Query/Channel method.
type QueryChannelRequest struct {
	PortID    string `json:"port_id"`
	ChannelID string `json:"channel_id"`
}

// QueryChannelResponse lists every escrow entry of a channel.
type QueryChannelResponse struct {
	Escrows []ChannelEscrow `json:"escrows"`
	// EscrowAddress is the account holding escrowed native tokens
	EscrowAddress string `json:"escrow_address"`
}

// QueryPendingTransferRequest is the request type for the Query/PendingTransfer method.
type QueryPendingTransferRequest struct {
	ChannelID string `json:"channel_id"`
	Sequence  uint64 `json:"sequence"`
}

// QueryPendingTransferResponse is the response type for the Query/PendingTransfer method.
type QueryPendingTransferResponse struct {
	PendingTransfer PendingTransfer `json:"pending_transfer"`
}

// QueryLockupPositionRequest is the request type for the Query/LockupPosition method.
type QueryLockupPositionRequest struct {
	Owner      string `json:"owner"`
	PositionID uint64 `json:"position_id"`
}

// QueryLockupPositionResponse is the response type for the Query/LockupPosition method.
type QueryLockupPositionResponse struct {
	Position LockupPosition `json:"position"`
}

// QueryLockupPositionsRequest is the request type for the Query/LockupPositions method.
type QueryLockupPositionsRequest struct {
	Owner string `json:"owner"`
}

// QueryLockupPositionsResponse returns every position of an owner along with the locked
// totals per denomination.
type QueryLockupPositionsResponse struct {
	Positions []LockupPosition `json:"positions"`
	Locked    sdk.Coins        `json:"locked"`
}

// QueryDenomTraceRequest is the request type for the Query/DenomTrace method.
type QueryDenomTraceRequest struct {
	// Hash is either the hex hash of the trace or the full ibc denom (ibc/{hash})
	Hash string `json:"hash"`
}

// QueryDenomTraceResponse is the response type for the Query/DenomTrace method.
type QueryDenomTraceResponse struct {
	DenomTrace DenomTrace `json:"denom_trace"`
}

// QueryParamsRequest is the request type for the Query/Params method.
type QueryParamsRequest struct{}

// QueryParamsResponse is the response type for the Query/Params method.
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryPriceObservationRequest is the request type for the Query/PriceObservation method.
type QueryPriceObservationRequest struct {
	DenomIn  string `json:"denom_in"`
	DenomOut string `json:"denom_out"`
}

// QueryPriceObservationResponse is the response type for the Query/PriceObservation method.
type QueryPriceObservationResponse struct {
	Observation PriceObservation `json:"observation"`
}

// QueryServer is the query service of the swap module.
type QueryServer interface {
	EscrowBalance(context.Context, *QueryEscrowBalanceRequest) (*QueryEscrowBalanceResponse, error)
	Channel(context.Context, *QueryChannelRequest) (*QueryChannelResponse, error)
	PendingTransfer(context.Context, *QueryPendingTransferRequest) (*QueryPendingTransferResponse, error)
	LockupPosition(context.Context, *QueryLockupPositionRequest) (*QueryLockupPositionResponse, error)
	LockupPositions(context.Context, *QueryLockupPositionsRequest) (*QueryLockupPositionsResponse, error)
	DenomTrace(context.Context, *QueryDenomTraceRequest) (*QueryDenomTraceResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	PriceObservation(context.Context, *QueryPriceObservationRequest) (*QueryPriceObservationResponse, error)
}
