package types

import (
	"encoding/json"
	"fmt"
	"reflect"

	collcodec "cosmossdk.io/collections/codec"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
)

// ModuleCdc references the global ics20 swap module codec. It is only used to decode
// channel acknowledgements, which are defined by ibc core as protobuf messages.
var ModuleCdc = codec.NewProtoCodec(codectypes.NewInterfaceRegistry())

var (
	DenomTraceValue       = NewJSONValueCodec[DenomTrace]()
	PendingTransferValue  = NewJSONValueCodec[PendingTransfer]()
	LockupPositionValue   = NewJSONValueCodec[LockupPosition]()
	PriceObservationValue = NewJSONValueCodec[PriceObservation]()
	ParamsValue           = NewJSONValueCodec[Params]()
)

// NewJSONValueCodec returns a collections value codec storing T as canonical JSON.
func NewJSONValueCodec[T any]() collcodec.ValueCodec[T] {
	var zero T
	return jsonValueCodec[T]{typeName: reflect.TypeOf(zero).String()}
}

type jsonValueCodec[T any] struct {
	typeName string
}

func (c jsonValueCodec[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (c jsonValueCodec[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, fmt.Errorf("cannot decode %s: %w", c.typeName, err)
	}
	return value, nil
}

func (c jsonValueCodec[T]) EncodeJSON(value T) ([]byte, error) {
	return c.Encode(value)
}

func (c jsonValueCodec[T]) DecodeJSON(b []byte) (T, error) {
	return c.Decode(b)
}

func (c jsonValueCodec[T]) Stringify(value T) string {
	bz, err := c.Encode(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(bz)
}

func (c jsonValueCodec[T]) ValueType() string {
	return "json/" + c.typeName
}
