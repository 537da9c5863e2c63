package response

import (
	"encoding/json"
)

// Envelope is the uniform body returned by every endpoint. It is immutable:
// constructors are the only way to set its fields.
type Envelope[T any] struct {
	code    int
	message string
	data    *T
}

type envelopeJSON[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

// RestResult builds an envelope. Every public constructor funnels through
// here so all variants share one shape.
func RestResult[T any](data *T, code int, msg string) Envelope[T] {
	return Envelope[T]{
		code:    code,
		message: msg,
		data:    data,
	}
}

// Ok is a success without data.
func Ok[T any]() Envelope[T] {
	return RestResult[T](nil, Success, MessageSuccessful)
}

// OkData is a success carrying data.
func OkData[T any](data T) Envelope[T] {
	return RestResult(&data, Success, MessageSuccessful)
}

// OkMsg is a success with a caller supplied message and no data.
func OkMsg[T any](msg string) Envelope[T] {
	return RestResult[T](nil, Success, msg)
}

// OkMsgData is a success with a caller supplied message and data.
func OkMsgData[T any](msg string, data T) Envelope[T] {
	return RestResult(&data, Success, msg)
}

// Fail is a failure with the default code and message.
func Fail[T any]() Envelope[T] {
	return RestResult[T](nil, Failure, MessageFailed)
}

// FailMsg is a failure with a caller supplied message.
func FailMsg[T any](msg string) Envelope[T] {
	return RestResult[T](nil, Failure, msg)
}

// FailData is a failure carrying diagnostic data.
func FailData[T any](data T) Envelope[T] {
	return RestResult(&data, Failure, MessageFailed)
}

// FailMsgData is a failure with a caller supplied message and data.
func FailMsgData[T any](msg string, data T) Envelope[T] {
	return RestResult(&data, Failure, msg)
}

// FailCode is a failure with an explicit code.
func FailCode[T any](code int, msg string) Envelope[T] {
	return RestResult[T](nil, code, msg)
}

// FailCodeData is a failure with an explicit code and data.
func FailCodeData[T any](code int, msg string, data T) Envelope[T] {
	return RestResult(&data, code, msg)
}

// Warn flags a completed operation the caller should look at.
func Warn[T any](msg string) Envelope[T] {
	return RestResult[T](nil, StatusWarn, msg)
}

// WarnData flags a completed operation and carries data.
func WarnData[T any](msg string, data T) Envelope[T] {
	return RestResult(&data, StatusWarn, msg)
}

// IsSuccess reports whether the envelope code is Success.
func IsSuccess[T any](e Envelope[T]) bool {
	return e.code == Success
}

// IsError is the negation of IsSuccess. A warning envelope is an error by
// this test even though the operation went through.
func IsError[T any](e Envelope[T]) bool {
	return !IsSuccess(e)
}

func (e Envelope[T]) Code() int {
	return e.code
}

func (e Envelope[T]) Message() string {
	return e.message
}

// Data returns the payload and whether one was attached.
func (e Envelope[T]) Data() (T, bool) {
	if e.data == nil {
		var zero T
		return zero, false
	}
	return *e.data, true
}

// Any erases the payload type so heterogeneous handlers share one writer.
func (e Envelope[T]) Any() Envelope[any] {
	if e.data == nil {
		return RestResult[any](nil, e.code, e.message)
	}
	var v any = *e.data
	return RestResult(&v, e.code, e.message)
}

func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON[T]{
		Code:    e.code,
		Message: e.message,
		Data:    e.data,
	})
}

func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var raw envelopeJSON[T]
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = RestResult(raw.Data, raw.Code, raw.Message)
	return nil
}
