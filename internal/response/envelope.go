package response

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform shape of every tool response.
type Envelope struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// fallback is emitted when the envelope itself cannot be serialized.
var fallback = fmt.Sprintf(`{"code":%d,"message":%q}`, JSONSerializationError, JSONSerializationError.Message())

// OK wraps a successful result.
func OK(data any) Envelope {
	return Envelope{Code: Success, Message: Success.Message(), Data: data}
}

// Err builds an error envelope without data.
func Err(code Code) Envelope {
	return Envelope{Code: code, Message: code.Message()}
}

// Encode serializes env. It never fails: serialization errors produce the
// hand built JSONSerializationError envelope.
func Encode(env Envelope) string {
	b, err := json.Marshal(env)
	if err != nil {
		return fallback
	}
	return string(b)
}

// Result encodes the outcome of one operation: data on success, otherwise the
// descriptor carried by err.
func Result(data any, err error) (string, Code) {
	if err != nil {
		code := CodeOf(err)
		return Encode(Err(code)), code
	}
	env := OK(data)
	b, mErr := json.Marshal(env)
	if mErr != nil {
		return fallback, JSONSerializationError
	}
	return string(b), Success
}
