package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, text string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out), "envelope must be valid JSON: %s", text)
	return out
}

func TestResultSuccess(t *testing.T) {
	text, code := Result(map[string]any{"count": 2}, nil)
	assert.Equal(t, Success, code)

	env := decode(t, text)
	assert.EqualValues(t, 200, env["code"])
	assert.Equal(t, "success", env["message"])
	assert.Equal(t, map[string]any{"count": float64(2)}, env["data"])
}

func TestResultError(t *testing.T) {
	text, code := Result(nil, Fail(TableNotFound, errors.New("no rows")))
	assert.Equal(t, TableNotFound, code)

	env := decode(t, text)
	assert.EqualValues(t, 5004, env["code"])
	assert.Equal(t, TableNotFound.Message(), env["message"])
	_, hasData := env["data"]
	assert.False(t, hasData, "error envelopes omit data")
}

func TestResultUnclassifiedError(t *testing.T) {
	_, code := Result(nil, errors.New("boom"))
	assert.Equal(t, Internal, code)
}

func TestResultWrappedError(t *testing.T) {
	err := fmt.Errorf("describe: %w", Fail(TableQueryError, nil))
	_, code := Result(nil, err)
	assert.Equal(t, TableQueryError, code)
}

func TestResultSerializationFallback(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{name: "NaN", data: map[string]any{"v": math.NaN()}},
		{name: "channel", data: make(chan int)},
		{name: "function", data: func() {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, code := Result(tt.data, nil)
			assert.Equal(t, JSONSerializationError, code)
			assert.JSONEq(t, `{"code":5002,"message":"failed to serialize JSON"}`, text)
		})
	}
}

func TestEncodeErrorEnvelopeShape(t *testing.T) {
	assert.JSONEq(t,
		`{"code":5001,"message":"database connection is not initialized, call the init tool first"}`,
		Encode(Err(DBConnectionError)))
}

func TestCodesAreKnownAndDistinct(t *testing.T) {
	seen := make(map[Code]bool)
	for _, c := range Codes() {
		assert.True(t, c.Known(), "code %d", c)
		assert.NotEmpty(t, c.Message())
		assert.False(t, seen[c], "duplicate code %d", c)
		seen[c] = true
	}
	assert.False(t, Code(4242).Known())
	assert.Equal(t, Internal.Message(), Code(4242).Message())
}
