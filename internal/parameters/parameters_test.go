package parameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigString(t *testing.T) {
	params := NewFromConfigString("seed=42,speed=3,watch,label=a=b")
	assert.Equal(t, Params{"seed": "42", "speed": "3", "watch": "", "label": "a=b"}, params)

	assert.Empty(t, NewFromConfigString(""))
}

func TestPopParamOr(t *testing.T) {
	params := NewFromConfigString("seed=42,distance=10000,speed=1.5,watch")

	seed, err := PopParamOr(params, "seed", uint64(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), seed)

	distance, err := PopParamOr(params, "distance", int32(100))
	require.NoError(t, err)
	assert.Equal(t, int32(10_000), distance)

	speed, err := PopParamOr(params, "speed", float64(1))
	require.NoError(t, err)
	assert.Equal(t, 1.5, speed)

	// A key without a value reads as true for bools.
	watch, err := PopParamOr(params, "watch", false)
	require.NoError(t, err)
	assert.True(t, watch)

	// Missing keys fall back to the default.
	budget, err := PopParamOr(params, "budget", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, budget)

	assert.NoError(t, CheckExhausted(params))
}

func TestCheckExhausted(t *testing.T) {
	params := NewFromConfigString("seed=42,tyop=1")
	_, err := PopParamOr(params, "seed", uint64(0))
	require.NoError(t, err)

	err = CheckExhausted(params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tyop")
}

func TestParseErrors(t *testing.T) {
	params := NewFromConfigString("seed=abc,watch=maybe")
	_, err := GetParamOr(params, "seed", uint64(0))
	assert.Error(t, err)
	_, err = GetParamOr(params, "watch", false)
	assert.Error(t, err)
}
