package generator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokens(t *testing.T) {
	tokens, err := NewTokens("")
	require.NoError(t, err)
	assert.IsType(t, UUIDTokens{}, tokens)

	tokens, err = NewTokens("ULID")
	require.NoError(t, err)
	assert.IsType(t, ULIDTokens{}, tokens)

	_, err = NewTokens("sha1")
	assert.ErrorIs(t, err, ErrUnknownTokenFormat)
}

func TestUUIDTokens_AreDistinctV4(t *testing.T) {
	a := UUIDTokens{}.Token()
	b := UUIDTokens{}.Token()

	assert.NotEqual(t, a, b)
	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestULIDTokens_AreDistinctAndParse(t *testing.T) {
	a := ULIDTokens{}.Token()
	b := ULIDTokens{}.Token()

	assert.NotEqual(t, a, b)
	_, err := ulid.Parse(a)
	assert.NoError(t, err)
}

func TestTimerDelay_Waits(t *testing.T) {
	start := time.Now()
	err := TimerDelay{}.Wait(context.Background(), 20*time.Millisecond)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestTimerDelay_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := TimerDelay{}.Wait(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
