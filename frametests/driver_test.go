package frametests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetFreePort(t *testing.T) {
	port, err := GetFreePort(t.Context())
	require.NoError(t, err)
	require.Positive(t, port)
}

func TestNewMemCatalogBucket(t *testing.T) {
	ctx := t.Context()
	bucket, err := NewMemCatalogBucket(ctx, map[string]string{
		"i18n/messages.en-US.toml": `hi = "Hi"`,
	})
	require.NoError(t, err)
	defer bucket.Close()

	content, err := bucket.ReadAll(ctx, "i18n/messages.en-US.toml")
	require.NoError(t, err)
	require.Equal(t, `hi = "Hi"`, string(content))
}

func TestWaitForCondition(t *testing.T) {
	calls := 0
	err := WaitForCondition(t.Context(), func() bool {
		calls++
		return calls == 3
	}, time.Second, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	err = WaitForCondition(t.Context(), func() bool { return false }, 10*time.Millisecond, time.Millisecond)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	err = WaitForCondition(ctx, func() bool { return false }, time.Second, 10*time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
}
