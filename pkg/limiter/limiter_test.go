package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmit_AllowsUpToRate(t *testing.T) {
	l := New(3, time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Admit("client-a"))
	}
	err := l.Admit("client-a")
	require.Error(t, err)
	assert.IsType(t, &RateLimitError{}, err)
}

func TestAdmit_IndependentPerClient(t *testing.T) {
	l := New(1, time.Second)
	require.NoError(t, l.Admit("a"))
	require.NoError(t, l.Admit("b"))
	require.Error(t, l.Admit("a"))
}

func TestAdmit_ExpiredTimestampsAreTrimmed(t *testing.T) {
	base := time.Now()
	l := New(1, time.Second)
	l.now = func() time.Time { return base }

	require.NoError(t, l.Admit("a"))
	require.Error(t, l.Admit("a"))

	l.now = func() time.Time { return base.Add(61 * time.Second) }
	require.NoError(t, l.Admit("a"))
}

func TestWithTimeout_SetsDeadline(t *testing.T) {
	l := New(10, 10*time.Millisecond)
	ctx, cancel := l.WithTimeout(context.Background())
	defer cancel()

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("context did not time out")
	}
}
