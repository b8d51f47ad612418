package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDoStopsAfterSuccess(t *testing.T) {
	p := Policy{Attempts: 5, Base: time.Millisecond, Cap: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), zaptest.NewLogger(t), "flush", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUpAfterAttempts(t *testing.T) {
	p := Policy{Attempts: 3, Base: time.Millisecond, Cap: time.Millisecond}

	calls := 0
	down := errors.New("warehouse down")
	err := p.Do(context.Background(), zaptest.NewLogger(t), "flush", func() error {
		calls++
		return down
	})
	require.ErrorIs(t, err, down)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{Attempts: 3, Base: time.Minute, Cap: time.Minute}
	err := p.Do(ctx, zaptest.NewLogger(t), "flush", func() error {
		return errors.New("never reached a second try")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitDoublesUpToCap(t *testing.T) {
	p := Policy{Attempts: 10, Base: time.Second, Cap: 4 * time.Second}

	assert.Equal(t, time.Second, p.wait(1))
	assert.Equal(t, 2*time.Second, p.wait(2))
	assert.Equal(t, 4*time.Second, p.wait(3))
	assert.Equal(t, 4*time.Second, p.wait(8))
}
