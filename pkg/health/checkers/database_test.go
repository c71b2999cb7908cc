package checkers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err   error
	delay time.Duration
}

func (f *fakePinger) Ping(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func TestDatabaseChecker(t *testing.T) {
	t.Run("default name", func(t *testing.T) {
		assert.Equal(t, "database", NewDatabaseChecker(&fakePinger{}, "").Name())
		assert.Equal(t, "postgres", NewDatabaseChecker(&fakePinger{}, "postgres").Name())
	})

	t.Run("healthy ping", func(t *testing.T) {
		assert.NoError(t, NewDatabaseChecker(&fakePinger{}, "").Check(context.Background()))
	})

	t.Run("failing ping is wrapped", func(t *testing.T) {
		pingErr := errors.New("connection refused")
		err := NewDatabaseChecker(&fakePinger{err: pingErr}, "").Check(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, pingErr)
		assert.Contains(t, err.Error(), "database ping failed")
	})

	t.Run("respects context deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := NewDatabaseChecker(&fakePinger{delay: time.Second}, "").Check(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("missing pool", func(t *testing.T) {
		assert.Error(t, NewDatabaseChecker(nil, "").Check(context.Background()))
	})
}
