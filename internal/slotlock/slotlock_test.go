package slotlock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVenueDateKey(t *testing.T) {
	assert.Equal(t, "slotlock:venue:v1:2025-06-01", VenueDateKey("v1", "2025-06-01"))
}

func TestMemoryLockerSerializesSameKey(t *testing.T) {
	l := NewMemoryLocker(0)
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "k")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Zero(t, l.size(), "released keys are dropped")
}

func TestMemoryLockerIndependentKeys(t *testing.T) {
	l := NewMemoryLocker(time.Second)
	ctx := context.Background()

	releaseA, err := l.Acquire(ctx, "a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := l.Acquire(ctx, "b")
	require.NoError(t, err)
	releaseB()
}

func TestMemoryLockerTimeoutAndCancel(t *testing.T) {
	l := NewMemoryLocker(10 * time.Millisecond)

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	_, err = l.Acquire(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)

	unbounded := NewMemoryLocker(0)
	_, err = unbounded.Acquire(context.Background(), "k")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = unbounded.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)

	// Double release must not unlock a later holder.
	release()
	release()
	again, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	_, err = l.Acquire(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)
	again()
}

func TestMemoryLockerDropsIdleKeys(t *testing.T) {
	l := NewMemoryLocker(5 * time.Millisecond)
	ctx := context.Background()

	for day := 1; day <= 30; day++ {
		release, err := l.Acquire(ctx, VenueDateKey("v1", time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")))
		require.NoError(t, err)
		release()
	}
	assert.Zero(t, l.size())

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	_, err = l.Acquire(ctx, "k")
	require.ErrorIs(t, err, ErrLockTimeout)
	assert.Equal(t, 1, l.size(), "a timed-out waiter leaves the holder's slot in place")

	release()
	release()
	assert.Zero(t, l.size(), "a repeated release does not underflow")

	again, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, l.size())
	again()
	assert.Zero(t, l.size())
}

func newTestRedisLocker(t *testing.T, cfg RedisConfig) (*RedisLocker, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	l := NewRedisLocker(db, cfg, zap.NewNop())
	l.newToken = func() string { return "token-1" }
	return l, mock
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	l, mock := newTestRedisLocker(t, RedisConfig{TTL: 10 * time.Second, Wait: time.Second, RetryInterval: time.Millisecond})

	mock.ExpectSetNX("k", "token-1", 10*time.Second).SetVal(true)
	mock.ExpectEval(unlockScript, []string{"k"}, "token-1").SetVal(int64(1))

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	release()

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerRetriesWhileHeld(t *testing.T) {
	l, mock := newTestRedisLocker(t, RedisConfig{TTL: 10 * time.Second, Wait: time.Second, RetryInterval: time.Millisecond})

	mock.ExpectSetNX("k", "token-1", 10*time.Second).SetVal(false)
	mock.ExpectSetNX("k", "token-1", 10*time.Second).SetVal(false)
	mock.ExpectSetNX("k", "token-1", 10*time.Second).SetVal(true)

	_, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerTimesOut(t *testing.T) {
	l, mock := newTestRedisLocker(t, RedisConfig{TTL: 10 * time.Second, Wait: 5 * time.Millisecond, RetryInterval: 10 * time.Millisecond})

	mock.ExpectSetNX("k", "token-1", 10*time.Second).SetVal(false)

	_, err := l.Acquire(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerBackendError(t *testing.T) {
	l, mock := newTestRedisLocker(t, DefaultRedisConfig())

	mock.ExpectSetNX("k", "token-1", 10*time.Second).SetErr(errors.New("connection refused"))

	_, err := l.Acquire(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
