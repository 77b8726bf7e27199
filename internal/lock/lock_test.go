package lock

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLock(t *testing.T) *FileLock {
	t.Helper()
	return &FileLock{
		Path:         filepath.Join(t.TempDir(), "run.lock"),
		PollInterval: 10 * time.Millisecond,
	}
}

func requireFree(t *testing.T, path string) {
	t.Helper()
	fl := flock.New(path)
	ok, err := fl.TryLock()
	require.NoError(t, err)
	require.True(t, ok, "lock at %s is still held", path)
	require.NoError(t, fl.Unlock())
}

func TestAcquireRelease(t *testing.T) {
	l := newLock(t)

	h, err := l.Acquire(context.Background())
	require.NoError(t, err)

	owner, err := readOwner(l.Path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), owner.PID)
	assert.Equal(t, h.Owner().Token, owner.Token)
	assert.NotEmpty(t, owner.Token)

	require.NoError(t, h.Release())
	requireFree(t, l.Path)
	_, err = readOwner(l.Path)
	assert.Error(t, err, "owner record must be cleared on release")
	require.NoError(t, h.Release(), "release must be idempotent")
}

func TestSecondAcquirerBlocksUntilRelease(t *testing.T) {
	// --- Arrange ---
	first := newLock(t)
	h1, err := first.Acquire(context.Background())
	require.NoError(t, err)

	second := &FileLock{Path: first.Path, PollInterval: 10 * time.Millisecond}
	acquired := make(chan *Handle, 1)
	errs := make(chan error, 1)

	// --- Act ---
	go func() {
		h, err := second.Acquire(context.Background())
		if err != nil {
			errs <- err
			return
		}
		acquired <- h
	}()

	// --- Assert ---
	select {
	case <-acquired:
		t.Fatal("second acquirer proceeded while the lock was held")
	case err := <-errs:
		t.Fatalf("second acquirer failed: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, h1.Release())

	select {
	case h2 := <-acquired:
		assert.NotEqual(t, h1.Owner().Token, h2.Owner().Token)
		require.NoError(t, h2.Release())
	case err := <-errs:
		t.Fatalf("second acquirer failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("second acquirer never got the lock after release")
	}
}

func TestAcquire_NotReentrant(t *testing.T) {
	l := newLock(t)
	h, err := l.Acquire(context.Background())
	require.NoError(t, err)
	defer h.Release()

	again := &FileLock{Path: l.Path, PollInterval: 10 * time.Millisecond, Timeout: 50 * time.Millisecond}
	_, err = again.Acquire(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
}

func TestAcquire_LeftoverOwnerRecordDoesNotBlock(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"crashed owner", mustJSON(t, Owner{PID: 424242, Host: "gone", Token: "dead", AcquiredAt: time.Now()})},
		{"legacy empty marker", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLock(t)
			l.Timeout = time.Second
			require.NoError(t, os.WriteFile(l.Path, tt.body, 0o644))

			h, err := l.Acquire(context.Background())

			require.NoError(t, err)
			owner, err := readOwner(l.Path)
			require.NoError(t, err)
			assert.Equal(t, h.Owner().Token, owner.Token)
			require.NoError(t, h.Release())
		})
	}
}

func TestAcquire_ContendedWaitersNeverOverlap(t *testing.T) {
	// --- Arrange ---
	// A leftover record from a crashed owner plus a live holder: every waiter
	// sees the same "old" file, and they must still take turns.
	l := newLock(t)
	require.NoError(t, os.WriteFile(l.Path, mustJSON(t, Owner{PID: 424242, Host: "gone", Token: "dead", AcquiredAt: time.Now()}), 0o644))
	holder, err := l.Acquire(context.Background())
	require.NoError(t, err)

	const waiters = 8
	var (
		mu        sync.Mutex
		active    int
		maxActive int
		tokens    = map[string]bool{}
		wg        sync.WaitGroup
		errs      = make(chan error, waiters)
	)

	// --- Act ---
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := &FileLock{Path: l.Path, PollInterval: 5 * time.Millisecond, Timeout: 10 * time.Second}
			h, err := w.Acquire(context.Background())
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			active++
			maxActive = max(maxActive, active)
			tokens[h.Owner().Token] = true
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			if err := h.Release(); err != nil {
				errs <- err
			}
		}()
	}
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, holder.Release())
	wg.Wait()
	close(errs)

	// --- Assert ---
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, maxActive, "two batches held the lock at once")
	assert.Len(t, tokens, waiters)
	requireFree(t, l.Path)
}

func TestAcquire_ContextCancelled(t *testing.T) {
	l := newLock(t)
	holder, err := l.Acquire(context.Background())
	require.NoError(t, err)
	defer holder.Release()

	waiter := &FileLock{Path: l.Path, PollInterval: 10 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = waiter.Acquire(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func mustJSON(t *testing.T, o Owner) []byte {
	t.Helper()
	raw, err := json.Marshal(o)
	require.NoError(t, err)
	return raw
}
