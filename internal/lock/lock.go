// Package lock implements the advisory lock that serializes whole runner
// batches across processes.
//
// The lock is a kernel advisory lock (flock) on a file at a fixed path. The
// kernel drops it when the holding process exits, so a crashed batch never
// leaves the workspace locked and no stale-lock breaking is needed. While
// held, the file records its owner (PID, host, a random token and the
// acquisition time) for diagnostics only; the file itself is never removed.
// The lock is not reentrant: a second Acquire in the same process waits like
// any other.
package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/vk/scalgrid/internal/ctxlog"
)

// DefaultPollInterval matches the historical fixed back-off.
const DefaultPollInterval = 60 * time.Second

// ErrTimeout is returned when Acquire gives up after FileLock.Timeout.
var ErrTimeout = errors.New("timed out waiting for lock")

// Owner is the diagnostic JSON body of a held lock file.
type Owner struct {
	PID        int       `json:"pid"`
	Host       string    `json:"host"`
	Token      string    `json:"token"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// FileLock describes how to take the lock at Path.
type FileLock struct {
	Path string
	// PollInterval is the wait between attempts; DefaultPollInterval if zero.
	PollInterval time.Duration
	// Timeout bounds the whole Acquire; zero waits forever.
	Timeout time.Duration

	now      func() time.Time
	hostname func() (string, error)
}

// Handle is a held lock.
type Handle struct {
	fl    *flock.Flock
	owner Owner
	done  bool
}

// Owner returns the metadata written for this handle.
func (h *Handle) Owner() Owner {
	return h.owner
}

// Acquire blocks until the lock is taken, the context ends, or Timeout
// elapses.
func (l *FileLock) Acquire(ctx context.Context) (*Handle, error) {
	logger := ctxlog.FromContext(ctx).With("lock", l.Path)
	l.defaults()

	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return nil, err
	}

	fl := flock.New(l.Path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", l.Path, err)
	}

	if !ok {
		args := []any{"poll_interval", l.PollInterval.String()}
		if held, err := readOwner(l.Path); err == nil {
			args = append(args, "owner_pid", held.PID, "owner_host", held.Host, "held_since", held.AcquiredAt)
		}
		logger.Info("Checking and waiting for lock file to be clear.", args...)

		waitCtx := ctx
		if l.Timeout > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(ctx, l.Timeout)
			defer cancel()
		}

		ok, err = fl.TryLockContext(waitCtx, l.PollInterval)
		if !ok {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s after %s: %w", l.Path, l.Timeout, ErrTimeout)
			}
			if err == nil {
				err = waitCtx.Err()
			}
			return nil, err
		}
	}

	host, _ := l.hostname()
	owner := Owner{
		PID:        os.Getpid(),
		Host:       host,
		Token:      uuid.NewString(),
		AcquiredAt: l.now().UTC(),
	}
	if err := writeOwner(l.Path, owner); err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("record lock owner %s: %w", l.Path, err)
	}

	logger.Debug("Lock acquired.", "token", owner.Token)
	return &Handle{fl: fl, owner: owner}, nil
}

// Release clears the owner record and drops the lock. Calling it more than
// once is a no-op.
func (h *Handle) Release() error {
	if h == nil || h.done {
		return nil
	}
	h.done = true

	path := h.fl.Path()
	truncErr := os.Truncate(path, 0)
	if errors.Is(truncErr, fs.ErrNotExist) {
		truncErr = nil
	}
	if err := h.fl.Unlock(); err != nil {
		return fmt.Errorf("release %s: %w", path, err)
	}
	if truncErr != nil {
		return fmt.Errorf("clear lock owner %s: %w", path, truncErr)
	}
	return nil
}

func (l *FileLock) defaults() {
	if l.PollInterval <= 0 {
		l.PollInterval = DefaultPollInterval
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.hostname == nil {
		l.hostname = os.Hostname
	}
}

// writeOwner goes through its own descriptor; flock locks belong to the
// locking descriptor, so this neither takes nor drops the lock.
func writeOwner(path string, o Owner) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func readOwner(path string) (Owner, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Owner{}, err
	}
	var o Owner
	if err := json.Unmarshal(raw, &o); err != nil {
		return Owner{}, fmt.Errorf("decode lock owner: %w", err)
	}
	if o.Token == "" {
		return Owner{}, errors.New("lock owner has no token")
	}
	return o, nil
}
