package testutil

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/require"
	"github.com/vk/scalgrid/internal/ctxlog"
)

// AssertLogged checks that the captured log output mentions every fragment,
// so tests do not depend on the exact handler format.
func AssertLogged(t *testing.T, logs *SafeBuffer, fragments ...string) {
	t.Helper()

	out := logs.String()
	for _, f := range fragments {
		require.True(t,
			strings.Contains(out, f),
			"expected log output to contain %q, got:\n%s", f, out,
		)
	}
}

// ContextWithLogger returns ctx carrying a debug-level text logger that
// writes into logs.
func ContextWithLogger(ctx context.Context, logs *SafeBuffer) context.Context {
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(ctx, logger)
}

// AssertLockFree checks that nobody holds the advisory lock at path.
func AssertLockFree(t *testing.T, path string) {
	t.Helper()

	fl := flock.New(path)
	ok, err := fl.TryLock()
	require.NoError(t, err)
	require.True(t, ok, "expected lock %s to be free", path)
	require.NoError(t, fl.Unlock())
}
