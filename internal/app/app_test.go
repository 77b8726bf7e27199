package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scalgrid/internal/config"
	"github.com/vk/scalgrid/internal/expid"
	"github.com/vk/scalgrid/internal/generator"
	"github.com/vk/scalgrid/internal/lock"
	"github.com/vk/scalgrid/internal/results"
	"github.com/vk/scalgrid/internal/runner"
	"github.com/vk/scalgrid/internal/testutil"
)

// cannedLauncher writes the same solver log for every invocation.
type cannedLauncher struct {
	mu     sync.Mutex
	output string
	calls  int
}

func (c *cannedLauncher) Launch(ctx context.Context, inv runner.Invocation) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	out := filepath.Join(inv.Dir, filepath.FromSlash(inv.Args[len(inv.Args)-1]), filepath.FromSlash(runner.OutputFile))
	return os.WriteFile(out, []byte(c.output), 0o644)
}

// setupAppTest creates an App over a fresh workspace holding two
// single-channel applications and a solver binary.
func setupAppTest(t *testing.T, mutate func(cfg *Config)) (*App, string, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	ws := testutil.NewWorkspace(t, map[string]string{
		"a_sobel.xml":  testutil.AppXML("sobel", 1),
		"b_cyclic.xml": testutil.AppXML("cyclic", 1),
	})
	testutil.WriteFiles(t, ws, map[string]string{"bin/adse": "#!/bin/sh\n"})

	cfg := &Config{Model: *config.Default(), LogFormat: "text", LogLevel: "debug"}
	cfg.Workspace.Root = ws
	cfg.Solver.BinPath = filepath.Join(ws, "bin")
	cfg.Lock.PollInterval = 10 * time.Millisecond
	if mutate != nil {
		mutate(cfg)
	}
	cfg, err := NewConfig(*cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a := NewApp(out, logs, cfg)

	t.Cleanup(func() {
		if os.Getenv("SCALGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, ws, out, logs
}

func TestNewConfig(t *testing.T) {
	base := Config{Model: *config.Default(), LogFormat: "text", LogLevel: "info"}

	cfg, err := NewConfig(base)
	require.NoError(t, err)
	assert.Equal(t, "TDN-NoC", cfg.Workspace.Platform)

	bad := base
	bad.LogFormat = "xml"
	_, err = NewConfig(bad)
	assert.ErrorContains(t, err, "log-format")

	bad = base
	bad.LogLevel = "trace"
	_, err = NewConfig(bad)
	assert.ErrorContains(t, err, "log-level")

	bad = base
	bad.StatusPort = 70000
	_, err = NewConfig(bad)
	assert.ErrorContains(t, err, "status-port")

	bad = base
	bad.Report.Format = "html"
	_, err = NewConfig(bad)
	assert.ErrorContains(t, err, "report.format")
}

func TestApp_GenerateRunProcess(t *testing.T) {
	// Arrange
	a, ws, out, logs := setupAppTest(t, func(cfg *Config) { cfg.Report.Format = results.FormatCSV })
	launcher := &cannedLauncher{output: testutil.SolverOutput(120, false, 500, 900)}
	a.SetLauncher(launcher)
	ctx := context.Background()

	// Act: generate
	summary, err := a.Generate(ctx, []string{"1"})

	// Assert: {cy,so} x slots 1..2, {so} x 1, {cy} x 1
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Experiments)
	assert.DirExists(t, filepath.Join(ws, "TDN-NoC", "1", "1x1", "2", "cy-so"))

	// Act: run
	res, err := a.Run(ctx, RunOptions{Binary: "adse"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, res.Ran)
	assert.Equal(t, 4, launcher.calls)
	testutil.AssertLockFree(t, filepath.Join(ws, "run.lock"))

	// Act: process
	require.NoError(t, a.Process(ctx, ProcessOptions{Filter: expid.NewFilter("", "1", "")}))

	// Assert
	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus the three slot-1 experiments")
	assert.Equal(t, results.Columns, records[0])
	for _, rec := range records[1:] {
		assert.Equal(t, "1", rec[3])
		assert.Equal(t, "00: 2:00.000", rec[11])
		assert.Equal(t, "00: 0:00.500", rec[13])
		assert.Equal(t, "00: 0:00.900", rec[14])
	}

	testutil.AssertLogged(t, logs, "Generation finished.", "Batch finished.", "Collected results.")
}

func TestApp_ProcessSummary(t *testing.T) {
	a, _, out, _ := setupAppTest(t, nil)
	a.SetLauncher(&cannedLauncher{output: testutil.SolverOutput(10, true, 100)})
	ctx := context.Background()

	_, err := a.Generate(ctx, []string{"1"})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = a.Run(ctx, RunOptions{Binary: "adse", Filter: expid.NewFilter("", "", "so")})
		require.NoError(t, err)
	}

	require.NoError(t, a.Process(ctx, ProcessOptions{Summary: true}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	fields := strings.Fields(lines[1])
	assert.Equal(t, "TDN-NoC/1/1x1/1/so", fields[0])
	assert.Equal(t, "2", fields[1], "runs")
	assert.Equal(t, "2", fields[2], "timeouts")
}

func TestApp_GenerateBadToken(t *testing.T) {
	a, _, _, _ := setupAppTest(t, nil)

	_, err := a.Generate(context.Background(), []string{"4", "x"})

	var sizeErr *generator.SizeError
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, "x", sizeErr.Token)
}

func TestApp_RunMissingBinary(t *testing.T) {
	a, _, _, _ := setupAppTest(t, nil)

	_, err := a.Run(context.Background(), RunOptions{Binary: "missing"})

	assert.ErrorIs(t, err, runner.ErrBinaryNotFound)
}

func TestApp_RunLockTimeout(t *testing.T) {
	a, ws, _, _ := setupAppTest(t, func(cfg *Config) { cfg.Lock.Timeout = 50 * time.Millisecond })
	a.SetLauncher(&cannedLauncher{})

	holder := &lock.FileLock{Path: filepath.Join(ws, "run.lock")}
	h, err := holder.Acquire(context.Background())
	require.NoError(t, err)
	defer h.Release()

	_, err = a.Run(context.Background(), RunOptions{Binary: "adse"})

	assert.ErrorIs(t, err, lock.ErrTimeout)
}

func TestStatusMux(t *testing.T) {
	a, _, _, _ := setupAppTest(t, nil)
	srv := httptest.NewServer(a.statusMux(&runner.Progress{}))
	defer srv.Close()

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		var body bytes.Buffer
		_, err = body.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "OK\n", body.String())
	})

	t.Run("status", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/status")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		var snap runner.Snapshot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
		assert.Equal(t, 0, snap.Total)
		assert.False(t, snap.Finished)
	})

	t.Run("method", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/status", "text/plain", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
