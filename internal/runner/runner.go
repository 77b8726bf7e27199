package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/scalgrid/internal/ctxlog"
	"github.com/vk/scalgrid/internal/expid"
	"github.com/vk/scalgrid/internal/lock"
)

// ErrBinaryNotFound is returned when the solver binary does not exist.
var ErrBinaryNotFound = errors.New("solver binary could not be found")

// DefaultArgs are passed to the solver ahead of --output.
var DefaultArgs = []string{"--dse.th_prop", "MCR"}

// Options configure a batch.
type Options struct {
	Workspace string
	Platform  string
	BinPath   string
	Binary    string
	Args      []string // solver flags between --config and --output; DefaultArgs if nil
	Filter    expid.Filter
}

// Runner executes batches.
type Runner struct {
	Lock     *lock.FileLock
	Launcher Launcher
	Progress *Progress

	now func() time.Time
}

// Result summarizes a batch.
type Result struct {
	Selected int
	Ran      int
	Failed   int
}

// New builds a Runner around a lock and launcher.
func New(l *lock.FileLock, launcher Launcher) *Runner {
	return &Runner{Lock: l, Launcher: launcher, Progress: &Progress{}, now: time.Now}
}

// ResolveBinary joins the binary name onto the bin path and checks it exists.
func ResolveBinary(binPath, binary string) (string, error) {
	path := binary
	if binPath != "" && !filepath.IsAbs(binary) {
		path = filepath.Join(binPath, binary)
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", fmt.Errorf("%s: %w", path, ErrBinaryNotFound)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// Run executes every experiment matching opts. The lock is held for the
// whole batch and released on every return path. A solver that exits with
// an error is logged and the batch continues.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	result := &Result{}

	bin, err := ResolveBinary(opts.BinPath, opts.Binary)
	if err != nil {
		return result, err
	}
	if abs, err := filepath.Abs(bin); err == nil {
		bin = abs
	}
	logger.Info("Running with binary.", "binary", bin)

	if opts.Platform != expid.PlatformTDNNoC {
		logger.Warn("Platform given not implemented. Stopping execution.", "platform", opts.Platform)
		return result, nil
	}

	handle, err := r.Lock.Acquire(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	defer func() {
		if err := handle.Release(); err != nil {
			logger.Error("Failed to release run lock.", "error", err)
		}
	}()

	ids, err := expid.Discover(ctx, opts.Workspace, opts.Platform)
	if err != nil {
		return result, err
	}
	selected := opts.Filter.Apply(ids)
	result.Selected = len(selected)
	logger.Info("Running experiments.", "count", len(selected))

	r.Progress.begin(len(selected), r.now())
	defer r.Progress.end()

	for _, id := range selected {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		failed, err := r.runOne(ctx, bin, id, opts)
		if err != nil {
			return result, err
		}
		result.Ran++
		if failed {
			result.Failed++
		}
	}
	return result, nil
}

// runOne reports solver failure through failed; err is reserved for
// problems that stop the batch.
func (r *Runner) runOne(ctx context.Context, bin string, id expid.Identity, opts Options) (failed bool, err error) {
	ctx = ctxlog.With(ctx, "experiment", id.String())
	logger := ctxlog.FromContext(ctx)
	dir := id.Dir(opts.Workspace)

	run, err := NextRunIndex(dir)
	if err != nil {
		return false, fmt.Errorf("list runs of %s: %w", id, err)
	}
	runDir := filepath.Join(dir, RunDir(run))
	if err := os.MkdirAll(filepath.Join(runDir, "out"), 0o755); err != nil {
		return false, fmt.Errorf("create run directory: %w", err)
	}

	r.Progress.start(id, run)
	logger.Info("Running experiment.", "run", run)

	args := opts.Args
	if args == nil {
		args = DefaultArgs
	}
	rel := filepath.ToSlash(id.RelPath())
	inv := Invocation{
		Binary: bin,
		Dir:    opts.Workspace,
		Args: append(append([]string{"--config", rel + "/" + expid.ConfigFile}, args...),
			"--output", rel+"/"+RunDir(run)+"/"),
	}

	start := r.now()
	launchErr := r.Launcher.Launch(ctx, inv)
	duration := r.now().Sub(start)

	if launchErr != nil {
		if ctx.Err() != nil {
			r.Progress.finish(true)
			return true, ctx.Err()
		}
		logger.Error("Solver exited with an error.", "run", run, "error", launchErr)
	}
	secs := int(duration.Seconds())
	logger.Info(fmt.Sprintf("Duration: %d minutes and %d seconds.", secs/60, secs%60), "run", run, "duration", duration.String())
	logger.Info("End of experiment.", "run", run)

	r.Progress.finish(launchErr != nil)
	return launchErr != nil, nil
}
