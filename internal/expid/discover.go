// internal/expid/discover.go
package expid

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vk/scalgrid/internal/ctxlog"
	"github.com/vk/scalgrid/internal/fsutil"
)

// Discover walks <workspace>/<platform> and decodes every directory holding a
// config file into an Identity. Directories that do not decode are logged and
// skipped. A missing platform directory yields no experiments.
func Discover(ctx context.Context, workspace, platform string) ([]Identity, error) {
	logger := ctxlog.FromContext(ctx)
	root := filepath.Join(workspace, platform)

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Experiment root does not exist.", "root", root)
		return nil, nil
	}

	dirs, err := fsutil.FindDirsContaining(root, ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to walk experiment root %s: %w", root, err)
	}

	ids := make([]Identity, 0, len(dirs))
	for _, dir := range dirs {
		rel, err := filepath.Rel(workspace, dir)
		if err != nil {
			return nil, err
		}
		id, err := Parse(rel)
		if err != nil {
			logger.Warn("Skipping directory that is not an experiment.", "dir", dir, "error", err)
			continue
		}
		ids = append(ids, id)
	}

	logger.Info("Num of experiments found.", "count", len(ids), "root", root)
	return ids, nil
}
