package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// OutputFile is where the solver leaves its log, relative to a run directory.
const OutputFile = "out/out.txt"

var runDirRegex = regexp.MustCompile(`^run-(\d+)$`)

// RunDir is the directory name of run n.
func RunDir(n int) string {
	return fmt.Sprintf("run-%d", n)
}

// RunIndex extracts N from a "run-N" name.
func RunIndex(name string) (int, bool) {
	m := runDirRegex.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ListRuns returns the run indices present under an experiment directory, ascending.
func ListRuns(expDir string) ([]int, error) {
	entries, err := os.ReadDir(expDir)
	if err != nil {
		return nil, err
	}
	var runs []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if n, ok := RunIndex(e.Name()); ok {
			runs = append(runs, n)
		}
	}
	sort.Ints(runs)
	return runs, nil
}

// NextRunIndex is one past the highest existing run, or 1.
func NextRunIndex(expDir string) (int, error) {
	runs, err := ListRuns(expDir)
	if err != nil {
		return 0, err
	}
	if len(runs) == 0 {
		return 1, nil
	}
	return runs[len(runs)-1] + 1, nil
}

// OutputPath is the solver log of run n.
func OutputPath(expDir string, n int) string {
	return filepath.Join(expDir, RunDir(n), filepath.FromSlash(OutputFile))
}
