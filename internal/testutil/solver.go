package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SolverOutput renders text in the shape the solver writes to out/out.txt.
// solutionMillis lists the elapsed time of each reported solution.
func SolverOutput(runtimeSeconds int, timedOut bool, solutionMillis ...int) string {
	var b strings.Builder
	b.WriteString("DSE starting\n")
	for i, ms := range solutionMillis {
		fmt.Fprintf(&b, "Solution number: %d, after %d ms\n", i+1, ms)
	}
	if timedOut {
		b.WriteString("search ended due to time-out\n")
	} else {
		b.WriteString("search ended normally\n")
	}
	fmt.Fprintf(&b, "%d solutions found\n", len(solutionMillis))
	fmt.Fprintf(&b, "search ended after: %d s\n", runtimeSeconds)
	return b.String()
}

// WriteFakeSolver writes an executable shell script named name into dir.
// It accepts the solver's flags and writes output to <--output>/out/out.txt,
// then exits with exitCode. It returns the script path.
func WriteFakeSolver(t *testing.T, dir, name, output string, exitCode int) string {
	t.Helper()

	script := fmt.Sprintf(`#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift ;;
  esac
  shift
done
mkdir -p "${out}out"
cat > "${out}out/out.txt" <<'SOLVER_EOF'
%sSOLVER_EOF
echo "fake solver done"
exit %d
`, output, exitCode)

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}
