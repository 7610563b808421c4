// Package cliutil formats the human-facing summary line the CLI prints
// after each run: surviving-cell counts and a rough memory estimate, in
// color when stdout is a terminal. This is purely presentational and is
// never imported by the core packages (interval/ast/geom/morton/mesh).
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	ansiBold  = "\x1b[1m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// Summary holds the counters the CLI reports after a run.
type Summary struct {
	RunID        string
	Level        int
	SolutionSize int
	VertexCount  int
	EdgeCount    int
}

// estimatedBytes approximates VertexMap/EdgeSet/SolutionMap memory: each
// solution_map entry holds a Morton key and a 6-float box, each vertex
// entry a key and a 3-float vector, each edge entry two keys.
func (s Summary) estimatedBytes() uint64 {
	const keyBytes = 8
	const boxBytes = keyBytes + 6*4
	const vertexBytes = keyBytes + 3*4
	const edgeBytes = 2 * keyBytes
	return uint64(s.SolutionSize)*boxBytes + uint64(s.VertexCount)*vertexBytes + uint64(s.EdgeCount)*edgeBytes
}

// Fprint writes the summary to w, using color only when w is an *os.File
// attached to a terminal, deferring to isatty before emitting ANSI
// escapes. A writer that merely wraps a terminal gets no color.
func Fprint(w io.Writer, s Summary) {
	bold, green, reset := "", "", ""
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		bold, green, reset = ansiBold, ansiGreen, ansiReset
	}
	fmt.Fprintf(w, "%srun %s%s level %d: %s%s%s cells, %s vertices, %s edges (~%s)\n",
		bold, s.RunID, reset,
		s.Level,
		green, humanize.Comma(int64(s.SolutionSize)), reset,
		humanize.Comma(int64(s.VertexCount)),
		humanize.Comma(int64(s.EdgeCount)),
		humanize.Bytes(s.estimatedBytes()))
}
