package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/financetracker/output"
)

// slowThreshold marks timings worth highlighting.
const slowThreshold = 100 * time.Millisecond

// writeTree prints a root and its descendants:
//
//	month 2026-01: 12ms
//	├─ store.load expenses.json: 3ms
//	└─ store.load budget.json: 1ms
func writeTree(w io.Writer, root *span) {
	styles := output.NewStyles(w)

	_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Keyword(root.name), formatDuration(root.duration()))
	for i, child := range root.children {
		writeNode(w, styles, child, "", i == len(root.children)-1)
	}
}

func writeNode(w io.Writer, styles *output.Styles, s *span, prefix string, last bool) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	d := s.duration()
	timing := styles.Dim(formatDuration(d))
	if d >= slowThreshold {
		timing = styles.Warning(formatDuration(d))
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), s.name, timing)

	for i, child := range s.children {
		writeNode(w, styles, child, prefix+extension, i == len(s.children)-1)
	}
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
