package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"loom/internal/assemble"
)

// renderSummary prints the per-partition run outcome: a table on terminals,
// one plain line per partition otherwise (so logs and scripts stay grep-able).
func renderSummary(w io.Writer, summary *assemble.Summary) {
	if isTerminal(w) {
		rows := make([][]string, 0, len(summary.Partitions))
		for _, p := range summary.Partitions {
			rows = append(rows, []string{
				p.Part,
				strconv.Itoa(p.Recordings),
				strconv.Itoa(p.Supervisions),
				strconv.Itoa(p.Skips()),
				partitionStatus(p),
			})
		}
		fmt.Fprintln(w, renderTable(
			[]string{"Part", "Recordings", "Supervisions", "Skips", "Status"},
			rows, 1, 2, 3))
		return
	}

	for _, p := range summary.Partitions {
		fmt.Fprintf(w, "part=%s recordings=%d supervisions=%d skips=%d status=%s\n",
			p.Part, p.Recordings, p.Supervisions, p.Skips(), partitionStatus(p))
	}
}

func partitionStatus(p assemble.PartitionOutcome) string {
	if p.Err != nil {
		return "failed: " + p.Err.Error()
	}
	return "ok"
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
