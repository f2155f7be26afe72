// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"raceward/internal/core/domain"
)

// OutputTable prints a terminal-readable verdict table.
func OutputTable(result *domain.HarnessResult) error {
	return writeTable(os.Stdout, result)
}

func writeTable(out io.Writer, result *domain.HarnessResult) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)

	fmt.Fprintf(w, "\n=== raceward Verification Results ===\n")
	fmt.Fprintf(w, "Run:\t%s\n", result.ID)
	fmt.Fprintf(w, "Toolchain:\t%s\n", result.Toolchain)
	fmt.Fprintf(w, "Duration:\t%s\n\n", result.Metadata.Duration)

	fmt.Fprintln(w, "CONFIGURATION\tOUTCOME\tFINDINGS\tSUPPRESSED")
	fmt.Fprintln(w, "-------------\t-------\t--------\t----------")

	for _, r := range result.Results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
			r.Config.Key(),
			r.Outcome,
			r.UnsuppressedCount(),
			r.SuppressedCount(),
		)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	// Per-finding detail, grouped by configuration
	for _, r := range result.Results {
		if len(r.Findings) == 0 && r.Err == "" {
			continue
		}
		fmt.Fprintf(out, "\n[%s]\n", r.Config.Key())
		if r.Err != "" {
			fmt.Fprintf(out, "  resolution error: %s\n", r.Err)
		}
		for i, f := range r.Findings {
			fmt.Fprintf(out, "  %d. %s\n", i+1, f.Summary())
		}
	}

	fmt.Fprintln(out)
	return nil
}
