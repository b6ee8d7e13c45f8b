package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

func render(w io.Writer, format string, results []Result) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printText(w, results)
	return nil
}

func printText(w io.Writer, results []Result) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	failed := 0
	for _, r := range results {
		switch {
		case r.Error != "":
			failed++
			red.Fprint(w, "✗ ")
			bold.Fprintln(w, r.Identifier)
			fmt.Fprintf(w, "    %s\n", r.Error)
		case r.Deployment != nil:
			green.Fprint(w, "✓ ")
			bold.Fprintln(w, r.Identifier)
			fmt.Fprintf(w, "    deployed %s to %s:%s (%s)\n",
				r.Deployment.FileName, r.Deployment.Container, r.Deployment.Directory, r.Deployment.ID)
		case r.Resolved != nil:
			green.Fprint(w, "✓ ")
			bold.Fprintln(w, r.Identifier)
			fmt.Fprintf(w, "    %s -> %s%s\n", r.Resolved.FileName, r.Resolved.Path, formatSize(r.Resolved.Size))
		}
	}

	fmt.Fprintln(w)
	summary := fmt.Sprintf("%d resolved, %d failed", len(results)-failed, failed)
	if failed > 0 {
		red.Fprintln(w, summary)
	} else {
		green.Fprintln(w, summary)
	}
}

func formatSize(size int64) string {
	switch {
	case size <= 0:
		return ""
	case size < 1024:
		return fmt.Sprintf(" (%d B)", size)
	case size < 1024*1024:
		return fmt.Sprintf(" (%.1f KiB)", float64(size)/1024)
	default:
		return fmt.Sprintf(" (%.1f MiB)", float64(size)/(1024*1024))
	}
}
