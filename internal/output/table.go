package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
)

// ANSI color codes for instance state output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[0;32m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
)

// TableOptions controls which columns RenderTable renders and how state is coloured.
type TableOptions struct {
	// Colored wraps state labels with ANSI codes. Default false (CI-safe).
	Colored bool

	// IncludeType adds a TYPE column.
	IncludeType bool

	// IncludeRegion adds a REGION column.
	IncludeRegion bool
}

func stateColor(state string) string {
	switch state {
	case "running":
		return ansiGreen
	case "stopped", "terminated", "shutting-down":
		return ansiRed
	case "pending", "stopping":
		return ansiYellow
	default:
		return ""
	}
}

// ColorState wraps an instance state with ANSI codes when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func ColorState(state string, colored bool) string {
	code := stateColor(state)
	if !colored || code == "" {
		return state
	}
	return code + state + ansiReset
}

// stateCell returns the state padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are plain
// so subsequent columns stay aligned.
func stateCell(state string, width int, colored bool) string {
	code := stateColor(state)
	if !colored || code == "" {
		return fmt.Sprintf("%-*s", width, state)
	}
	spaces := width - len(state)
	if spaces < 0 {
		spaces = 0
	}
	return code + state + ansiReset + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max runes for ID/label columns.
// A single-char ellipsis replaces the last rune when truncation occurs.
func truncateField(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// RenderTable writes a formatted instance table to w.
//
// Column order:
//
//	INSTANCE ID  NAME  STATE  [TYPE]  [REGION]
func RenderTable(w io.Writer, instances []models.InstanceRecord, opts TableOptions) {
	if len(instances) == 0 {
		fmt.Fprintln(w, "No instances found.")
		return
	}

	const (
		wID     = 21
		wName   = 30
		wState  = 13
		wType   = 14
		wRegion = 15
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wID, "INSTANCE ID"))
	hb.WriteString(fmt.Sprintf("  %-*s", wName, "NAME"))
	hb.WriteString(fmt.Sprintf("  %-*s", wState, "STATE"))
	if opts.IncludeType {
		hb.WriteString(fmt.Sprintf("  %-*s", wType, "TYPE"))
	}
	if opts.IncludeRegion {
		hb.WriteString(fmt.Sprintf("  %-*s", wRegion, "REGION"))
	}
	header := strings.TrimRight(hb.String(), " ")

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range instances {
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wID, truncateField(r.ID, wID)))
		rb.WriteString(fmt.Sprintf("  %-*s", wName, truncateField(r.Name, wName)))
		rb.WriteString("  " + stateCell(r.State, wState, opts.Colored))
		if opts.IncludeType {
			rb.WriteString(fmt.Sprintf("  %-*s", wType, truncateField(r.InstanceType, wType)))
		}
		if opts.IncludeRegion {
			rb.WriteString(fmt.Sprintf("  %-*s", wRegion, truncateField(r.Region, wRegion)))
		}
		fmt.Fprintln(w, strings.TrimRight(rb.String(), " "))
	}
}

// RenderSummary writes the run summary for result to w: account header,
// cost line, artifact locations, then the instance table.
func RenderSummary(w io.Writer, result *models.ReportResult, opts TableOptions) {
	fmt.Fprintf(w, "Account:  %s\n", result.AccountID)
	fmt.Fprintf(w, "Region:   %s\n", result.Region)
	fmt.Fprintf(w, "Date:     %s\n", result.Date)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Instances:   %d\n", len(result.Instances))
	fmt.Fprintf(w, "Total Cost:  %s %s (%s to %s)\n",
		result.Cost.AmountString(), result.Cost.Unit, result.Cost.PeriodStart, result.Cost.PeriodEnd)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Report:   %s (%d page(s))\n", result.LocalPath, result.Pages)
	switch {
	case result.Uploaded:
		fmt.Fprintf(w, "Uploaded: s3://%s/%s\n", result.Bucket, result.Key)
	case result.Key != "":
		fmt.Fprintf(w, "Uploaded: FAILED (s3://%s/%s)\n", result.Bucket, result.Key)
	default:
		fmt.Fprintln(w, "Uploaded: skipped")
	}
	fmt.Fprintln(w)
	RenderTable(w, result.Instances, opts)
}
