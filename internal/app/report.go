package app

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/ui/output"
	"go.trai.ch/marshal/internal/ui/style"
)

// printReport writes one line per task of report, failures last.
func printReport(w io.Writer, workload string, report *domain.Report) {
	out := output.New(w)

	names := make([]string, 0, len(report.Results))
	for name := range report.Results {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := rank(report.Results[a].Outcome) - rank(report.Results[b].Outcome); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	_, _ = fmt.Fprintf(w, "%s\n", out.String(workload).Bold())
	for _, name := range names {
		res := report.Results[name]
		switch res.Outcome {
		case domain.OutcomeSucceeded:
			_, _ = fmt.Fprintf(w, "  %s %s built in %v\n", paint(out, style.Check, style.Green), name, res.Duration.Round(time.Millisecond))
		case domain.OutcomeUpToDate:
			_, _ = fmt.Fprintf(w, "  %s %s up to date\n", paint(out, style.Tilde, style.Slate), name)
		case domain.OutcomeFailed:
			_, _ = fmt.Fprintf(w, "  %s %s failed: %v\n", paint(out, style.Cross, style.Red), name, res.Err)
		case domain.OutcomeBlocked:
			_, _ = fmt.Fprintf(w, "  %s %s blocked by %s\n", paint(out, style.Warning, style.Yellow), name, res.BlockedBy)
		}
	}
}

func paint(out *termenv.Output, icon string, color lipgloss.Color) string {
	return out.String(icon).Foreground(termenv.RGBColor(string(color))).String()
}

func rank(o domain.Outcome) int {
	switch o {
	case domain.OutcomeUpToDate:
		return 0
	case domain.OutcomeSucceeded:
		return 1
	case domain.OutcomeBlocked:
		return 2
	default:
		return 3
	}
}
