package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/bspcheck/pkg/check"
)

var (
	green  = "\033[32m"
	red    = "\033[31m"
	yellow = "\033[33m"
	dim    = "\033[2m"
	reset  = "\033[0m"
)

var sectionStyle = lipgloss.NewStyle().Bold(true)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, yellow, dim, reset = "", "", "", "", ""
	}
}

// RuleWidth is the width of the separator lines around a report.
const RuleWidth = 50

// PrintResult outputs a check result with colored status to stdout.
func PrintResult(r check.Result) {
	FprintResult(os.Stdout, r)
}

// FprintResult outputs a check result with colored status to w.
func FprintResult(w io.Writer, r check.Result) {
	indent := "     "
	if r.OK() {
		fmt.Fprintf(w, "%s[OK]%s %s\n", green, reset, r.Name)
	} else {
		fmt.Fprintf(w, "%s[FAIL]%s %s\n", red, reset, r.Name)
		indent = "       "
	}
	for _, d := range r.Details {
		fmt.Fprintf(w, "%s%s\n", indent, formatLabel(d))
	}
}

// formatLabel dims the "label:" prefix of a detail line.
func formatLabel(s string) string {
	label, rest, ok := strings.Cut(s, ": ")
	if !ok || strings.ContainsAny(label, " /") {
		return s
	}
	return dim + label + ":" + reset + " " + rest
}

// Rule writes a separator line of the given rune.
func Rule(w io.Writer, r rune) {
	fmt.Fprintln(w, strings.Repeat(string(r), RuleWidth))
}

// Section writes a step header.
func Section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", sectionStyle.Render(fmt.Sprintf("==== %s ====", title)))
}

// Warn writes a highlighted, non-fatal notice.
func Warn(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s[WARN]%s %s\n", yellow, reset, msg)
}

// NextSteps writes a numbered list of suggested commands.
func NextSteps(w io.Writer, steps []string) {
	if len(steps) == 0 {
		return
	}
	fmt.Fprintln(w, "\nNext steps:")
	for i, s := range steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}
}

// PrintReport writes every result, the aggregate banner and, when all
// checks passed, the suggested next steps.
func PrintReport(w io.Writer, title string, report check.Report, nextSteps []string) {
	fmt.Fprintln(w, title)
	Rule(w, '=')
	for _, r := range report.Results {
		FprintResult(w, r)
	}
	Rule(w, '=')
	if report.OK() {
		fmt.Fprintf(w, "%sAll %d checks passed.%s\n", green, len(report.Results), reset)
		NextSteps(w, nextSteps)
		return
	}
	fmt.Fprintf(w, "%s%d of %d checks failed. Fix the problems above and run again.%s\n",
		red, len(report.Failed()), len(report.Results), reset)
}

// Truncate shortens s to at most n characters, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n < 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
