// Package reportview renders a report.Report as colored terminal output,
// styled the way cmd/bd-examples colors pass/warn/fail lines.
package reportview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/transitmodel/core/internal/report"
)

var titleCaser = cases.Title(language.English)

// Render writes a human-readable, colored summary of r to w. Color support
// is detected for w via termenv (degrading to plain text when w isn't a
// terminal, or when NO_COLOR is set) and fed into the lipgloss renderer
// that styles the output.
func Render(w io.Writer, r *report.Report) {
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	errorStyle := renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"})
	warnStyle := renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"})
	mutedStyle := renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})
	boldStyle := renderer.NewStyle().Bold(true)

	errs := r.Errors()
	warns := r.Warnings()

	fmt.Fprintln(w, boldStyle.Render(fmt.Sprintf("Report: %d error(s), %d warning(s)", len(errs), len(warns))))
	for _, e := range errs {
		fmt.Fprintf(w, "  %s %s\n", errorStyle.Render("[error]"), formatEntry(e))
	}
	for _, wa := range warns {
		fmt.Fprintf(w, "  %s %s\n", warnStyle.Render("[warn] "), formatEntry(wa))
	}
	if len(errs) == 0 && len(warns) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  (clean)"))
	}
}

// formatEntry humanizes a kebab-case category code (e.g. "network-consolidation")
// into a title-cased label before pairing it with the entry's message.
func formatEntry(e report.Entry) string {
	label := titleCaser.String(strings.ReplaceAll(e.Category, "-", " "))
	return fmt.Sprintf("%s: %s", label, e.Message)
}
