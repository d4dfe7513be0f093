package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// printBanner writes the startup banner. It is the only output visible in
// the terminal during normal operation; all structured logs go to the log
// file instead.
func printBanner(w io.Writer, version, serverURL, logFile string) {
	r := lipgloss.NewRenderer(w)
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		r.SetColorProfile(termenv.Ascii)
	}

	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#009639"))
	faint := r.NewStyle().Faint(true)
	box := r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)

	body := lipgloss.JoinVertical(lipgloss.Left,
		title.Render("nginx-manager "+version),
		"",
		"Open "+serverURL,
		faint.Render("Logs: "+logFile),
	)
	fmt.Fprintln(w, box.Render(body))
}
