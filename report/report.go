// SPDX-License-Identifier: EPL-2.0

// Package report prints classification results.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/ik5/audclass/classifier"
)

// Reporter receives one result per detector iteration.
type Reporter interface {
	Report(res classifier.Result)
}

// Theme defines the colors used by Terminal.
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
}

var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

type styles struct {
	label  lipgloss.Style
	key    lipgloss.Style
	detail lipgloss.Style
}

// Terminal writes a two-line summary per result: the label, then the
// spectral entropy, kurtosis and SNR.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
	// Verbose adds the distance to every profile.
	Verbose bool
}

// NewTerminal renders for w. Colors are used only when w is a terminal that
// supports them.
func NewTerminal(w io.Writer, theme Theme) *Terminal {
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		w: w,
		styles: styles{
			label:  r.NewStyle().Bold(true).Foreground(theme.Primary),
			key:    r.NewStyle().Foreground(theme.Dim),
			detail: r.NewStyle(),
		},
	}
}

func (t *Terminal) Report(res classifier.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "-> %s\n", t.styles.label.Render(res.Label))

	fields := []string{
		t.field("entropy", res.Vector.Spectral),
		t.field("kurtosis", res.Vector.Kurtosis),
		t.field("snr", res.Vector.SNR),
	}
	b.WriteString("   " + strings.Join(fields, "  ") + "\n")

	if t.Verbose {
		for _, d := range res.Distances {
			fmt.Fprintf(&b, "   %s %s\n", t.styles.key.Render("distance "+d.Label+":"), t.styles.detail.Render(fmt.Sprintf("%.6f", d.Distance)))
		}
	}

	io.WriteString(t.w, b.String())
}

func (t *Terminal) field(name string, v float64) string {
	return t.styles.key.Render(name+":") + " " + t.styles.detail.Render(fmt.Sprintf("%.6f", v))
}

// Log reports results as structured log records.
type Log struct {
	Logger *slog.Logger
	Level  slog.Level
}

func (l Log) Report(res classifier.Result) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(context.Background(), l.Level, "classified",
		"label", res.Label,
		"entropy", res.Vector.Spectral,
		"kurtosis", res.Vector.Kurtosis,
		"snr", res.Vector.SNR,
	)
}

var (
	_ Reporter = (*Terminal)(nil)
	_ Reporter = Log{}
)
