// SPDX-License-Identifier: EPL-2.0

package report

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/ik5/audclass/classifier"
	"github.com/ik5/audclass/descriptor"
)

func result() classifier.Result {
	return classifier.Result{
		Label: "white-noise",
		Vector: descriptor.Vector{
			Spectral: 6.123456,
			Kurtosis: -1.2,
			SNR:      -50,
			Variant:  descriptor.VariantLive,
		},
		Distances: []classifier.Distance{
			{Label: "song", Distance: 12.5},
			{Label: "white-noise", Distance: 3.25},
		},
	}
}

func TestTerminal_Report(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	NewTerminal(&out, DefaultTheme).Report(result())

	got := out.String()
	for _, want := range []string{"-> white-noise", "entropy: 6.123456", "kurtosis: -1.200000", "snr: -50.000000"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "distance") {
		t.Errorf("distances printed without Verbose: %q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("escape codes written to a non-terminal: %q", got)
	}
}

func TestTerminal_Verbose(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	term := NewTerminal(&out, DefaultTheme)
	term.Verbose = true
	term.Report(result())
	term.Report(result())

	got := out.String()
	if n := strings.Count(got, "-> white-noise"); n != 2 {
		t.Errorf("reported %d results, want 2", n)
	}
	for _, want := range []string{"distance song: 12.500000", "distance white-noise: 3.250000"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestLog_Report(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	Log{Logger: slog.New(slog.NewTextHandler(&out, nil)), Level: slog.LevelInfo}.Report(result())

	got := out.String()
	for _, want := range []string{"msg=classified", "label=white-noise", "snr=-50", "kurtosis=-1.2"} {
		if !strings.Contains(got, want) {
			t.Errorf("log %q missing %q", got, want)
		}
	}
}
