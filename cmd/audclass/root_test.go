// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig points every store path into dir.
func writeConfig(t *testing.T, dir, backend string) string {
	t.Helper()

	path := filepath.Join(dir, "audclass.yaml")
	data := fmt.Sprintf(`log_level: warn
store:
  backend: %s
  metadata_path: %s
  profiles_path: %s
  badger_dir: %s
`, backend,
		filepath.Join(dir, "recordings_metadata.json"),
		filepath.Join(dir, "audio_analysis.json"),
		filepath.Join(dir, "profiles.db"))
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_TrainThenProfiles(t *testing.T) {
	for _, backend := range []string{"json", "badger"} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			cfg := writeConfig(t, dir, backend)

			data, err := json.MarshalIndent(recordings(t, dir), "", "    ")
			if err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, "recordings_metadata.json"), data, 0o644); err != nil {
				t.Fatal(err)
			}

			out, err := execute(t, "--config", cfg, "train")
			if err != nil {
				t.Fatalf("train error = %v", err)
			}
			if !strings.Contains(out, "trained 2 profile(s): song, white-noise") {
				t.Errorf("train output = %q", out)
			}

			out, err = execute(t, "--config", cfg, "profiles", "--json")
			if err != nil {
				t.Fatalf("profiles error = %v", err)
			}
			if i, j := strings.Index(out, `"song"`), strings.Index(out, `"white-noise"`); i < 0 || j < i {
				t.Errorf("profiles output = %s", out)
			}
			if !strings.Contains(out, `"snr_mean"`) {
				t.Errorf("profiles output lacks snr_mean: %s", out)
			}
		})
	}
}

func TestCLI_ProfilesWithoutTraining(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "json")

	if _, err := execute(t, "--config", cfg, "profiles"); err == nil {
		t.Fatal("profiles expected error without a profile store")
	}
}

func TestCLI_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "json")

	_, err := execute(t, "--config", cfg, "--log-level", "loud", "profiles")
	if err == nil || !strings.Contains(err.Error(), "log-level") {
		t.Fatalf("error = %v, want invalid --log-level", err)
	}
}

func TestCLI_RecordRejectsCount(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "json")

	_, err := execute(t, "--config", cfg, "record", "--label", "song", "--count", "0")
	if err == nil || !strings.Contains(err.Error(), "--count") {
		t.Fatalf("error = %v, want --count error", err)
	}
}
