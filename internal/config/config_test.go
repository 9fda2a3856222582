package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	caps := Default()
	if caps.SCCPasses != 100 {
		t.Errorf("SCCPasses = %d, want 100", caps.SCCPasses)
	}
	if caps.TermRefIterations != 20 {
		t.Errorf("TermRefIterations = %d, want 20", caps.TermRefIterations)
	}
	if caps.TypeRefIterations != 20 {
		t.Errorf("TypeRefIterations = %d, want 20", caps.TypeRefIterations)
	}
	if caps.LadderSteps != 4 {
		t.Errorf("LadderSteps = %d, want 4", caps.LadderSteps)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripc.yaml")
	if err := os.WriteFile(path, []byte("scc_passes: 7\nladder_steps: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	caps, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if caps.SCCPasses != 7 {
		t.Errorf("SCCPasses = %d, want 7", caps.SCCPasses)
	}
	if caps.LadderSteps != 9 {
		t.Errorf("LadderSteps = %d, want 9", caps.LadderSteps)
	}
	// Unnamed fields keep their defaults.
	if caps.TermRefIterations != 20 {
		t.Errorf("TermRefIterations = %d, want 20", caps.TermRefIterations)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("Load() succeeded on a missing file")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripc.yaml")
	if err := os.WriteFile(path, []byte("scc_passes: [nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("Load() accepted malformed YAML")
	}
}
