package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openfroyo/vendcheck/pkg/inventory"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendcheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.InputDir != "testCases" || cfg.OutputDir != "outputFiles" {
		t.Errorf("Unexpected default dirs %q, %q", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.Policy() != inventory.ClampAtZero {
		t.Errorf("Expected clamp policy, got %v", cfg.Policy())
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
input_dir: machines
workers: 2
deduction_policy: allow-negative
telemetry:
  logging:
    level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.InputDir != "machines" {
		t.Errorf("Expected input dir machines, got %q", cfg.InputDir)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("Expected default output dir to survive, got %q", cfg.OutputDir)
	}
	if cfg.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", cfg.Workers)
	}
	if cfg.Policy() != inventory.AllowNegative {
		t.Errorf("Expected allow-negative, got %v", cfg.Policy())
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Logging.Format != "console" {
		t.Errorf("Expected default log format to survive, got %q", cfg.Telemetry.Logging.Format)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.InputDir != DefaultInputDir {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "inputs: x\n", "parse"},
		{"bad yaml", "workers: [\n", "parse"},
		{"zero workers", "workers: 0\n", "Workers"},
		{"bad policy", "deduction_policy: wrap\n", "DeductionPolicy"},
		{"same dirs", "input_dir: x\noutput_dir: x\n", "OutputDir"},
		{"bad telemetry", "telemetry:\n  logging:\n    level: loud\n", "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
