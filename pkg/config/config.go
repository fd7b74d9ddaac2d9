package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/openfroyo/vendcheck/pkg/inventory"
	"github.com/openfroyo/vendcheck/pkg/telemetry"
)

const (
	// DefaultInputDir is the directory scanned for machine records.
	DefaultInputDir = "testCases"

	// DefaultOutputDir receives one report per machine record.
	DefaultOutputDir = "outputFiles"

	// DefaultWorkers is the number of records evaluated concurrently.
	DefaultWorkers = 4
)

// Config is the vendcheck configuration.
type Config struct {
	// InputDir is the directory holding machine records.
	InputDir string `yaml:"input_dir" validate:"required"`

	// OutputDir is the report directory. It is recreated on every run.
	OutputDir string `yaml:"output_dir" validate:"required,nefield=InputDir"`

	// Workers bounds the number of records evaluated at once.
	Workers int `yaml:"workers" validate:"gte=1,lte=256"`

	// DeductionPolicy is "clamp" or "allow-negative".
	DeductionPolicy string `yaml:"deduction_policy" validate:"oneof=clamp allow-negative"`

	// Telemetry configures logging, tracing and metrics.
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		InputDir:        DefaultInputDir,
		OutputDir:       DefaultOutputDir,
		Workers:         DefaultWorkers,
		DeductionPolicy: inventory.ClampAtZero.String(),
		Telemetry:       *telemetry.DefaultConfig(),
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the telemetry settings.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	return c.Telemetry.Validate()
}

// Policy returns the parsed deduction policy.
func (c *Config) Policy() inventory.DeductionPolicy {
	p, _ := inventory.ParseDeductionPolicy(c.DeductionPolicy)
	return p
}
