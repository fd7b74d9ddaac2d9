package commands

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfroyo/vendcheck/pkg/config"
	"github.com/openfroyo/vendcheck/pkg/telemetry"
)

// loadConfig reads the --config file over the defaults and applies the
// global flags. Command flags are applied by the caller, which then
// validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}

func newTelemetry(cfg *config.Config) (*telemetry.Telemetry, error) {
	return telemetry.NewTelemetry(&cfg.Telemetry)
}

// shutdownTimeout bounds the final span export and metrics server stop.
const shutdownTimeout = 5 * time.Second

// shutdownTelemetry flushes and stops telemetry within shutdownTimeout,
// logging any failure.
func shutdownTelemetry(ctx context.Context, tel *telemetry.Telemetry) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		tel.Logger.WithError(err).Error("Failed to shut down telemetry")
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
