package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openfroyo/vendcheck/pkg/machine"
	"github.com/openfroyo/vendcheck/pkg/stores"
)

// validation is the JSON form of one record's validation outcome.
type validation struct {
	Record string `json:"record"`
	Valid  bool   `json:"valid"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate machine records without evaluating them",
		Long: `Validate machine records against the machine schema and decode them.

This command checks:
  - Syntax validity (JSON or YAML)
  - Schema conformance (required sections, integer quantities)
  - Structure of the inventory and every recipe

The path may be a single record or a directory; it defaults to the
configured input directory. Nothing is evaluated or written.`,
		Example: `  # Validate the configured input directory
  vendcheck validate

  # Validate a single record
  vendcheck validate testCases/machine_1.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := cfg.InputDir
			if len(args) > 0 {
				path = args[0]
			}

			log.Info().Str("path", path).Msg("Validating machine records")

			files, err := recordFiles(cmd, path)
			if err != nil {
				return err
			}

			schemas := machine.NewSchemaRegistry()
			results := make([]validation, 0, len(files))
			failed := 0

			for _, file := range files {
				v := validation{Record: file, Valid: true}

				data, err := os.ReadFile(file)
				if err == nil {
					name := filepath.Base(file)
					if err = schemas.Validate(cmd.Context(), name, data); err == nil {
						_, err = machine.Decode(name, data)
					}
				}

				if err != nil {
					failed++
					v.Valid = false
					v.Error = err.Error()
					if se, ok := asStructural(err); ok {
						v.Path = se.Path
					}
				}
				results = append(results, v)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, v := range results {
					if v.Valid {
						fmt.Fprintf(out, "ok    %s\n", v.Record)
					} else {
						fmt.Fprintf(out, "FAIL  %s: %s\n", v.Record, v.Error)
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d records failed validation", failed, len(results))
			}
			return nil
		},
	}

	return cmd
}

// recordFiles expands path into the record files it names.
func recordFiles(cmd *cobra.Command, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	ids, err := stores.ListRecordFiles(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	files := make([]string, len(ids))
	for i, id := range ids {
		files[i] = filepath.Join(path, id)
	}
	return files, nil
}

func asStructural(err error) (*machine.StructuralError, bool) {
	var se *machine.StructuralError
	ok := errors.As(err, &se)
	return se, ok
}
