package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openfroyo/vendcheck/pkg/inventory"
	"github.com/openfroyo/vendcheck/pkg/machine"
)

// evaluation is the JSON form of a single-record evaluation.
type evaluation struct {
	Machine     string               `json:"machine"`
	OutletCount int                  `json:"outlet_count"`
	Policy      string               `json:"deduction_policy"`
	Results     inventory.Report     `json:"results"`
	Inventory   *inventory.Inventory `json:"inventory"`
}

func newEvaluateCommand() *cobra.Command {
	var allowNegative bool

	cmd := &cobra.Command{
		Use:   "evaluate <file>",
		Short: "Evaluate a single machine record",
		Long: `Evaluate a single machine record and print its report to stdout.

Nothing is written to disk. With --json the output also carries the stock
left after every prepared beverage has been deducted.`,
		Example: `  # Print the report for one record
  vendcheck evaluate testCases/machine_1.json

  # Machine-readable output including the final inventory
  vendcheck evaluate --json testCases/machine_1.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if allowNegative {
				cfg.DeductionPolicy = inventory.AllowNegative.String()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			rec, err := machine.Decode(filepath.Base(path), data)
			if err != nil {
				return err
			}

			eval := inventory.NewEvaluator(inventory.WithDeductionPolicy(cfg.Policy()))
			final, report := eval.Evaluate(rec.Inventory, rec.Catalog)

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, evaluation{
					Machine:     rec.Name,
					OutletCount: rec.OutletCount,
					Policy:      eval.Policy().String(),
					Results:     report,
					Inventory:   final,
				})
			}

			_, err = fmt.Fprint(out, report.String())
			return err
		},
	}

	cmd.Flags().BoolVar(&allowNegative, "allow-negative", false, "let deductions drive quantities below zero")

	return cmd
}
