package cmd

import (
	"fmt"

	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func orDefault(v float64, unit string) string {
	if v == 0 {
		return "engine default"
	}
	return fmt.Sprintf("%g%s", v, unit)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default business type: %s\n", cfg.General.DefaultBusinessType)
	fmt.Printf("    Default plan:          %s\n", cfg.General.DefaultPlan)
	fmt.Printf("    Hours per week:        %s\n", orDefault(cfg.General.HoursPerWeek, " h"))
	fmt.Printf("    Hourly rate:           %s\n", orDefault(cfg.General.HourlyRate, " USD"))
	fmt.Printf("    Scenario store:        %s\n", store.DefaultPath(config.DataDir(cfg)))
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", config.GetServerAddr(cfg))
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Catalog]")
	if n := len(cfg.Catalog.BusinessTypes) + len(cfg.Catalog.Plans); n > 0 {
		fmt.Printf("    Overrides: %s business types, %s plans\n",
			cli.FormatNumber(int64(len(cfg.Catalog.BusinessTypes))),
			cli.FormatNumber(int64(len(cfg.Catalog.Plans))))
	} else {
		fmt.Println("    Overrides: none (built-in catalog)")
	}
	if _, err := config.ResolveCatalog(cfg); err != nil {
		fmt.Printf("    Problem:   %v\n", err)
	}
	fmt.Println()

	fmt.Println("  Run `smartflow setup` to reconfigure.")
	return nil
}
