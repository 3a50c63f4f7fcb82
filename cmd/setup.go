package cmd

import (
	"errors"
	"fmt"

	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	vals := tui.SetupValuesFrom(e.cfg)
	if err := tui.NewSetupForm(&vals, e.catalog).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return err
	}

	return saveSetup(e.cfg, vals)
}

func saveSetup(cfg config.Config, vals tui.SetupValues) error {
	if err := vals.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `smartflow setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
