package cmd

import (
	"fmt"

	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/tui"
	"github.com/smartflow-ai/smartflow/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiProfile profileFlags

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive ROI calculator",
	RunE:  runTUI,
}

func init() {
	tuiProfile.register(tuiCmd, true)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	theme.SetActive(e.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts := tui.Options{
		Catalog: e.catalog,
		Profile: tuiProfile.profile(e.cfg),
		Plan:    tuiProfile.planKey(e.cfg),
		Setup:   !config.Exists(),
		SaveConfig: func(v tui.SetupValues) error {
			cfg := e.cfg
			if err := v.Apply(&cfg); err != nil {
				return err
			}
			return config.Save(cfg)
		},
	}

	// The calculator works without a store; only ctrl+s needs one.
	st, err := e.openStore()
	if err != nil {
		e.log.Warn("scenario saving disabled", zap.Error(err))
	} else {
		defer func() { _ = st.Close() }()
		opts.Store = st
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
