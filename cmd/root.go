// Package cmd implements the smartflow CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/smartflow-ai/smartflow/internal/client"
	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/logging"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig   string
	flagEnvFile  string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "smartflow",
	Short: "SmartFlow ROI projections",
	Long:  "Project the monthly return of a SmartFlow plan for a small business.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path := flagEnvFile
		if path == "" {
			path = config.DefaultEnvFile
		}
		if err := config.LoadEnvFile(path, cmd.Flags().Changed("env-file")); err != nil {
			return err
		}
		if flagConfig != "" {
			config.SetPath(flagConfig)
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $SMARTFLOW_CONFIG or ~/.config/smartflow/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Dotenv file with SMARTFLOW_* settings (default ./.env when present)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// env is what every command needs: configuration, the resolved catalog
// and a logger.
type env struct {
	cfg     config.Config
	catalog config.Catalog
	log     *zap.Logger
}

// loadEnv is the shared setup path used by all commands.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagQuiet {
		level = "error"
	}
	log := logging.Must(level, cfg.Log.Format)

	cat, err := config.ResolveCatalog(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("catalog resolved",
		zap.Int("business_types", len(cat.BusinessTypes)),
		zap.Int("plans", len(cat.Plans)),
		zap.String("config", config.Path()),
	)

	return &env{cfg: cfg, catalog: cat, log: log}, nil
}

func (e *env) openStore() (*store.Store, error) {
	path := store.DefaultPath(config.DataDir(e.cfg))
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario store: %w", err)
	}
	e.log.Debug("scenario store opened", zap.String("path", path))
	return st, nil
}

// profileFlags are the business profile inputs shared by roi and compare.
type profileFlags struct {
	businessType string
	plan         string
	revenue      float64
	aov          float64
	leads        float64
	conversion   float64
	hours        float64
	rate         float64
	remote       string
}

func (f *profileFlags) register(cmd *cobra.Command, withPlan bool) {
	fl := cmd.Flags()
	fl.StringVarP(&f.businessType, "type", "t", "", "Business type (key or name; default from config)")
	if withPlan {
		fl.StringVarP(&f.plan, "plan", "p", "", "Plan (default from config)")
	}
	fl.Float64VarP(&f.revenue, "revenue", "r", 0, "Monthly revenue in USD")
	fl.Float64Var(&f.aov, "aov", 0, "Average order value (default: category value)")
	fl.Float64Var(&f.leads, "leads", 0, "Current monthly leads (default: derived from revenue)")
	fl.Float64Var(&f.conversion, "conversion", 0, "Lead conversion rate as a fraction, e.g. 0.15")
	fl.Float64Var(&f.hours, "hours", 0, "Hours per week spent on social media")
	fl.Float64Var(&f.rate, "rate", 0, "Employee hourly rate in USD")
	fl.StringVar(&f.remote, "remote", "", "Project on a SmartFlow server at this address instead of locally")
}

// profile builds the profile, falling back to config defaults for the
// business type, hours and rate.
func (f *profileFlags) profile(cfg config.Config) model.BusinessProfile {
	p := model.BusinessProfile{
		BusinessType:         f.businessType,
		MonthlyRevenue:       f.revenue,
		AverageOrderValue:    f.aov,
		CurrentMonthlyLeads:  f.leads,
		ConversionRate:       f.conversion,
		HoursPerWeekOnSocial: f.hours,
		EmployeeHourlyRate:   f.rate,
	}
	if p.BusinessType == "" {
		p.BusinessType = cfg.General.DefaultBusinessType
	}
	if p.HoursPerWeekOnSocial == 0 {
		p.HoursPerWeekOnSocial = cfg.General.HoursPerWeek
	}
	if p.EmployeeHourlyRate == 0 {
		p.EmployeeHourlyRate = cfg.General.HourlyRate
	}
	return p
}

func (f *profileFlags) planKey(cfg config.Config) string {
	if f.plan != "" {
		return f.plan
	}
	return cfg.General.DefaultPlan
}

// planLabels maps plan keys onto display labels.
func planLabels(cat config.Catalog) map[string]string {
	labels := make(map[string]string, len(cat.Plans))
	for k, p := range cat.Plans {
		labels[k] = p.Label
	}
	return labels
}

// remoteCatalog fetches the server's catalog so remote results are labelled
// the way the server resolved them.
func remoteCatalog(ctx context.Context, c *client.Client) (config.Catalog, error) {
	resp, err := c.Catalog(ctx)
	if err != nil {
		return config.Catalog{}, err
	}
	cat := config.Catalog{
		BusinessTypes: make(map[string]model.BusinessType, len(resp.BusinessTypes)),
		Plans:         make(map[string]model.Plan, len(resp.Plans)),
	}
	for _, bt := range resp.BusinessTypes {
		cat.BusinessTypes[bt.Key] = bt
	}
	for _, p := range resp.Plans {
		cat.Plans[p.Key] = p
	}
	return cat, nil
}

func projectionTitle(cat config.Catalog, p model.Projection) string {
	plan, bt := p.Plan, p.BusinessType
	if v, ok := cat.Plans[plan]; ok {
		plan = v.Label
	}
	if v, ok := cat.BusinessTypes[bt]; ok {
		bt = v.Label
	}
	return fmt.Sprintf("%s on %s", plan, bt)
}
