package cmd

import (
	"fmt"

	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/client"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	compareProfile  profileFlags
	flagCompareJSON bool
)

var compareCmd = &cobra.Command{
	Use:     "compare",
	Short:   "Project every plan side by side",
	Example: "  smartflow compare --type beauty --revenue 6000",
	RunE:    runCompare,
}

func init() {
	compareProfile.register(compareCmd, false)
	compareCmd.Flags().BoolVar(&flagCompareJSON, "json", false, "Print the projections as JSON")
	rootCmd.AddCommand(compareCmd)
}

type compareOutput struct {
	Projections []model.Projection `json:"projections"`
	Best        string             `json:"best,omitempty"`
}

func runCompare(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	profile := compareProfile.profile(e.cfg)
	labels := e.catalog

	var projs []model.Projection
	best := ""
	if compareProfile.remote != "" {
		c := client.New(compareProfile.remote, client.WithLogger(e.log.Named("client")))
		resp, err := c.Compare(cmd.Context(), profile)
		if err != nil {
			return err
		}
		projs, best = resp.Projections, resp.Best
		if !flagCompareJSON {
			if remote, err := remoteCatalog(cmd.Context(), c); err == nil {
				labels = remote
			} else {
				e.log.Debug("remote catalog unavailable, using local labels", zap.Error(err))
			}
		}
	} else {
		projs, err = roi.Compare(profile, e.catalog)
		if err != nil {
			return err
		}
		if b, ok := roi.Best(projs); ok {
			best = b.Plan
		}
	}
	e.log.Debug("plans compared", zap.Int("plans", len(projs)), zap.String("best", best))

	if flagCompareJSON {
		return writeJSON(compareOutput{Projections: projs, Best: best})
	}

	fmt.Println()
	fmt.Print(cli.RenderComparison(projs, planLabels(labels), best))
	return nil
}
