package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/client"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"
	"github.com/smartflow-ai/smartflow/internal/store"
	"github.com/smartflow-ai/smartflow/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	roiProfile   profileFlags
	flagROIJSON  bool
	flagROIForm  bool
	flagROISave  string
	flagROINotes string
)

var roiCmd = &cobra.Command{
	Use:   "roi",
	Short: "Project the monthly ROI of one plan",
	Example: `  smartflow roi --type ecommerce --revenue 10000
  smartflow roi -t realestate -p scale -r 40000 --leads 25 --json
  smartflow roi -i --save "spring launch"
  smartflow roi -t beauty -r 6000 --remote 127.0.0.1:8797`,
	RunE: runROI,
}

func init() {
	roiProfile.register(roiCmd, true)
	roiCmd.Flags().BoolVar(&flagROIJSON, "json", false, "Print the projection as JSON")
	roiCmd.Flags().BoolVarP(&flagROIForm, "interactive", "i", false, "Ask for the profile in a form")
	roiCmd.Flags().StringVar(&flagROISave, "save", "", "Save the inputs as a named scenario")
	roiCmd.Flags().StringVar(&flagROINotes, "notes", "", "Notes stored with --save")
	rootCmd.AddCommand(roiCmd)
}

func runROI(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	profile := roiProfile.profile(e.cfg)
	planKey := roiProfile.planKey(e.cfg)

	if flagROIForm {
		vals := tui.ProfileValuesFrom(profile, planKey)
		if err := tui.NewProfileForm(&vals, e.catalog).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if profile, err = vals.Profile(); err != nil {
			return err
		}
		planKey = vals.Plan
	}

	labels := e.catalog
	var proj model.Projection
	if roiProfile.remote != "" {
		c := client.New(roiProfile.remote, client.WithLogger(e.log.Named("client")))
		proj, err = c.ROI(cmd.Context(), profile, planKey)
		if err == nil && !flagROIJSON {
			if labels, err = remoteCatalog(cmd.Context(), c); err != nil {
				e.log.Debug("remote catalog unavailable, using local labels", zap.Error(err))
				labels, err = e.catalog, nil
			}
		}
	} else {
		proj, err = roi.Compute(profile, planKey, e.catalog)
	}
	if err != nil {
		e.log.Debug("projection rejected", zap.Error(err))
		return err
	}
	e.log.Debug("projection computed",
		zap.String("business_type", proj.BusinessType),
		zap.String("plan", proj.Plan),
		zap.Float64("net_roi", proj.Raw.NetROI),
		zap.Bool("remote", roiProfile.remote != ""),
	)

	if flagROIJSON {
		if err := writeJSON(proj); err != nil {
			return err
		}
	} else {
		fmt.Println()
		fmt.Print(cli.RenderProjection(projectionTitle(labels, proj), proj))
	}

	if flagROISave != "" {
		return saveScenario(cmd.Context(), e, store.Scenario{
			Name:    flagROISave,
			Plan:    proj.Plan,
			Profile: profile,
			Notes:   flagROINotes,
		})
	}
	return nil
}

func saveScenario(ctx context.Context, e *env, sc store.Scenario) error {
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	saved, err := st.SaveScenario(ctx, sc)
	if err != nil {
		return err
	}
	e.log.Info("scenario saved", zap.String("id", saved.ID), zap.String("name", saved.Name))
	fmt.Fprintf(os.Stderr, "  Saved scenario %q (%s)\n", saved.Name, saved.ID[:8])
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

