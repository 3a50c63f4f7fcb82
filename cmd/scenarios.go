package cmd

import (
	"fmt"

	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"
	"github.com/smartflow-ai/smartflow/internal/store"

	"github.com/spf13/cobra"
)

var flagScenariosJSON bool

var scenariosCmd = &cobra.Command{
	Use:     "scenarios",
	Aliases: []string{"scenario"},
	Short:   "Manage saved scenarios",
}

var scenariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios with their current projection",
	Args:  cobra.NoArgs,
	RunE:  runScenariosList,
}

var scenariosShowCmd = &cobra.Command{
	Use:   "show <id|prefix|name>",
	Short: "Show one scenario, re-projected against the current catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenariosShow,
}

var scenariosDeleteCmd = &cobra.Command{
	Use:     "delete <id|prefix|name>",
	Aliases: []string{"rm"},
	Short:   "Delete a scenario",
	Args:    cobra.ExactArgs(1),
	RunE:    runScenariosDelete,
}

func init() {
	scenariosCmd.PersistentFlags().BoolVar(&flagScenariosJSON, "json", false, "Print JSON")
	scenariosCmd.AddCommand(scenariosListCmd, scenariosShowCmd, scenariosDeleteCmd)
	rootCmd.AddCommand(scenariosCmd)
}

type scenarioOutput struct {
	Scenario   store.Scenario    `json:"scenario"`
	Projection *model.Projection `json:"projection,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// reproject recomputes a stored scenario. Scenarios whose category or plan
// has since left the catalog keep their inputs and report the error.
func reproject(sc store.Scenario, cat config.Catalog) scenarioOutput {
	out := scenarioOutput{Scenario: sc}
	proj, err := roi.Compute(sc.Profile, sc.Plan, cat)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Projection = &proj
	return out
}

func runScenariosList(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	list, err := st.ListScenarios(cmd.Context())
	if err != nil {
		return err
	}

	outs := make([]scenarioOutput, len(list))
	for i, sc := range list {
		outs[i] = reproject(sc, e.catalog)
	}
	if flagScenariosJSON {
		return writeJSON(outs)
	}

	if len(outs) == 0 {
		fmt.Println()
		fmt.Print(cli.RenderNotice("No saved scenarios. Use `smartflow roi --save NAME` to add one."))
		return nil
	}

	rows := make([][]string, 0, len(outs))
	for _, o := range outs {
		net := "invalid"
		if o.Projection != nil {
			net = cli.FormatCurrency(o.Projection.NetMonthlyROI)
		}
		rows = append(rows, []string{
			o.Scenario.ID[:8],
			o.Scenario.Name,
			o.Scenario.Profile.BusinessType,
			o.Scenario.Plan,
			cli.FormatCurrency(o.Scenario.Profile.MonthlyRevenue),
			net,
			o.Scenario.CreatedAt.Local().Format("2006-01-02"),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Saved scenarios (%d)", len(rows)),
		Headers:  []string{"ID", "Name", "Type", "Plan", "Revenue", "Net / mo", "Created"},
		LeftCols: 4,
		Rows:     rows,
	}))
	return nil
}

func runScenariosShow(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc, err := st.GetScenario(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%q: %w", args[0], err)
	}

	out := reproject(sc, e.catalog)
	if flagScenariosJSON {
		return writeJSON(out)
	}

	fmt.Println()
	if out.Projection == nil {
		fmt.Print(cli.RenderWarning(fmt.Sprintf("%s no longer projects: %s", sc.Name, out.Error)))
		return nil
	}
	fmt.Print(cli.RenderProjection(sc.Name, *out.Projection))
	if sc.Notes != "" {
		fmt.Print(cli.RenderNotice("Notes: " + sc.Notes))
	}
	fmt.Print(cli.RenderNotice(fmt.Sprintf("%s  saved %s", sc.ID, sc.UpdatedAt.Local().Format("2006-01-02 15:04"))))
	return nil
}

func runScenariosDelete(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteScenario(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("%q: %w", args[0], err)
	}
	fmt.Printf("  Deleted %s\n", args[0])
	return nil
}
