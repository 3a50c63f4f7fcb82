package cmd

import (
	"fmt"

	"github.com/smartflow-ai/smartflow/internal/cli"
	"github.com/smartflow-ai/smartflow/internal/model"

	"github.com/spf13/cobra"
)

var flagCatalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List business types and plans",
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&flagCatalogJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(_ *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	types := e.catalog.BusinessTypeList()
	plans := e.catalog.PlanList()

	if flagCatalogJSON {
		return writeJSON(struct {
			BusinessTypes []model.BusinessType `json:"business_types"`
			Plans         []model.Plan         `json:"plans"`
		}{types, plans})
	}

	fmt.Println()
	fmt.Print(cli.RenderCatalog(types, plans))
	return nil
}
