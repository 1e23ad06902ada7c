package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/dataset"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// selection flags shared by trend and export
func addSelectionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("dataset", "mass_mobilization_cleaned.csv", "cleaned Mass Mobilization CSV")
	flags.String("scope", "regional", "regional or country")
	flags.String("name", "", "region or country name")
	flags.Int("from", 0, "first year (default: first year of the dataset)")
	flags.Int("to", 0, "last year (default: --end-year clamped to the dataset)")
	flags.Int("end-year", 2020, "default last year")
	cmd.MarkFlagRequired("name")
}

type selection struct {
	ds       *dataset.Dataset
	scope    models.Scope
	name     string
	from, to int
	endYear  int
}

func readSelection(cmd *cobra.Command) (*selection, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("dataset")
	rawScope, _ := flags.GetString("scope")
	name, _ := flags.GetString("name")
	from, _ := flags.GetInt("from")
	to, _ := flags.GetInt("to")
	endYear, _ := flags.GetInt("end-year")

	scope, err := models.ParseScope(rawScope)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	return &selection{ds: ds, scope: scope, name: name, from: from, to: to, endYear: endYear}, nil
}

var trendCmd = &cobra.Command{
	Use:   "trend <topic>",
	Short: "Print one dashboard series as CSV",
	Long: "Print one per-year series of a region or country as CSV.\n" +
		"Topics: protest_days, participants, demands (with --demand), violence (with --violence).",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := readSelection(cmd)
		if err != nil {
			return err
		}

		q := models.TrendQuery{
			Scope:    sel.scope,
			Name:     sel.name,
			FromYear: sel.from,
			ToYear:   sel.to,
			Topic:    models.Topic(args[0]),
		}
		if v, _ := cmd.Flags().GetString("demand"); v != "" {
			if q.Demand, err = models.ParseDemand(v); err != nil {
				return err
			}
		}
		if v, _ := cmd.Flags().GetString("violence"); v != "" {
			if q.Violence, err = models.ParseViolenceKind(v); err != nil {
				return err
			}
		}

		series, err := sel.ds.Trend(q, sel.endYear)
		if err != nil {
			return err
		}
		return dataset.WriteCSV(cmd.OutOrStdout(), series)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every series of a selection as CSV files",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := readSelection(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")

		files, err := sel.ds.ExportSelection(out, sel.scope, sel.name, sel.from, sel.to, sel.endYear)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(out, f))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d files\n", len(files))
		return nil
	},
}

func init() {
	addSelectionFlags(trendCmd)
	trendCmd.Flags().String("demand", "", "demand for the demands topic")
	trendCmd.Flags().String("violence", "", "category for the violence topic")

	addSelectionFlags(exportCmd)
	exportCmd.Flags().String("out", "exports", "output directory")
}
