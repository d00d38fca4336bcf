package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"prismadash/internal"
	"prismadash/internal/pipeline"
	"prismadash/internal/report"
)

// reportCmd builds a report:* command whose run receives the loaded
// dashboard and the filter selection.
func reportCmd(a *app, use, short string, run func(d *pipeline.Dashboard, state pipeline.ViewState) error) *cobra.Command {
	flags := &viewFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := flags.state()
			if err != nil {
				return err
			}
			d, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return run(d, state)
		},
	}
	flags.register(cmd)
	return cmd
}

func categoryFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "category", string(internal.CategoryTechnology), "technology|waste|methodology")
}

func parseCategory(value string) (internal.Category, error) {
	category, ok := pipeline.ParseCategory(value)
	if !ok {
		return "", fmt.Errorf("unsupported category: %s", value)
	}
	return category, nil
}

func reportCmds(a *app) []*cobra.Command {
	var (
		labelsCategory string
		labelsTop      int
		combosTop      int
		coocCategory   string
		coocTop        int
		countriesTop   int
		coverageColumn string
		coverageLimit  int
	)

	summary := reportCmd(a, "report:summary", "Overview of the reviewed articles",
		func(d *pipeline.Dashboard, state pipeline.ViewState) error {
			report.Summary(os.Stdout, d.Summary(state))
			return nil
		})

	labels := reportCmd(a, "report:labels", "Label counts for one category",
		func(d *pipeline.Dashboard, state pipeline.ViewState) error {
			category, err := parseCategory(labelsCategory)
			if err != nil {
				return err
			}
			report.LabelCounts(os.Stdout, string(category), d.Labels(state, category, labelsTop))
			return nil
		})
	categoryFlag(labels, &labelsCategory)
	labels.Flags().IntVar(&labelsTop, "top", 15, "number of labels, 0 for all")

	combinations := reportCmd(a, "report:combinations", "Technology + waste combinations",
		func(d *pipeline.Dashboard, state pipeline.ViewState) error {
			report.LabelCounts(os.Stdout, "combinations", d.Combinations(state, combosTop))
			return nil
		})
	combinations.Flags().IntVar(&combosTop, "top", 15, "number of combinations, 0 for all")

	cooccurrence := reportCmd(a, "report:cooccurrence", "Label pairs found in the same article",
		func(d *pipeline.Dashboard, state pipeline.ViewState) error {
			category, err := parseCategory(coocCategory)
			if err != nil {
				return err
			}
			report.PairCounts(os.Stdout, string(category)+" pairs", d.Cooccurrence(state, category, coocTop))
			return nil
		})
	categoryFlag(cooccurrence, &coocCategory)
	cooccurrence.Flags().IntVar(&coocTop, "top", 15, "number of pairs, 0 for all")

	pivot := reportCmd(a, "report:pivot", "Technology by waste type matrix",
		func(d *pipeline.Dashboard, state pipeline.ViewState) error {
			report.Pivot(os.Stdout, d.Pivot(state))
			return nil
		})

	years := reportCmd(a, "report:years", "Articles per publication year",
		func(d *pipeline.Dashboard, state pipeline.ViewState) error {
			report.Years(os.Stdout, d.Years(state))
			return nil
		})

	countries := reportCmd(a, "report:countries", "Articles per country",
		func(d *pipeline.Dashboard, state pipeline.ViewState) error {
			report.LabelCounts(os.Stdout, "countries", d.Countries(state, countriesTop))
			return nil
		})
	countries.Flags().IntVar(&countriesTop, "top", 0, "number of countries, 0 for all")

	coverage := reportCmd(a, "report:coverage", "How often a column is filled",
		func(d *pipeline.Dashboard, state pipeline.ViewState) error {
			if !slices.Contains(d.Columns(), coverageColumn) {
				return fmt.Errorf("unknown column: %s", coverageColumn)
			}
			overall, byCountry := d.Coverage(state, coverageColumn, coverageLimit)
			report.Coverage(os.Stdout, overall, byCountry)
			return nil
		})
	coverage.Flags().StringVar(&coverageColumn, "column", internal.ColumnClimate, "column to inspect")
	coverage.Flags().IntVar(&coverageLimit, "limit", 10, "number of countries")

	return []*cobra.Command{summary, labels, combinations, cooccurrence, pivot, years, countries, coverage}
}
