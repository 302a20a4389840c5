package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"itoffers/services/dashboard/internal/aggregate"
	"itoffers/services/dashboard/internal/config"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/processor"
)

var (
	reportFormat string
	reportTop    int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Load the dataset once and print a summary",
	Long: `Runs the load and derive pipeline against the configured snapshots and
prints offer counts per snapshot, contract type, city, technology and seniority.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "table", "Output format (table, json)")
	reportCmd.Flags().IntVarP(&reportTop, "top", "n", 10, "Number of cities and technologies to list")
}

type report struct {
	Summary      aggregate.Summary         `json:"summary"`
	Cities       []aggregate.CategoryCount `json:"cities"`
	Technologies []aggregate.CategoryCount `json:"technologies"`
	Seniority    []aggregate.CategoryCount `json:"seniority"`
}

func runReport(cmd *cobra.Command, _ []string) error {
	if reportFormat != "table" && reportFormat != "json" {
		return fmt.Errorf("unknown format %q", reportFormat)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	proc := processor.NewDatasetProcessor(logger, newLoader(cfg, logger), publisher)
	ds, err := loadDataset(cmd.Context(), cfg, logger, proc)
	if err != nil {
		logger.Error("Failed to load dataset", zap.Error(err))
		return err
	}

	r := buildReport(ds, reportTop)
	if reportFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return writeReportTable(os.Stdout, r)
}

func buildReport(ds models.Dataset, top int) report {
	cities := aggregate.CityCounts(ds.All)
	if len(cities) > top {
		cities = cities[:top]
	}
	return report{
		Summary:      aggregate.Summarize(ds),
		Cities:       cities,
		Technologies: aggregate.TechnologyDistribution(ds.All, top),
		Seniority:    aggregate.SeniorityDistribution(ds.All),
	}
}

func writeReportTable(out io.Writer, r report) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Offers:\t%d\n", r.Summary.TotalOffers)
	fmt.Fprintf(w, "Latest snapshot:\t%s (%d offers)\n", r.Summary.LastDate.Format("2006-01-02"), r.Summary.LatestOffers)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "REPORT DATE\tOFFERS")
	fmt.Fprintln(w, "-----------\t------")
	for _, s := range r.Summary.Snapshots {
		fmt.Fprintf(w, "%s\t%d\n", s.ReportDate.Format("2006-01-02"), s.Count)
	}

	sections := []struct {
		title  string
		counts []aggregate.CategoryCount
	}{
		{"CONTRACT TYPE", r.Summary.ContractTypes},
		{"CITY", r.Cities},
		{"TECHNOLOGY", r.Technologies},
		{"SENIORITY", r.Seniority},
	}
	for _, sec := range sections {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\tOFFERS\n", sec.title)
		fmt.Fprintln(w, "----\t------")
		for _, c := range sec.counts {
			fmt.Fprintf(w, "%s\t%d\n", c.Category, c.Count)
		}
	}

	return w.Flush()
}
