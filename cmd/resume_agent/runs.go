package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent tailoring runs",
	Long:  "Lists recorded tailoring runs, newest first. Requires DATABASE_URL.",
	RunE:  runListRuns,
}

var runsLimit int

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to show")

	rootCmd.AddCommand(runsCmd)
}

func runListRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	database, err := requireDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPROFILE\tCOMPANY\tSTATUS\tCREATED\tERROR")
	for _, run := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.Profile, run.Company, run.Status, run.CreatedAt.Format(time.DateTime), run.Error)
	}
	return w.Flush()
}
