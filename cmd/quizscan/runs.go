package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quizscan/quizscan/internal/config"
	"github.com/quizscan/quizscan/internal/database"
)

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past quiz runs from the local database",
		Long: `Runs lists stored run outcomes, newest first.

Each line shows the run ID, timestamp, target URL, submission status, and
the answer that was posted. Use --json for the full metadata.

Examples:
  # Show the 20 most recent runs
  quizscan runs

  # Show all runs as JSON
  quizscan runs --limit 0 --json`,
		Args: cobra.NoArgs,
		RunE: runRunsCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolP("json", "j", false, "Output run metadata as JSON")

	return cmd
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no run database found (solve a quiz first): %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()

	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTARGET\tSTATUS\tANSWER")
	for _, run := range runs {
		status := fmt.Sprintf("submitted %d", run.SubmitStatus)
		if run.ErrorStage != "" {
			status = "failed at " + run.ErrorStage
		} else if run.SubmitStatus == 0 {
			status = "not submitted"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Target,
			status,
			run.AnswerJSON,
		)
	}
	return w.Flush()
}
