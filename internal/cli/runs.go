package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/chen-albert-liang/grading-tool/internal/store"
)

var runsDBPath string

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored grading runs",
	Long: `Runs lists batch grading runs previously saved with "batch --db".

Example:
  gradetool runs --db grades.db`,
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().StringVar(&runsDBPath, "db", "grades.db", "SQLite database path")
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := store.New(runsDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runs, err := db.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Run", "Created", "Students", "Avg Score", "Avg Accuracy", "Range"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Summary.TotalStudents,
			fmt.Sprintf("%.1f/%.1f", r.Summary.AverageScore, r.Summary.MaxScore),
			fmt.Sprintf("%.1f%%", r.Summary.AverageAccuracy*100),
			fmt.Sprintf("%.1f - %.1f", r.Summary.LowestScore, r.Summary.HighestScore),
		})
	}
	fmt.Println(tw.Render())
	return nil
}
