package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/chen-albert-liang/grading-tool/internal/grade"
	"github.com/chen-albert-liang/grading-tool/internal/llm"
	"github.com/chen-albert-liang/grading-tool/internal/model"
	"github.com/chen-albert-liang/grading-tool/internal/store"
	"github.com/chen-albert-liang/grading-tool/internal/worker"
)

var (
	concurrency  int
	answerKey    string
	outputDir    string
	batchTimeout time.Duration
	dbPath       string
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Grade every student's OCR result file in a directory",
	Long: `Batch grades all "*_res.json" files in a directory in parallel:
- The answer-key file (default hw_1_res.json) is skipped
- Each remaining file is graded on its own worker
- A failure grading one student is logged and skipped; the batch continues
- Aggregate report, per-question analysis and summary table are produced

Example:
  gradetool batch output
  gradetool batch output --template teacher_template.json --concurrency 8
  gradetool batch output --db grades.db --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&templatePath, "template", "", "answer-key template JSON (default: built-in template)")
	batchCmd.Flags().StringVar(&answerKey, "answer-key", "hw_1_res.json", "answer-key filename to skip")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", ".", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for run history (optional)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM feedback summary")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	template, err := loadTemplate(templatePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  gradetool Batch Grading\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Questions:    %d (max score %.1f)\n", template.Len(), template.MaxScore())
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	cfg := model.DefaultConfig()
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n\n", llmProvider, llmModel)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	batch := worker.NewBatchGrader(grade.NewGrader(), newLoader(cfg), cfg.Concurrency.Workers)
	results, err := batch.GradeDir(ctx, dir, answerKey, template)
	if err != nil {
		return err
	}

	successCount := 0
	failureCount := 0
	for _, r := range results {
		if r.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.StudentID, r.Err)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: %.1f/%.1f (%.1f%%)\n",
			r.StudentID, r.Result.TotalScore, r.Result.MaxScore, r.Result.OverallAccuracy*100)
	}

	graded := worker.Successes(results)
	report := grade.BuildReport(graded)

	// Feedback summary runs after all scoring is complete.
	if llmEnabled {
		summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else if summarizer.IsEnabled() {
			summary, err := summarizer.GenerateSummary(ctx, *report)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: LLM feedback generation failed: %v\n", err)
			} else if summary != nil {
				report.LLM = summary
			}
		}
	}

	renderer := grade.NewRenderer(cfg.Output.IncludeFooter)
	jsonPath := filepath.Join(outputDir, "grading_report.json")
	if err := renderer.RenderJSON(report, jsonPath); err != nil {
		return err
	}
	mdPath := filepath.Join(outputDir, "grading_report.md")
	if err := renderer.RenderMarkdown(report, mdPath); err != nil {
		return err
	}
	analysisPath := filepath.Join(outputDir, "detailed_analysis.json")
	if err := renderer.RenderJSON(grade.Analyze(graded), analysisPath); err != nil {
		return err
	}

	if dbPath != "" {
		db, err := store.New(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		runID, err := db.SaveReport(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Saved run %s to %s\n", runID, dbPath)
	}

	renderer.RenderSummary(report)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d students\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")
	return nil
}
