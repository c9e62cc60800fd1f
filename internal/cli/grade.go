package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chen-albert-liang/grading-tool/internal/cache"
	"github.com/chen-albert-liang/grading-tool/internal/grade"
	"github.com/chen-albert-liang/grading-tool/internal/model"
	"github.com/chen-albert-liang/grading-tool/internal/ocr"
)

var (
	templatePath string
	studentID    string
	outJSON      string
	outMD        string
	noFooter     bool
)

// gradeCmd represents the grade command
var gradeCmd = &cobra.Command{
	Use:   "grade <ocr-result-file>",
	Short: "Grade a single student's homework from an OCR result file",
	Long: `Grade filters, aligns and scores one student's OCR output against an
answer-key template.

The input is a PaddleOCR result JSON (rec_texts/rec_scores/rec_boxes) or
an hOCR HTML file. Without --template, the built-in proportion-homework
answer key is used.

Example:
  gradetool grade output/hw_2_res.json
  gradetool grade output/hw_2_res.json --template teacher_template.json --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

func init() {
	rootCmd.AddCommand(gradeCmd)

	gradeCmd.Flags().StringVar(&templatePath, "template", "", "answer-key template JSON (default: built-in template)")
	gradeCmd.Flags().StringVar(&studentID, "student-id", "", "student id (default: derived from filename)")
	gradeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	gradeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	gradeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runGrade(cmd *cobra.Command, args []string) error {
	path := args[0]

	template, err := loadTemplate(templatePath)
	if err != nil {
		return err
	}

	id := studentID
	if id == "" {
		id = ocr.StudentIDFromPath(path)
	}

	cfg := model.DefaultConfig()
	loader := newLoader(cfg)
	fragments, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	result, err := grade.NewGrader().Grade(id, fragments, template)
	if err != nil {
		return err
	}

	report := grade.BuildReport([]*model.GradingResult{result})
	renderer := grade.NewRenderer(!noFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
	}

	fmt.Printf("%s: %.1f/%.1f (%.1f%%)\n",
		result.StudentID, result.TotalScore, result.MaxScore, result.OverallAccuracy*100)
	for _, qr := range result.QuestionResults {
		status := "✗"
		if qr.IsCorrect {
			status = "✓"
		}
		fmt.Printf("  %s %s: %s (expected: %s) - %.1f/%.1f points\n",
			status, qr.QuestionID, qr.StudentAnswer, qr.ExpectedAnswer,
			qr.PointsEarned, qr.MaxPoints)
	}
	return nil
}

// loadTemplate reads a template file, or returns the built-in answer key
// when path is empty.
func loadTemplate(path string) (*model.Template, error) {
	if path == "" {
		return model.DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	template := model.NewTemplate()
	if err := json.Unmarshal(data, template); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return template, nil
}

// newLoader builds an OCR loader honoring the cache configuration.
func newLoader(cfg *model.Config) *ocr.Loader {
	if !cfg.Cache.Enabled {
		return ocr.NewLoader(nil, 0)
	}
	return ocr.NewLoader(cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL), cfg.Cache.TTL)
}
