package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/chen-albert-liang/grading-tool/internal/extract"
	"github.com/chen-albert-liang/grading-tool/internal/grade"
	"github.com/chen-albert-liang/grading-tool/internal/model"
)

var templateOut string

// templateCmd represents the template command
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Build and inspect answer-key templates",
}

var templateExtractCmd = &cobra.Command{
	Use:   "extract <teacher-ocr-file>",
	Short: "Derive an answer-key template from a teacher's OCR output",
	Long: `Extract runs the two-pass answer-key heuristic over a teacher's own OCR
result. Extraction is best-effort: when fewer than 3 answers match the
known answer shapes, a looser fallback pass runs instead. Check the
extracted question count and fall back to a hand-authored template when
the result is too small.

Example:
  gradetool template extract output/hw_1_res.json --out teacher_template.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateExtract,
}

var templateShowCmd = &cobra.Command{
	Use:   "show [template-file]",
	Short: "Display a template (built-in template when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplateShow,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateExtractCmd)
	templateCmd.AddCommand(templateShowCmd)

	templateExtractCmd.Flags().StringVar(&templateOut, "out", "teacher_template.json", "output template path")
}

func runTemplateExtract(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	fragments, err := newLoader(cfg).LoadFile(args[0])
	if err != nil {
		return err
	}

	template := extract.NewTemplateExtractor().Extract(fragments)
	if template.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no questions extracted; supply a hand-authored template instead")
	}

	if err := grade.NewRenderer(false).RenderJSON(template, templateOut); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Extracted %d questions to %s\n", template.Len(), templateOut)
	printTemplate(template)
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	template, err := loadTemplate(path)
	if err != nil {
		return err
	}
	printTemplate(template)
	return nil
}

func printTemplate(template *model.Template) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Question", "Expected", "Type", "Points", "Tolerance", "Partial"})
	for _, q := range template.Questions() {
		tw.AppendRow(table.Row{
			q.QuestionID, q.QuestionText, q.ExpectedAnswer, string(q.AnswerType),
			fmt.Sprintf("%.1f", q.Points), fmt.Sprintf("%.2f", q.Tolerance), q.PartialCredit,
		})
	}
	fmt.Println(tw.Render())
	fmt.Printf("%d questions, max score %.1f\n", template.Len(), template.MaxScore())
}
