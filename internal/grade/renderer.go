package grade

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// Renderer writes reports as JSON, Markdown, or a terminal summary table.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes v as indented JSON to path.
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the cohort report as a Markdown document.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	b.WriteString("# Grading Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("## Summary\n\n")
	s := report.Summary
	fmt.Fprintf(&b, "- Students graded: %d\n", s.TotalStudents)
	fmt.Fprintf(&b, "- Average score: %.1f/%.1f\n", s.AverageScore, s.MaxScore)
	fmt.Fprintf(&b, "- Average accuracy: %.1f%%\n", s.AverageAccuracy*100)
	fmt.Fprintf(&b, "- Score range: %.1f - %.1f\n\n", s.LowestScore, s.HighestScore)

	b.WriteString("## Students\n\n")
	b.WriteString("| Student | Score | Accuracy |\n")
	b.WriteString("| --- | ---: | ---: |\n")
	for _, sr := range report.StudentResults {
		fmt.Fprintf(&b, "| %s | %.1f/%.1f | %.1f%% |\n",
			sr.StudentID, sr.TotalScore, sr.MaxScore, sr.Accuracy*100)
	}
	b.WriteString("\n")

	for _, sr := range report.StudentResults {
		fmt.Fprintf(&b, "### %s\n\n", sr.StudentID)
		for _, qr := range sr.QuestionDetails {
			status := "✗"
			if qr.IsCorrect {
				status = "✓"
			}
			fmt.Fprintf(&b, "- %s %s: `%s` (expected `%s`): %.1f/%.1f points\n",
				status, qr.QuestionID, qr.StudentAnswer, qr.ExpectedAnswer,
				qr.PointsEarned, qr.MaxPoints)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("## Feedback Summary (LLM-generated, does not affect scores)\n\n")
		b.WriteString(report.LLM.SummaryMD)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by gradetool. Alignment is positional; review misaligned sheets manually.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints the cohort summary table to stderr.
func (r *Renderer) RenderSummary(report *model.Report) {
	r.renderSummaryTo(os.Stderr, report)
}

func (r *Renderer) renderSummaryTo(w io.Writer, report *model.Report) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Student", "Score", "Max", "Accuracy"})
	for _, sr := range report.StudentResults {
		tw.AppendRow(table.Row{
			sr.StudentID,
			fmt.Sprintf("%.1f", sr.TotalScore),
			fmt.Sprintf("%.1f", sr.MaxScore),
			fmt.Sprintf("%.1f%%", sr.Accuracy*100),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	s := report.Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, tw.Render())
	fmt.Fprintf(w, "Students: %d  Average: %.1f/%.1f (%.1f%%)  Range: %.1f - %.1f\n",
		s.TotalStudents, s.AverageScore, s.MaxScore, s.AverageAccuracy*100,
		s.LowestScore, s.HighestScore)
}
