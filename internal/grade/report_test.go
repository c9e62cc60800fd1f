package grade

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

func gradingResult(studentID string, total, max float64, questions ...model.QuestionResult) *model.GradingResult {
	return &model.GradingResult{
		StudentID:       studentID,
		TotalScore:      total,
		MaxScore:        max,
		OverallAccuracy: total / max,
		QuestionResults: questions,
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil)
	if report.Summary.TotalStudents != 0 {
		t.Errorf("TotalStudents = %d, want 0", report.Summary.TotalStudents)
	}
	if len(report.StudentResults) != 0 {
		t.Errorf("StudentResults = %v, want empty", report.StudentResults)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be set")
	}
}

func TestBuildReportAggregates(t *testing.T) {
	report := BuildReport([]*model.GradingResult{
		gradingResult("hw_2", 30, 40),
		gradingResult("hw_3", 10, 40),
		gradingResult("hw_4", 20, 40),
	})

	s := report.Summary
	if s.TotalStudents != 3 {
		t.Errorf("TotalStudents = %d, want 3", s.TotalStudents)
	}
	if s.AverageScore != 20 {
		t.Errorf("AverageScore = %v, want 20", s.AverageScore)
	}
	if s.HighestScore != 30 || s.LowestScore != 10 {
		t.Errorf("range = %v - %v, want 10 - 30", s.LowestScore, s.HighestScore)
	}
	if s.MaxScore != 40 {
		t.Errorf("MaxScore = %v, want 40", s.MaxScore)
	}
	if math.Abs(s.AverageAccuracy-0.5) > 1e-9 {
		t.Errorf("AverageAccuracy = %v, want 0.5", s.AverageAccuracy)
	}
	if len(report.StudentResults) != 3 {
		t.Fatalf("StudentResults = %d, want 3", len(report.StudentResults))
	}
	if report.StudentResults[0].StudentID != "hw_2" {
		t.Errorf("first student = %q", report.StudentResults[0].StudentID)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	analysis := Analyze(nil)
	if len(analysis.Questions) != 0 || len(analysis.Recommendations) != 0 {
		t.Errorf("empty input should produce empty analysis: %+v", analysis)
	}
}

func TestAnalyzePerQuestion(t *testing.T) {
	q1Right := model.QuestionResult{QuestionID: "1.1", IsCorrect: true, PointsEarned: 2, StudentAnswer: "7"}
	q1Wrong := model.QuestionResult{QuestionID: "1.1", PointsEarned: 0, StudentAnswer: "8"}
	q2Wrong := model.QuestionResult{QuestionID: "2.1", PointsEarned: 0, StudentAnswer: "No answer found"}

	analysis := Analyze([]*model.GradingResult{
		gradingResult("hw_2", 2, 6, q1Right, q2Wrong),
		gradingResult("hw_3", 0, 6, q1Wrong, q2Wrong),
	})

	if len(analysis.Questions) != 2 {
		t.Fatalf("Questions = %d, want 2", len(analysis.Questions))
	}
	// Order follows the first student's results.
	if analysis.Questions[0].QuestionID != "1.1" || analysis.Questions[1].QuestionID != "2.1" {
		t.Errorf("order = %v", []string{analysis.Questions[0].QuestionID, analysis.Questions[1].QuestionID})
	}

	q1 := analysis.Questions[0]
	if q1.CorrectCount != 1 || q1.TotalAttempts != 2 {
		t.Errorf("q1 = %+v", q1)
	}
	if q1.Accuracy != 0.5 {
		t.Errorf("q1.Accuracy = %v, want 0.5", q1.Accuracy)
	}
	if q1.AverageScore != 1 {
		t.Errorf("q1.AverageScore = %v, want 1", q1.AverageScore)
	}
	if len(q1.StudentAnswers) != 2 {
		t.Errorf("q1.StudentAnswers = %v", q1.StudentAnswers)
	}

	// Both questions fall under 50% accuracy? 1.1 is exactly 0.5, not below.
	if len(analysis.Recommendations) != 1 {
		t.Fatalf("Recommendations = %v", analysis.Recommendations)
	}
	rec := analysis.Recommendations[0]
	if !strings.Contains(rec, "2.1") {
		t.Errorf("recommendation should flag 2.1: %q", rec)
	}
	if strings.Contains(rec, "1.1") {
		t.Errorf("1.1 at exactly 50%% should not be flagged: %q", rec)
	}
}

func TestRenderJSONAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	report := BuildReport([]*model.GradingResult{
		gradingResult("hw_2", 15, 20, model.QuestionResult{
			QuestionID: "1.1", StudentAnswer: "7", ExpectedAnswer: "7",
			IsCorrect: true, PointsEarned: 2, MaxPoints: 2,
		}),
	})

	renderer := NewRenderer(true)

	jsonPath := filepath.Join(dir, "report.json")
	if err := renderer.RenderJSON(report, jsonPath); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !strings.Contains(string(data), `"hw_2"`) {
		t.Error("JSON report missing student id")
	}

	mdPath := filepath.Join(dir, "report.md")
	if err := renderer.RenderMarkdown(report, mdPath); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	body := string(md)
	for _, want := range []string{"# Grading Report", "## Summary", "## Students", "### hw_2", "✓ 1.1"} {
		if !strings.Contains(body, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if !strings.Contains(body, "Generated by gradetool") {
		t.Error("footer missing with includeFooter=true")
	}
}

func TestRenderMarkdownNoFooter(t *testing.T) {
	dir := t.TempDir()
	report := BuildReport(nil)
	mdPath := filepath.Join(dir, "report.md")
	if err := NewRenderer(false).RenderMarkdown(report, mdPath); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md, _ := os.ReadFile(mdPath)
	if strings.Contains(string(md), "Generated by gradetool") {
		t.Error("footer present with includeFooter=false")
	}
}

func TestRenderMarkdownIncludesLLMSection(t *testing.T) {
	dir := t.TempDir()
	report := BuildReport(nil)
	report.LLM = &model.LLMSummary{Enabled: true, Provider: "openai", SummaryMD: "Class did well overall."}
	mdPath := filepath.Join(dir, "report.md")
	if err := NewRenderer(false).RenderMarkdown(report, mdPath); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md, _ := os.ReadFile(mdPath)
	body := string(md)
	if !strings.Contains(body, "does not affect scores") {
		t.Error("LLM section header missing")
	}
	if !strings.Contains(body, "Class did well overall.") {
		t.Error("LLM summary text missing")
	}
}
