package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "grades.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTemplateRoundTrip(t *testing.T) {
	s := openTestStore(t)

	template := model.NewTemplate()
	ids := []string{"2.3", "1.1", "1.2"}
	for _, id := range ids {
		if err := template.Add(model.NewQuestion(id, "text", "7", model.AnswerNumeric, 2.0)); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.SaveTemplate("hw1", template); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}
	loaded, err := s.LoadTemplate("hw1")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	got := loaded.IDs()
	if len(got) != len(ids) {
		t.Fatalf("IDs = %v, want %v", got, ids)
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("IDs[%d] = %q, want %q (order must survive persistence)", i, got[i], ids[i])
		}
	}
}

func TestSaveTemplateReplaces(t *testing.T) {
	s := openTestStore(t)

	v1 := model.NewTemplate()
	_ = v1.Add(model.NewQuestion("1.1", "", "7", model.AnswerNumeric, 2.0))
	v2 := model.NewTemplate()
	_ = v2.Add(model.NewQuestion("1.1", "", "8", model.AnswerNumeric, 2.0))
	_ = v2.Add(model.NewQuestion("1.2", "", "9", model.AnswerNumeric, 2.0))

	if err := s.SaveTemplate("hw1", v1); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTemplate("hw1", v2); err != nil {
		t.Fatalf("second SaveTemplate: %v", err)
	}
	loaded, err := s.LoadTemplate("hw1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 2 {
		t.Errorf("Len = %d, want 2 after replace", loaded.Len())
	}
}

func TestLoadTemplateMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadTemplate("absent"); err == nil {
		t.Error("expected error for missing template")
	}
}

func sampleReport() *model.Report {
	return &model.Report{
		GeneratedAt: time.Now().UTC(),
		Summary: model.Summary{
			TotalStudents:   2,
			AverageScore:    20,
			AverageAccuracy: 0.5,
			HighestScore:    30,
			LowestScore:     10,
			MaxScore:        40,
		},
		StudentResults: []model.StudentResult{
			{
				StudentID:  "hw_2",
				TotalScore: 30,
				MaxScore:   40,
				Accuracy:   0.75,
				QuestionDetails: []model.QuestionResult{
					{QuestionID: "1.1", StudentAnswer: "7", ExpectedAnswer: "7", IsCorrect: true, PointsEarned: 2, MaxPoints: 2},
				},
			},
			{StudentID: "hw_3", TotalScore: 10, MaxScore: 40, Accuracy: 0.25},
		},
	}
}

func TestSaveReportAndListRuns(t *testing.T) {
	s := openTestStore(t)

	runID, err := s.SaveReport(sampleReport())
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	runs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != runID {
		t.Errorf("ID = %q, want %q", run.ID, runID)
	}
	if run.Summary.TotalStudents != 2 || run.Summary.MaxScore != 40 {
		t.Errorf("Summary = %+v", run.Summary)
	}
}

func TestSaveReportKeepsExplicitRunID(t *testing.T) {
	s := openTestStore(t)
	report := sampleReport()
	report.RunID = "run-42"
	runID, err := s.SaveReport(report)
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if runID != "run-42" {
		t.Errorf("runID = %q, want run-42", runID)
	}
}

func TestStudentResults(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.SaveReport(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	results, err := s.StudentResults(runID)
	if err != nil {
		t.Fatalf("StudentResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].StudentID != "hw_2" || results[1].StudentID != "hw_3" {
		t.Errorf("students = %q, %q", results[0].StudentID, results[1].StudentID)
	}
	if len(results[0].QuestionDetails) != 1 {
		t.Errorf("QuestionDetails = %v", results[0].QuestionDetails)
	}
	if results[0].QuestionDetails[0].QuestionID != "1.1" {
		t.Errorf("detail = %+v", results[0].QuestionDetails[0])
	}
}

func TestStudentResultsUnknownRun(t *testing.T) {
	s := openTestStore(t)
	results, err := s.StudentResults("no-such-run")
	if err != nil {
		t.Fatalf("StudentResults: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
