package grade

import (
	"time"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// BuildReport aggregates successfully graded students into a cohort report.
// An empty input yields a zeroed summary, not an error.
func BuildReport(results []*model.GradingResult) *model.Report {
	report := &model.Report{
		GeneratedAt:    time.Now().UTC(),
		StudentResults: make([]model.StudentResult, 0, len(results)),
	}
	if len(results) == 0 {
		return report
	}

	var scoreSum, accuracySum float64
	highest := results[0].TotalScore
	lowest := results[0].TotalScore
	for _, r := range results {
		scoreSum += r.TotalScore
		accuracySum += r.OverallAccuracy
		if r.TotalScore > highest {
			highest = r.TotalScore
		}
		if r.TotalScore < lowest {
			lowest = r.TotalScore
		}
		report.StudentResults = append(report.StudentResults, model.StudentResult{
			StudentID:       r.StudentID,
			TotalScore:      r.TotalScore,
			MaxScore:        r.MaxScore,
			Accuracy:        r.OverallAccuracy,
			Feedback:        r.Feedback,
			QuestionDetails: r.QuestionResults,
		})
	}

	n := float64(len(results))
	report.Summary = model.Summary{
		TotalStudents:   len(results),
		AverageScore:    scoreSum / n,
		AverageAccuracy: accuracySum / n,
		HighestScore:    highest,
		LowestScore:     lowest,
		MaxScore:        results[0].MaxScore,
	}
	return report
}
