package grade

import (
	"fmt"
	"strings"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// lowAccuracyThreshold marks questions worth flagging to the teacher.
const lowAccuracyThreshold = 0.5

// QuestionAnalysis summarizes how the cohort performed on one question.
type QuestionAnalysis struct {
	QuestionID     string   `json:"question_id"`
	ExpectedAnswer string   `json:"expected_answer"`
	CorrectCount   int      `json:"correct_count"`
	TotalAttempts  int      `json:"total_attempts"`
	Accuracy       float64  `json:"accuracy"`
	AverageScore   float64  `json:"average_score"`
	StudentAnswers []string `json:"student_answers"`
}

// Analysis is the per-question breakdown of a batch run.
type Analysis struct {
	Questions       []QuestionAnalysis `json:"question_analysis"`
	Recommendations []string           `json:"recommendations"`
}

// Analyze builds the per-question breakdown across all graded students.
// Question order follows the first student's result sequence (template
// order).
func Analyze(results []*model.GradingResult) *Analysis {
	analysis := &Analysis{}
	if len(results) == 0 {
		return analysis
	}

	index := make(map[string]int)
	for _, qr := range results[0].QuestionResults {
		index[qr.QuestionID] = len(analysis.Questions)
		analysis.Questions = append(analysis.Questions, QuestionAnalysis{
			QuestionID:     qr.QuestionID,
			ExpectedAnswer: qr.ExpectedAnswer,
			TotalAttempts:  len(results),
		})
	}

	for _, result := range results {
		for _, qr := range result.QuestionResults {
			i, ok := index[qr.QuestionID]
			if !ok {
				continue
			}
			qa := &analysis.Questions[i]
			if qr.IsCorrect {
				qa.CorrectCount++
			}
			qa.AverageScore += qr.PointsEarned
			qa.StudentAnswers = append(qa.StudentAnswers, qr.StudentAnswer)
		}
	}

	var lowAccuracy []string
	n := float64(len(results))
	for i := range analysis.Questions {
		qa := &analysis.Questions[i]
		qa.AverageScore /= n
		qa.Accuracy = float64(qa.CorrectCount) / float64(qa.TotalAttempts)
		if qa.Accuracy < lowAccuracyThreshold {
			lowAccuracy = append(lowAccuracy, qa.QuestionID)
		}
	}

	if len(lowAccuracy) > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("Questions with low accuracy (<50%%): %s", strings.Join(lowAccuracy, ", ")))
	}
	return analysis
}
