// Package score grades aligned answer candidates against template questions.
package score

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// Policy constants. The similarity tiers and partial-credit factor are
// fixed policy, not per-question configuration.
const (
	// SimilarityFullCredit is the ratio at or above which an answer earns
	// full credit.
	SimilarityFullCredit = 0.8
	// SimilarityPartialCredit is the ratio at or above which a
	// partial-credit-eligible answer earns half credit.
	SimilarityPartialCredit = 0.6
	// PartialCreditFactor is the fraction of points awarded for a near-miss.
	PartialCreditFactor = 0.5
)

// numberRe extracts the first numeric run from an answer.
var numberRe = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)

// whitespaceRe collapses whitespace during formula normalization.
var whitespaceRe = regexp.MustCompile(`\s+`)

// Scorer applies the type-specific comparator for each question.
type Scorer struct{}

// NewScorer creates a new scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Grade scores one aligned candidate against its question. A nil candidate
// means no answer was found for the question and earns zero points.
func (s *Scorer) Grade(candidate *model.Candidate, question model.Question) model.QuestionResult {
	result := model.QuestionResult{
		QuestionID:     question.QuestionID,
		ExpectedAnswer: question.ExpectedAnswer,
		MaxPoints:      question.Points,
	}

	if candidate == nil {
		result.StudentAnswer = model.NoAnswerText
		result.Feedback = []string{"No answer detected"}
		return result
	}

	result.StudentAnswer = candidate.Text
	result.ConfidenceScore = candidate.Confidence

	switch question.AnswerType {
	case model.AnswerNumeric:
		s.gradeNumeric(candidate, question, &result)
	case model.AnswerFormula:
		s.gradeFormula(candidate, question, &result)
	case model.AnswerText:
		s.gradeText(candidate, question, &result)
	case model.AnswerOther:
		s.gradeOther(candidate, question, &result)
	default:
		s.gradeOther(candidate, question, &result)
	}
	return result
}

// gradeNumeric compares the first numeric run of both answers within the
// question's tolerance. Numeric questions never earn partial credit.
func (s *Scorer) gradeNumeric(candidate *model.Candidate, question model.Question, result *model.QuestionResult) {
	studentRun := numberRe.FindString(candidate.Text)
	if studentRun == "" {
		result.Feedback = append(result.Feedback, "No numeric answer found")
		return
	}

	expectedRun := numberRe.FindString(question.ExpectedAnswer)
	studentValue, errS := strconv.ParseFloat(studentRun, 64)
	expectedValue, errE := strconv.ParseFloat(expectedRun, 64)
	if errS != nil || errE != nil {
		result.Feedback = append(result.Feedback, "Could not parse numeric answer")
		return
	}

	if math.Abs(studentValue-expectedValue) <= question.Tolerance {
		result.IsCorrect = true
		result.PointsEarned = question.Points
		result.Feedback = append(result.Feedback, "Correct!")
	} else {
		result.Feedback = append(result.Feedback,
			fmt.Sprintf("Expected %s, got %s", formatNumber(expectedValue), formatNumber(studentValue)))
	}
}

// gradeFormula normalizes both formulas and scores by similarity tier.
func (s *Scorer) gradeFormula(candidate *model.Candidate, question model.Question, result *model.QuestionResult) {
	similarity := Ratio(
		NormalizeFormula(candidate.Text),
		NormalizeFormula(question.ExpectedAnswer),
	)

	switch {
	case similarity >= SimilarityFullCredit:
		result.IsCorrect = true
		result.PointsEarned = question.Points
		result.Feedback = append(result.Feedback, "Correct formula!")
	case similarity >= SimilarityPartialCredit && question.PartialCredit:
		result.PointsEarned = question.Points * PartialCreditFactor
		result.Feedback = append(result.Feedback,
			fmt.Sprintf("Partially correct (similarity: %.2f)", similarity))
	default:
		result.Feedback = append(result.Feedback,
			fmt.Sprintf("Formula doesn't match (similarity: %.2f)", similarity))
	}
}

// gradeText scores free-text answers by case-insensitive similarity.
func (s *Scorer) gradeText(candidate *model.Candidate, question model.Question, result *model.QuestionResult) {
	similarity := Ratio(
		strings.ToLower(candidate.Text),
		strings.ToLower(question.ExpectedAnswer),
	)

	switch {
	case similarity >= SimilarityFullCredit:
		result.IsCorrect = true
		result.PointsEarned = question.Points
		result.Feedback = append(result.Feedback, "Correct answer!")
	case similarity >= SimilarityPartialCredit && question.PartialCredit:
		result.PointsEarned = question.Points * PartialCreditFactor
		result.Feedback = append(result.Feedback,
			fmt.Sprintf("Partially correct (similarity: %.2f)", similarity))
	default:
		result.Feedback = append(result.Feedback,
			fmt.Sprintf("Answer doesn't match (similarity: %.2f)", similarity))
	}
}

// gradeOther scores unclassified answers on the raw strings and always
// reports the ratio.
func (s *Scorer) gradeOther(candidate *model.Candidate, question model.Question, result *model.QuestionResult) {
	similarity := Ratio(candidate.Text, question.ExpectedAnswer)

	switch {
	case similarity >= SimilarityFullCredit:
		result.IsCorrect = true
		result.PointsEarned = question.Points
	case similarity >= SimilarityPartialCredit && question.PartialCredit:
		result.PointsEarned = question.Points * PartialCreditFactor
	}
	result.Feedback = append(result.Feedback,
		fmt.Sprintf("Similarity score: %.2f", similarity))
}

// NormalizeFormula removes whitespace, lowercases, and maps the
// multiplication/division glyphs to ASCII operators.
func NormalizeFormula(formula string) string {
	normalized := whitespaceRe.ReplaceAllString(strings.ToLower(formula), "")
	normalized = strings.ReplaceAll(normalized, "×", "*")
	normalized = strings.ReplaceAll(normalized, "÷", "/")
	return normalized
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
