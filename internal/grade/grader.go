// Package grade orchestrates the per-student grading pipeline and the
// cohort report that follows a batch run.
package grade

import (
	"errors"
	"fmt"

	"github.com/chen-albert-liang/grading-tool/internal/align"
	"github.com/chen-albert-liang/grading-tool/internal/extract"
	"github.com/chen-albert-liang/grading-tool/internal/model"
	"github.com/chen-albert-liang/grading-tool/internal/score"
)

// ErrNoTemplate is returned when grading is attempted without a usable
// answer-key template.
var ErrNoTemplate = errors.New("no template loaded")

// Grader runs filter, alignment and scoring for one student's fragments.
// The template is passed explicitly on every call and never held as state,
// so a single Grader can serve concurrent grading runs.
type Grader struct {
	filter  *extract.CandidateFilter
	matcher align.Matcher
	scorer  *score.Scorer
}

// NewGrader creates a grader with the default positional matcher.
func NewGrader() *Grader {
	return NewGraderWithMatcher(align.NewPositional())
}

// NewGraderWithMatcher creates a grader with a custom alignment strategy.
func NewGraderWithMatcher(matcher align.Matcher) *Grader {
	return &Grader{
		filter:  extract.NewCandidateFilter(),
		matcher: matcher,
		scorer:  score.NewScorer(),
	}
}

// Grade grades one student's OCR fragments against the template. Every
// template question produces exactly one QuestionResult, in template order;
// questions without an aligned candidate earn zero points.
func (g *Grader) Grade(studentID string, fragments []model.Fragment, template *model.Template) (*model.GradingResult, error) {
	if template == nil || template.Len() == 0 {
		return nil, ErrNoTemplate
	}

	candidates := g.filter.Filter(fragments)
	aligned := g.matcher.Match(candidates, template)

	questionResults := make([]model.QuestionResult, 0, template.Len())
	var totalScore float64
	correct := 0
	for _, question := range template.Questions() {
		var qr model.QuestionResult
		if candidate, ok := aligned[question.QuestionID]; ok {
			qr = g.scorer.Grade(&candidate, question)
		} else {
			qr = g.scorer.Grade(nil, question)
		}
		questionResults = append(questionResults, qr)
		totalScore += qr.PointsEarned
		if qr.IsCorrect {
			correct++
		}
	}

	maxScore := template.MaxScore()
	accuracy := 0.0
	if maxScore > 0 {
		accuracy = totalScore / maxScore
	}

	return &model.GradingResult{
		StudentID:       studentID,
		TotalScore:      totalScore,
		MaxScore:        maxScore,
		QuestionResults: questionResults,
		OverallAccuracy: accuracy,
		Feedback: []string{
			fmt.Sprintf("Score: %.1f/%.1f (%.1f%%)", totalScore, maxScore, accuracy*100),
			fmt.Sprintf("Correct answers: %d/%d", correct, len(questionResults)),
		},
	}, nil
}
