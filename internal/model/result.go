package model

import "time"

// NoAnswerText is the student_answer sentinel used when no candidate was
// aligned to a question.
const NoAnswerText = "No answer found"

// QuestionResult is the scored outcome for one template question of one
// student. Immutable once built.
type QuestionResult struct {
	QuestionID      string   `json:"question_id"`
	ExpectedAnswer  string   `json:"expected_answer"`
	StudentAnswer   string   `json:"student_answer"`
	ConfidenceScore float64  `json:"confidence_score"`
	PointsEarned    float64  `json:"points_earned"`
	MaxPoints       float64  `json:"max_points"`
	IsCorrect       bool     `json:"is_correct"`
	Feedback        []string `json:"feedback"`
}

// GradingResult is the outcome of grading one student's sheet against a
// template. QuestionResults follow template order.
type GradingResult struct {
	StudentID       string           `json:"student_id"`
	TotalScore      float64          `json:"total_score"`
	MaxScore        float64          `json:"max_score"`
	QuestionResults []QuestionResult `json:"question_results"`
	OverallAccuracy float64          `json:"overall_accuracy"`
	Feedback        []string         `json:"feedback"`
}

// Summary holds cohort-level aggregate statistics.
type Summary struct {
	TotalStudents   int     `json:"total_students"`
	AverageScore    float64 `json:"average_score"`
	AverageAccuracy float64 `json:"average_accuracy"`
	HighestScore    float64 `json:"highest_score"`
	LowestScore     float64 `json:"lowest_score"`
	MaxScore        float64 `json:"max_score"`
}

// StudentResult is one student's entry in the persisted report form.
type StudentResult struct {
	StudentID       string           `json:"student_id"`
	TotalScore      float64          `json:"total_score"`
	MaxScore        float64          `json:"max_score"`
	Accuracy        float64          `json:"accuracy"`
	Feedback        []string         `json:"feedback"`
	QuestionDetails []QuestionResult `json:"question_details"`
}

// Report aggregates a batch of grading results. Built once after a batch
// run; failures during the run never appear here.
type Report struct {
	RunID          string          `json:"run_id,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
	Summary        Summary         `json:"summary"`
	StudentResults []StudentResult `json:"student_results"`

	// LLM holds the optional generated feedback summary. It is produced
	// after scoring and never affects any score.
	LLM *LLMSummary `json:"llm,omitempty"`
}

// LLMSummary contains the optional LLM-generated cohort feedback.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
