// Package llm generates optional natural-language feedback for finished
// grading reports. Summaries are produced after scoring and never affect
// any score.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Summarize generates cohort feedback from a finished report.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for feedback generation.
type SummarizeRequest struct {
	// Report is the finished cohort report. Scores are already final.
	Report model.Report

	// Prompt is an optional custom prompt (if empty, use the default).
	Prompt string

	// Model is the specific model to use (provider-specific).
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// SummarizeResponse contains the generated feedback.
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	Provider          string // "openai" or "" (disabled)
	Model             string
	APIKey            string
	BaseURL           string
	Timeout           int // seconds
	MaxTokens         int
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns sensible defaults with the summarizer disabled.
func DefaultConfig() Config {
	return Config{
		Provider:          "",
		Model:             "gpt-4o-mini",
		Timeout:           30,
		MaxTokens:         800,
		RequestsPerSecond: 1,
		Burst:             1,
	}
}

// NewProvider creates a provider from configuration. An empty provider
// name disables the summarizer and returns nil without error.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:          mc.Provider,
		Model:             mc.Model,
		APIKey:            mc.APIKey,
		BaseURL:           mc.BaseURL,
		Timeout:           mc.Timeout,
		MaxTokens:         mc.MaxTokens,
		RequestsPerSecond: mc.RequestsPerSecond,
		Burst:             mc.Burst,
	}
}

// BuildPrompt constructs the default feedback prompt. The LLM sees only
// finished results; it is told explicitly that scores are final.
func BuildPrompt(report model.Report) string {
	s := report.Summary
	prompt := fmt.Sprintf(`You are writing feedback for a teacher about a batch of auto-graded handwritten homework.

RULES:
1. Scores are FINAL. Never suggest changing any score.
2. Only reference the data below; do not invent students or questions.
3. Alignment between answers and questions is positional and may misalign
   when a student skips or reorders answers - mention this caveat once.

Cohort:
- Students graded: %d
- Average score: %.1f/%.1f
- Average accuracy: %.1f%%
- Score range: %.1f - %.1f

Per-student scores:
`, s.TotalStudents, s.AverageScore, s.MaxScore, s.AverageAccuracy*100, s.LowestScore, s.HighestScore)

	for i, sr := range report.StudentResults {
		if i >= 20 {
			prompt += fmt.Sprintf("... and %d more students\n", len(report.StudentResults)-20)
			break
		}
		prompt += fmt.Sprintf("- %s: %.1f/%.1f (%.1f%%)\n",
			sr.StudentID, sr.TotalScore, sr.MaxScore, sr.Accuracy*100)
	}

	prompt += "\nWrite a 3-5 sentence summary of class performance and which question areas need review."
	return prompt
}
