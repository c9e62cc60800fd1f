package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// Point estimates by worksheet section. Unknown sections get the default.
const (
	basicSectionPoints     = 2.0
	advancedSectionPoints  = 4.0
	extensionSectionPoints = 6.0
	defaultSectionPoints   = 3.0
)

// degenerateThreshold triggers the fallback pass when the pattern pass
// extracts fewer questions than this.
const degenerateThreshold = 3

// fallbackMaxLen caps fragment length considered by the fallback pass.
const fallbackMaxLen = 20

// sectionNames are the worksheet section headers, in difficulty order.
var sectionNames = []string{"基础练习", "提高练习", "拓展练习"}

// questionNumberRes match per-question numbering markers: "1.", "(2)", "（3）".
var questionNumberRes = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\.`),
	regexp.MustCompile(`[（(](\d+)[）)]`),
	regexp.MustCompile(`（(\d+)）`),
}

// answerPatterns are the answer shapes recognized on a teacher's answer key,
// tried in order: plain number, x = number, ratio, and the two-clause
// Chinese text answer. The first match wins.
var answerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`([xX]\s*=\s*[\d.]+)`),
	regexp.MustCompile(`([\d.]+\s*:\s*[\d.]+)`),
	regexp.MustCompile(`(甲[：:]\d+袋[，,]\s*乙[：:]\d+袋)`),
}

// TemplateExtractor derives an answer-key template from a teacher's own OCR
// output, for assignments without a hand-authored template.
type TemplateExtractor struct {
	filter *CandidateFilter
	logger *slog.Logger
}

// NewTemplateExtractor creates a template extractor.
func NewTemplateExtractor() *TemplateExtractor {
	return &TemplateExtractor{
		filter: newExtractionFilter(),
		logger: slog.Default(),
	}
}

// Extract runs the two-pass heuristic over the teacher's fragments and
// returns a best-effort template. A degenerate result (too few or no
// questions) is not an error: callers must check Len() and fall back to a
// manual template when the extraction is unusable.
func (e *TemplateExtractor) Extract(fragments []model.Fragment) *model.Template {
	// First pass: walk section headers and question-number markers. The
	// cursor is tracked for diagnostics and future section-aware point
	// estimation; per-fragment cursor state is deliberately not consumed
	// by the answer pass below.
	var currentSection, currentQuestion string
	for _, frag := range fragments {
		cleaned := CleanText(frag.Text)
		if isSectionHeader(cleaned) {
			currentSection = sectionName(cleaned)
			e.logger.Debug("found section", "section", currentSection)
			continue
		}
		if num := questionNumber(cleaned); num != "" {
			currentQuestion = num
			e.logger.Debug("found question marker", "question", currentQuestion)
		}
	}

	// Second pass: scan every fragment for answer shapes. Points come from
	// the section the first pass ended on, matching the original behavior.
	template := model.NewTemplate()
	for i, frag := range fragments {
		cleaned := CleanText(frag.Text)
		if e.filter.isQuestionText(cleaned) || len([]rune(cleaned)) < 1 {
			continue
		}
		for _, pattern := range answerPatterns {
			m := pattern.FindStringSubmatch(cleaned)
			if m == nil {
				continue
			}
			answer := m[1]
			q := model.NewQuestion(
				fmt.Sprintf("Q%d", i+1),
				fmt.Sprintf("Question %d", i+1),
				answer,
				ClassifyAnswer(answer),
				estimatePoints(currentSection),
			)
			if err := template.Add(q); err != nil {
				e.logger.Debug("skipping extracted question", "error", err)
				break
			}
			e.logger.Debug("extracted answer",
				"question_id", q.QuestionID, "answer", answer, "type", string(q.AnswerType))
			break
		}
	}

	if template.Len() < degenerateThreshold {
		e.logger.Debug("pattern extraction degenerate, using fallback",
			"extracted", template.Len())
		return e.fallback(fragments)
	}
	return template
}

// fallback accepts any short fragment that passes the answer-likeness
// filter, with flat default points.
func (e *TemplateExtractor) fallback(fragments []model.Fragment) *model.Template {
	template := model.NewTemplate()
	for i, frag := range fragments {
		cleaned := CleanText(frag.Text)
		if len([]rune(cleaned)) > fallbackMaxLen || e.filter.isQuestionText(cleaned) {
			continue
		}
		if !e.filter.looksLikeAnswer(cleaned) {
			continue
		}
		q := model.NewQuestion(
			fmt.Sprintf("Q%d", i+1),
			fmt.Sprintf("Question %d", i+1),
			cleaned,
			ClassifyAnswer(cleaned),
			defaultSectionPoints,
		)
		if err := template.Add(q); err != nil {
			e.logger.Debug("skipping fallback question", "error", err)
			continue
		}
		e.logger.Debug("fallback extracted answer",
			"question_id", q.QuestionID, "answer", cleaned)
	}
	return template
}

func isSectionHeader(text string) bool {
	for _, name := range sectionNames {
		if strings.Contains(text, name) {
			return true
		}
	}
	return false
}

func sectionName(text string) string {
	for _, name := range sectionNames {
		if strings.Contains(text, name) {
			return name
		}
	}
	return "未知"
}

func questionNumber(text string) string {
	for _, re := range questionNumberRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func estimatePoints(section string) float64 {
	switch section {
	case "基础练习":
		return basicSectionPoints
	case "提高练习":
		return advancedSectionPoints
	case "拓展练习":
		return extensionSectionPoints
	default:
		return defaultSectionPoints
	}
}
