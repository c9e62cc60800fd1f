package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// questionMarkers are prompt labels that mark question text on the sheet.
// A fragment containing any of these is never treated as a student answer.
var questionMarkers = []string{
	"填空",   // fill-in-blank
	"解比例",  // solve proportion
	"应用题",  // application problem
	"拓展题",  // extension problem
	"基础练习", // basic practice
	"提高练习", // advanced practice
}

// cleanRe strips everything except word characters, whitespace and the
// symbol set . - + = : / ( ) [ ] { }. The whitelist decides what survives
// OCR noise and must stay in sync with the symbolic answer pattern below.
var cleanRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.\-+=:/()\[\]{}]`)

// symbolicRe matches text made entirely of digits and math symbols.
var symbolicRe = regexp.MustCompile(`^[0-9.\-+=:/()\[\]{}]+$`)

const (
	minAnswerLen      = 2  // cleaned runes below this are noise
	maxShortAnswerLen = 10 // grading filter: short text with a digit is an answer
	maxExtractLen     = 15 // template-extraction variant of the same bound
)

// CleanText folds full-width characters to their half-width forms and strips
// everything outside the whitelist. OCR of Chinese worksheets commonly emits
// full-width digits and parentheses.
func CleanText(text string) string {
	folded := width.Fold.String(text)
	return strings.TrimSpace(cleanRe.ReplaceAllString(folded, ""))
}

// CandidateFilter decides which recognized fragments are plausible student
// answers rather than question prompts, section headers or noise.
type CandidateFilter struct {
	markers []string
	maxLen  int
}

// NewCandidateFilter creates the filter used for grading runs.
func NewCandidateFilter() *CandidateFilter {
	return &CandidateFilter{markers: questionMarkers, maxLen: maxShortAnswerLen}
}

// newExtractionFilter creates the looser variant used during template
// extraction, which tolerates slightly longer answers.
func newExtractionFilter() *CandidateFilter {
	return &CandidateFilter{markers: questionMarkers, maxLen: maxExtractLen}
}

// Filter reduces raw fragments to answer candidates, preserving the
// original fragment order.
func (f *CandidateFilter) Filter(fragments []model.Fragment) []model.Candidate {
	var candidates []model.Candidate
	for i, frag := range fragments {
		cleaned := CleanText(frag.Text)
		if len([]rune(cleaned)) < minAnswerLen || f.isQuestionText(cleaned) {
			continue
		}
		if !f.looksLikeAnswer(cleaned) {
			continue
		}
		candidates = append(candidates, model.Candidate{
			SourceIndex: i,
			Text:        cleaned,
			Confidence:  frag.Confidence,
			Box:         frag.Box,
		})
	}
	return candidates
}

// isQuestionText reports whether the cleaned text carries a question marker.
func (f *CandidateFilter) isQuestionText(text string) bool {
	for _, marker := range f.markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// looksLikeAnswer accepts pure symbolic/numeric text of any length, or short
// text containing at least one digit. Handwritten math answers are short and
// symbol-dense; this accepts both "24" and "x=1.2" while rejecting prose.
func (f *CandidateFilter) looksLikeAnswer(text string) bool {
	if symbolicRe.MatchString(text) {
		return true
	}
	return len([]rune(text)) <= f.maxLen && containsDigit(text)
}

func containsDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
