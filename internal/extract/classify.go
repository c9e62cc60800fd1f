package extract

import (
	"regexp"
	"strings"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

var pureNumberRe = regexp.MustCompile(`^[0-9.]+$`)

// formulaSymbols mark an answer as a formula when present.
var formulaSymbols = []string{"=", ":", "+", "-", "×", "÷"}

// ClassifyAnswer determines the answer type of an extracted expected answer:
// pure digits are numeric, text with math symbols is a formula, anything
// else is free text.
func ClassifyAnswer(text string) model.AnswerType {
	if pureNumberRe.MatchString(text) {
		return model.AnswerNumeric
	}
	for _, sym := range formulaSymbols {
		if strings.Contains(text, sym) {
			return model.AnswerFormula
		}
	}
	return model.AnswerText
}
