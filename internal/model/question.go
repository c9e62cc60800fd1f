package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnswerType classifies how an expected answer is compared during scoring.
type AnswerType string

const (
	AnswerNumeric AnswerType = "numeric" // compared as numbers within a tolerance
	AnswerFormula AnswerType = "formula" // normalized then compared by similarity
	AnswerText    AnswerType = "text"    // case-insensitive similarity
	AnswerOther   AnswerType = "other"   // raw similarity, always reports the ratio
)

// Valid reports whether t is one of the four known answer types.
func (t AnswerType) Valid() bool {
	switch t {
	case AnswerNumeric, AnswerFormula, AnswerText, AnswerOther:
		return true
	}
	return false
}

// DefaultTolerance is the maximum absolute numeric deviation accepted
// when a question does not configure its own.
const DefaultTolerance = 0.1

// Question is one entry of an answer-key template.
type Question struct {
	QuestionID     string     `json:"question_id"`
	QuestionText   string     `json:"question_text"`
	ExpectedAnswer string     `json:"expected_answer"`
	AnswerType     AnswerType `json:"answer_type"`
	Points         float64    `json:"points"`
	Tolerance      float64    `json:"tolerance"`
	PartialCredit  bool       `json:"partial_credit"`
}

// NewQuestion builds a question with the default tolerance and partial
// credit enabled.
func NewQuestion(id, text, expected string, typ AnswerType, points float64) Question {
	return Question{
		QuestionID:     id,
		QuestionText:   text,
		ExpectedAnswer: expected,
		AnswerType:     typ,
		Points:         points,
		Tolerance:      DefaultTolerance,
		PartialCredit:  true,
	}
}

// Template is the ordered, typed set of expected questions for one
// assignment. Insertion order defines the expected top-to-bottom reading
// order of answers on the page. A template is built once and read-only
// afterwards; grading calls receive it explicitly and never mutate it.
type Template struct {
	ids  []string
	byID map[string]Question
}

// NewTemplate creates an empty template.
func NewTemplate() *Template {
	return &Template{byID: make(map[string]Question)}
}

// Add appends a question, validating the template invariants.
func (t *Template) Add(q Question) error {
	if q.QuestionID == "" {
		return fmt.Errorf("question id must not be empty")
	}
	if _, exists := t.byID[q.QuestionID]; exists {
		return fmt.Errorf("duplicate question id %q", q.QuestionID)
	}
	if q.Points <= 0 {
		return fmt.Errorf("question %s: points must be positive, got %v", q.QuestionID, q.Points)
	}
	if q.Tolerance < 0 {
		return fmt.Errorf("question %s: tolerance must not be negative, got %v", q.QuestionID, q.Tolerance)
	}
	if !q.AnswerType.Valid() {
		return fmt.Errorf("question %s: unknown answer type %q", q.QuestionID, q.AnswerType)
	}
	t.ids = append(t.ids, q.QuestionID)
	t.byID[q.QuestionID] = q
	return nil
}

// Get returns the question with the given id.
func (t *Template) Get(id string) (Question, bool) {
	q, ok := t.byID[id]
	return q, ok
}

// IDs returns the question ids in insertion order.
func (t *Template) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Questions returns all questions in insertion order.
func (t *Template) Questions() []Question {
	out := make([]Question, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.byID[id])
	}
	return out
}

// Len returns the number of questions.
func (t *Template) Len() int { return len(t.ids) }

// MaxScore returns the sum of points across all questions.
func (t *Template) MaxScore() float64 {
	var sum float64
	for _, id := range t.ids {
		sum += t.byID[id].Points
	}
	return sum
}

// MarshalJSON encodes the template as a question_id -> question mapping,
// emitting keys in insertion order so the persisted form round-trips
// losslessly.
func (t *Template) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range t.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(t.byID[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the persisted mapping form. The decoder walks the
// raw token stream so the original key order survives, which a plain map
// round-trip would lose.
func (t *Template) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("template: expected JSON object, got %v", tok)
	}

	t.ids = nil
	t.byID = make(map[string]Question)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("template: expected string key, got %v", keyTok)
		}
		var q Question
		if err := dec.Decode(&q); err != nil {
			return fmt.Errorf("template: question %q: %w", key, err)
		}
		if q.QuestionID == "" {
			q.QuestionID = key
		}
		if err := t.Add(q); err != nil {
			return err
		}
	}
	return nil
}

// DefaultTemplate returns the built-in answer key for the proportion
// homework sheet the system was developed against. Used when no template
// file is supplied.
func DefaultTemplate() *Template {
	t := NewTemplate()
	add := func(id, text, expected string, typ AnswerType, points float64) {
		// Built-in data is known valid.
		_ = t.Add(NewQuestion(id, text, expected, typ, points))
	}
	add("1.1", "填空(1)", "7", AnswerNumeric, 2.0)
	add("1.2", "填空(2)", "0.5", AnswerNumeric, 2.0)
	add("1.3", "填空(3)", "a:b=5:4", AnswerFormula, 3.0)
	add("1.4", "填空(4)", "24", AnswerNumeric, 2.0)
	add("1.5", "填空(5)", "4:5", AnswerFormula, 3.0)
	add("2.1", "解比例(1)", "x=1.2", AnswerFormula, 4.0)
	add("2.2", "解比例(2)", "x=125", AnswerNumeric, 4.0)
	add("2.3", "解比例(3)", "x=8", AnswerNumeric, 4.0)
	add("2.4", "解比例(4)", "x=9", AnswerNumeric, 4.0)
	add("3.1", "列比例(1)", "45:x=25:8", AnswerFormula, 5.0)
	add("3.2", "列比例(2)", "4.5:0.2=x:0.5", AnswerFormula, 5.0)
	add("4", "应用题", "7.5", AnswerNumeric, 6.0)
	add("5", "拓展题", "甲:96袋,乙:72袋", AnswerText, 8.0)
	return t
}
