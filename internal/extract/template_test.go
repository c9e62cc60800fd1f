package extract

import (
	"testing"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

func TestExtractPatternPass(t *testing.T) {
	e := NewTemplateExtractor()
	template := e.Extract(frags("基础练习", "7", "0.5", "24"))

	if template.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", template.Len())
	}
	ids := template.IDs()
	want := []string{"Q2", "Q3", "Q4"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
	q, _ := template.Get("Q2")
	if q.ExpectedAnswer != "7" {
		t.Errorf("Q2 answer = %q, want 7", q.ExpectedAnswer)
	}
	if q.AnswerType != model.AnswerNumeric {
		t.Errorf("Q2 type = %q, want numeric", q.AnswerType)
	}
	if q.Points != 2.0 {
		t.Errorf("Q2 points = %v, want 2.0 for 基础练习", q.Points)
	}
}

func TestExtractPointsFollowFinalSection(t *testing.T) {
	// Points come from the section the header pass ended on, even for
	// answers that appear before that header on the sheet.
	e := NewTemplateExtractor()
	template := e.Extract(frags("基础练习", "7", "24", "拓展练习", "96"))

	if template.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", template.Len())
	}
	for _, q := range template.Questions() {
		if q.Points != 6.0 {
			t.Errorf("%s points = %v, want 6.0 for 拓展练习", q.QuestionID, q.Points)
		}
	}
}

func TestExtractUnknownSectionDefaultPoints(t *testing.T) {
	e := NewTemplateExtractor()
	template := e.Extract(frags("7", "24", "96"))
	for _, q := range template.Questions() {
		if q.Points != 3.0 {
			t.Errorf("%s points = %v, want default 3.0", q.QuestionID, q.Points)
		}
	}
}

func TestExtractFallbackOnDegenerateResult(t *testing.T) {
	// Only one fragment matches an answer pattern, which is below the
	// degenerate threshold; the looser fallback pass runs instead.
	e := NewTemplateExtractor()
	template := e.Extract(frags("填空", "abc", "x=8"))

	if template.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", template.Len())
	}
	q, ok := template.Get("Q3")
	if !ok {
		t.Fatalf("Q3 missing, got ids %v", template.IDs())
	}
	if q.ExpectedAnswer != "x=8" {
		t.Errorf("answer = %q, want x=8", q.ExpectedAnswer)
	}
	if q.Points != 3.0 {
		t.Errorf("points = %v, want flat 3.0 in fallback", q.Points)
	}
}

func TestExtractFallbackSkipsLongAndQuestionText(t *testing.T) {
	e := NewTemplateExtractor()
	long := "这是一段超过二十个字符限制的很长的题目描述文字123456"
	template := e.Extract(frags("解比例", long, "x=9"))
	if template.Len() != 1 {
		t.Fatalf("Len() = %d, want 1, ids %v", template.Len(), template.IDs())
	}
}

func TestExtractEmptyInput(t *testing.T) {
	e := NewTemplateExtractor()
	template := e.Extract(nil)
	if template.Len() != 0 {
		t.Errorf("Len() = %d, want 0", template.Len())
	}
}

func TestQuestionNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.下面是题目", "1"},
		{"(2)", "2"},
		{"（3）", "3"},
		{"没有编号", ""},
	}
	for _, tt := range tests {
		if got := questionNumber(tt.in); got != tt.want {
			t.Errorf("questionNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEstimatePoints(t *testing.T) {
	tests := []struct {
		section string
		want    float64
	}{
		{"基础练习", 2.0},
		{"提高练习", 4.0},
		{"拓展练习", 6.0},
		{"未知", 3.0},
		{"", 3.0},
	}
	for _, tt := range tests {
		if got := estimatePoints(tt.section); got != tt.want {
			t.Errorf("estimatePoints(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}
