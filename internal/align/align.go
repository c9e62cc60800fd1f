// Package align maps filtered answer candidates to template question ids.
package align

import (
	"sort"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// Matcher assigns candidates to question ids. Implementations may use
// position, spatial proximity to known answer regions, or content cues.
type Matcher interface {
	Match(candidates []model.Candidate, template *model.Template) map[string]model.Candidate
}

// Positional is the default matcher: candidates sorted top-to-bottom are
// zipped against the template's question order. This is a heuristic, not a
// content-aware match: it assumes every answer appears exactly once, in the
// same top-to-bottom order as the template, with no skipped or merged lines.
// A student who skips or reorders answers is silently misaligned.
type Positional struct{}

// NewPositional creates the positional matcher.
func NewPositional() *Positional { return &Positional{} }

// Match zips the i-th candidate (by vertical position) with the i-th
// question id. Extra candidates are dropped; questions beyond the candidate
// count stay unmatched and are absent from the result.
func (Positional) Match(candidates []model.Candidate, template *model.Template) map[string]model.Candidate {
	sorted := make([]model.Candidate, len(candidates))
	copy(sorted, candidates)
	// Stable keeps the original fragment order for equal tops.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Top() < sorted[j].Top()
	})

	ids := template.IDs()
	n := len(sorted)
	if len(ids) < n {
		n = len(ids)
	}

	aligned := make(map[string]model.Candidate, n)
	for i := 0; i < n; i++ {
		aligned[ids[i]] = sorted[i]
	}
	return aligned
}
