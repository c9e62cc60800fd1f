package model

// Fragment is one OCR-recognized text region. Produced by the external OCR
// engine and consumed read-only; the grading core never invokes OCR itself.
type Fragment struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // recognition confidence in [0,1]
	Box        [4]int  `json:"box"`        // left, top, right, bottom
}

// Top returns the vertical position of the fragment, used for reading-order
// sorting.
func (f Fragment) Top() int { return f.Box[1] }

// Candidate is a fragment that survived the answer-likeness filter.
// Candidates exist only for the duration of one grading run.
type Candidate struct {
	SourceIndex int     `json:"source_index"` // position in the original fragment sequence
	Text        string  `json:"text"`         // cleaned text
	Confidence  float64 `json:"confidence"`
	Box         [4]int  `json:"box"`
}

// Top returns the vertical position of the candidate's bounding box.
func (c Candidate) Top() int { return c.Box[1] }
