package sentiment

// Result is the document-level polarity of a piece of text.
// Score lies in [-1, 1]; Magnitude is unbounded and never negative.
type Result struct {
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
}
