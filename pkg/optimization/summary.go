// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single optimization directive.
type Summary struct {
	TargetName   string   `json:"targetName"`
	Field        string   `json:"field"`
	Original     float64  `json:"original"`
	Value        float64  `json:"value"`
	TargetMargin float64  `json:"targetMargin"`
	OriginalNPM  float64  `json:"originalNpm"`
	ResultNPM    float64  `json:"resultNpm"`
	Headroom     float64  `json:"headroom"`
	Iterations   int      `json:"iterations"`
	Converged    bool     `json:"converged"`
	Notes        []string `json:"notes,omitempty"`
}

// Change is how far the optimizer moved the field from its configured value.
func (s Summary) Change() float64 {
	return s.Value - s.Original
}
