package markov

// Weighted pairs a token with its probability in one of the model's tables.
type Weighted struct {
	Token       Token
	Probability float64
}

// Initials returns a copy of the initial-token distribution in sampling order.
func (m *Model) Initials() []Weighted {
	return append([]Weighted(nil), m.initials...)
}

// Successors returns a copy of the transition distribution for from, in
// sampling order. It returns nil when from has no recorded successor.
func (m *Model) Successors(from Token) []Weighted {
	row, ok := m.transitions[from]
	if !ok {
		return nil
	}
	return append([]Weighted(nil), row...)
}

// SampleInitial selects a sentence-opening token for the uniform draw p.
// It reports false and returns NoToken when p is outside (0, 1).
func (m *Model) SampleInitial(p float64) (Token, bool) {
	return sampleRow(m.initials, p)
}

// SampleTransition selects a successor of from for the uniform draw p.
// It reports false and returns NoToken when p is outside (0, 1) or when from
// has no recorded successor; the latter is an ordinary dead end, not an error.
func (m *Model) SampleTransition(from Token, p float64) (Token, bool) {
	return sampleRow(m.transitions[from], p)
}

// sampleRow accumulates probabilities in order and returns the first entry
// whose running sum exceeds p.
func sampleRow(row []Weighted, p float64) (Token, bool) {
	if !(p > 0 && p < 1) {
		return NoToken, false
	}

	var x float64
	for _, entry := range row {
		x += entry.Probability
		if x > p {
			return entry.Token, true
		}
	}
	// Rounding can leave the total just short of p.
	return NoToken, false
}
