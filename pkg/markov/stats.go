package markov

// ModelStats holds aggregated statistics for a trained model.
type ModelStats struct {
	InitialTokens     int // The number of distinct tokens that can open a sentence.
	TransitionSources int // The number of tokens with at least one recorded successor.
	TransitionLinks   int // The number of distinct token->successor links.
	PairsExamined     int // The number of adjacent token pairs seen during training.
}

// Stats returns a snapshot of the model's table sizes.
func (m *Model) Stats() ModelStats {
	return ModelStats{
		InitialTokens:     len(m.initials),
		TransitionSources: len(m.transitions),
		TransitionLinks:   m.links,
		PairsExamined:     m.pairs,
	}
}
