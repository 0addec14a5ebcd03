package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// ErrDegenerateModel is returned when the training input contains no
// sentence-initial token with a successor, leaving nothing to normalize.
var ErrDegenerateModel = errors.New("markov: no initial tokens to train on")

// Counts holds the raw frequencies gathered from a token sequence before
// they are normalized into a Model.
type Counts struct {
	Initials     map[Token]int           // initial token -> occurrences as a pair's first element
	InitialTotal int                     // sum of Initials
	Transitions  map[Token]map[Token]int // token -> non-initial successor -> occurrences
	SourceTotals map[Token]int           // token -> sum of its Transitions row
	Pairs        int                     // adjacent pairs examined
}

// CountTokens walks every adjacent pair of tokens and records how often each
// initial token opens a pair and how often each token is followed by a
// non-initial successor. A successor flagged as initial starts a new sentence
// and is never counted as a transition target.
func CountTokens(tokens []Token) *Counts {
	c := &Counts{
		Initials:     make(map[Token]int),
		Transitions:  make(map[Token]map[Token]int),
		SourceTotals: make(map[Token]int),
	}

	for i := 0; i+1 < len(tokens); i++ {
		t, next := tokens[i], tokens[i+1]
		c.Pairs++

		if t.Initial {
			c.Initials[t]++
			c.InitialTotal++
		}

		if !next.Initial {
			row, ok := c.Transitions[t]
			if !ok {
				row = make(map[Token]int)
				c.Transitions[t] = row
			}
			row[next]++
			c.SourceTotals[t]++
		}
	}

	return c
}

// Normalize converts the counts into probability tables. It returns
// ErrDegenerateModel when no initial token was counted.
func (c *Counts) Normalize() (*Model, error) {
	if c.InitialTotal == 0 {
		return nil, ErrDegenerateModel
	}

	m := &Model{
		initials:    normalizeRow(c.Initials, c.InitialTotal),
		transitions: make(map[Token][]Weighted, len(c.Transitions)),
		pairs:       c.Pairs,
		logger:      discardLogger(),
	}
	for from, row := range c.Transitions {
		m.transitions[from] = normalizeRow(row, c.SourceTotals[from])
		m.links += len(row)
	}
	return m, nil
}

// normalizeRow divides each count by total and returns the entries in
// sampling order.
func normalizeRow(row map[Token]int, total int) []Weighted {
	entries := make([]Weighted, 0, len(row))
	for token, count := range row {
		entries = append(entries, Weighted{Token: token, Probability: float64(count) / float64(total)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Token.less(entries[j].Token)
	})
	return entries
}

// Model is a trained first-order Markov chain. It is immutable once built and
// safe for concurrent use.
type Model struct {
	initials    []Weighted
	transitions map[Token][]Weighted
	pairs       int
	links       int
	logger      *slog.Logger
}

// trainOptions Is used by the train functions to configure default options.
type trainOptions struct {
	logger *slog.Logger
}

// TrainOption is a function that configures training. The options are
// carried by the resulting Model.
type TrainOption func(*trainOptions)

// WithLogger sets the logger used during training and by the trained model.
// By default, all logs are discarded.
func WithLogger(logger *slog.Logger) TrainOption {
	return func(o *trainOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Train builds a Model from an ordered token sequence. The sequence is not
// retained. It returns ErrDegenerateModel when the sequence holds no initial
// token that is followed by another token.
func Train(ctx context.Context, tokens []Token, opts ...TrainOption) (*Model, error) {
	options := &trainOptions{logger: discardLogger()}
	for _, opt := range opts {
		opt(options)
	}

	m, err := CountTokens(tokens).Normalize()
	if err != nil {
		options.logger.WarnContext(ctx, "Training produced no model",
			slog.Int("tokens", len(tokens)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	m.logger = options.logger

	stats := m.Stats()
	m.logger.InfoContext(ctx, "Training completed",
		slog.Int("tokens", len(tokens)),
		slog.Int("pairs_examined", stats.PairsExamined),
		slog.Int("initial_tokens", stats.InitialTokens),
		slog.Int("transition_sources", stats.TransitionSources),
		slog.Int("transition_links", stats.TransitionLinks),
	)

	return m, nil
}

// TrainReader tokenizes data with tokenizer and trains a Model from the
// resulting sequence.
func TrainReader(ctx context.Context, tokenizer Tokenizer, data io.Reader, opts ...TrainOption) (*Model, error) {
	tokens, err := Tokenize(tokenizer, data)
	if err != nil {
		return nil, fmt.Errorf("could not tokenize training data: %w", err)
	}
	return Train(ctx, tokens, opts...)
}
