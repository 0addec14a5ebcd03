package markov

import (
	"context"
	"log/slog"
	"strings"
)

// DefaultLength is the number of transitions sampled after the initial token.
const DefaultLength = 20

// RandSource supplies uniform draws in [0, 1). *math/rand/v2.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// generateOptions holds the settings applied by GenerateOption values.
type generateOptions struct {
	length      int
	canEndEarly bool
}

// GenerateOption is a function that configures generation parameters. It's
// used as a variadic argument to Generate.
type GenerateOption func(*generateOptions)

// WithLength sets how many transitions are sampled after the initial token.
// Negative values are treated as zero.
func WithLength(n int) GenerateOption {
	return func(o *generateOptions) { o.length = max(n, 0) }
}

// WithEarlyTermination specifies whether generation stops at the first draw
// that finds no continuation. When disabled, such draws append NoToken and
// generation keeps going from it.
func WithEarlyTermination(canEnd bool) GenerateOption {
	return func(o *generateOptions) { o.canEndEarly = canEnd }
}

// Generate samples a sentence. It draws once from rng for the initial token
// and once per transition, so a given sequence of draws always produces the
// same output for the same model.
func (m *Model) Generate(ctx context.Context, rng RandSource, opts ...GenerateOption) []Token {
	options := &generateOptions{
		length:      DefaultLength,
		canEndEarly: false,
	}
	for _, opt := range opts {
		opt(options)
	}

	sentence := make([]Token, 0, options.length+1)

	current, ok := m.SampleInitial(rng.Float64())
	if !ok && options.canEndEarly {
		m.logger.DebugContext(ctx, "Generation terminated without an initial token")
		return sentence
	}
	sentence = append(sentence, current)

	for i := 0; i < options.length; i++ {
		current, ok = m.SampleTransition(current, rng.Float64())
		if !ok && options.canEndEarly {
			m.logger.DebugContext(ctx, "Generation terminated due to dead-end",
				slog.String("last_token", sentence[len(sentence)-1].Text),
				slog.Int("generated_length", len(sentence)),
			)
			return sentence
		}
		sentence = append(sentence, current)
	}

	m.logger.DebugContext(ctx, "Generation terminated by reaching length",
		slog.Int("length", options.length),
		slog.Int("generated_length", len(sentence)),
	)
	return sentence
}

// Join renders tokens as text separated by sep. NoToken entries are skipped.
func Join(tokens []Token, sep string) string {
	var builder strings.Builder
	for _, t := range tokens {
		if t.IsZero() {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString(sep)
		}
		builder.WriteString(t.Text)
	}
	return builder.String()
}
