package markov

import (
	"errors"
	"fmt"
	"io"
)

// Token represents a single word occurrence. Initial reports whether the word
// opened a sentence (it followed the start of input or a period). Two tokens
// are equal only when both fields match, so a Token can be used directly as a
// map key.
type Token struct {
	Text    string
	Initial bool
}

// NoToken is the zero Token. Sampling functions return it alongside false
// when no entry carries the requested probability mass.
var NoToken = Token{}

// IsZero reports whether t is the NoToken sentinel.
func (t Token) IsZero() bool {
	return t == NoToken
}

// less orders tokens by text, then by the initial flag (false first).
func (t Token) less(o Token) bool {
	if t.Text != o.Text {
		return t.Text < o.Text
	}
	return !t.Initial && o.Initial
}

// Tokenizer is an interface that defines the contract for splitting input text
// into tokens. This allows the model logic to be independent of the specific
// tokenization strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Separator returns the string used to join tokens when rendering a
	// generated sequence.
	Separator() string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one token at a time.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (*Token, error)
}

// Tokenize drains a stream created by tokenizer over r and returns every
// token in input order.
func Tokenize(tokenizer Tokenizer, r io.Reader) ([]Token, error) {
	stream := tokenizer.NewStream(r)
	var tokens []Token
	for {
		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return tokens, nil
			}
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		tokens = append(tokens, *token)
	}
}
