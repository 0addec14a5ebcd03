package markov

import (
	"bufio"
	"io"
)

// DefaultTokenizer is the default implementation of the Tokenizer interface.
// It splits words on spaces and newlines, treats '.' as a sentence boundary,
// keeps ASCII letters and silently drops every other byte.
// Its behavior can be customized with functional options.
type DefaultTokenizer struct {
	separator string
	boundary  byte
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparator Sets the string used for joining tokens during rendering.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) {
		t.separator = sep
	}
}

// WithBoundary sets the byte that ends a sentence.
// Default: '.'
func WithBoundary(b byte) Option {
	return func(t *DefaultTokenizer) {
		t.boundary = b
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator: " ",
		boundary:  '.',
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Separator Returns the configured separator string.
func (t *DefaultTokenizer) Separator() string {
	return t.separator
}

// NewStream Returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	return &DefaultStreamTokenizer{
		reader:   bufio.NewReader(r),
		boundary: t.boundary,
		pending:  true, // start of input opens a sentence
	}
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer
// interface. It reads the stream one byte at a time.
type DefaultStreamTokenizer struct {
	reader   *bufio.Reader
	boundary byte
	word     []byte
	// pending is armed by the start of input and by every boundary byte, and
	// consumed by the first letter of the next word.
	pending bool
	initial bool
}

// Next returns the next token from the stream. It returns a Token and a nil error on
// success. When the stream is exhausted, it returns a nil Token and io.EOF; a
// word still buffered at that point is discarded because it was never closed
// by a delimiter. Any other error indicates a problem reading from the
// underlying stream.
func (s *DefaultStreamTokenizer) Next() (*Token, error) {
	for {
		c, err := s.reader.ReadByte()
		if err != nil {
			return nil, err
		}

		switch {
		case c == ' ' || c == '\n':
			if len(s.word) > 0 {
				token := &Token{Text: string(s.word), Initial: s.initial}
				s.word = s.word[:0]
				return token, nil
			}
		case c == s.boundary:
			s.pending = true
		case isASCIILetter(c):
			if len(s.word) == 0 {
				s.initial = s.pending
				s.pending = false
			}
			s.word = append(s.word, c)
		}
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
