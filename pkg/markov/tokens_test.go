package markov

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Sentences with trailing word dropped",
			input: "The cat sat. The dog ran.",
			expected: []Token{
				tok("The", true), tok("cat", false), tok("sat", false),
				tok("The", true), tok("dog", false),
			},
		},
		{
			name:     "Newline delimits words",
			input:    "one\ntwo\n",
			expected: []Token{tok("one", true), tok("two", false)},
		},
		{
			name:     "Repeated delimiters emit nothing",
			input:    "  a   b \n\n",
			expected: []Token{tok("a", true), tok("b", false)},
		},
		{
			name:     "Non-letters are dropped",
			input:    "Hello, w0rld!\tfoo\r\nbar ",
			expected: []Token{tok("Hello", true), tok("wrldfoo", false), tok("bar", false)},
		},
		{
			name:     "Non-ASCII bytes are dropped",
			input:    "Café noir ",
			expected: []Token{tok("Caf", true), tok("noir", false)},
		},
		{
			name:     "Period inside a word does not split it",
			input:    "end.Start here ",
			expected: []Token{tok("endStart", true), tok("here", true)},
		},
		{
			name:     "Several periods arm a single initial",
			input:    "a... b c ",
			expected: []Token{tok("a", true), tok("b", true), tok("c", false)},
		},
		{
			name:     "Punctuation-only word",
			input:    "!!! a ",
			expected: []Token{tok("a", true)},
		},
		{
			name:     "Empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "Single unterminated word",
			input:    "alone",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Tokenize(NewDefaultTokenizer(), strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Tokenize() failed: %v", err)
			}
			if !reflect.DeepEqual(tokens, tc.expected) {
				t.Errorf("Tokenize(%q) = %+v, want %+v", tc.input, tokens, tc.expected)
			}
		})
	}
}

func TestTokenizeWithBoundary(t *testing.T) {
	tokens, err := Tokenize(NewDefaultTokenizer(WithBoundary('!')), strings.NewReader("go! now. then "))
	if err != nil {
		t.Fatalf("Tokenize() failed: %v", err)
	}
	expected := []Token{tok("go", true), tok("now", true), tok("then", false)}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("got %+v, want %+v", tokens, expected)
	}
}

func TestTokenizeReadError(t *testing.T) {
	errBoom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("a b "), iotest.ErrReader(errBoom))

	tokens, err := Tokenize(NewDefaultTokenizer(), r)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
	if tokens != nil {
		t.Errorf("expected no tokens on error, got %+v", tokens)
	}
}

func TestStreamNext(t *testing.T) {
	stream := NewDefaultTokenizer().NewStream(strings.NewReader("Hi there "))

	first, err := stream.Next()
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	if *first != tok("Hi", true) {
		t.Errorf("first token = %+v", *first)
	}

	second, err := stream.Next()
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	if *second != tok("there", false) {
		t.Errorf("second token = %+v", *second)
	}

	if _, err = stream.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestTokenIdentity(t *testing.T) {
	if tok("The", true) == tok("The", false) {
		t.Error("tokens differing only in the initial flag must not be equal")
	}
	if !NoToken.IsZero() || tok("a", false).IsZero() {
		t.Error("IsZero reports the wrong sentinel")
	}
	if !tok("a", false).less(tok("a", true)) {
		t.Error("non-initial should sort before initial for equal text")
	}
	if !tok("B", true).less(tok("a", false)) {
		t.Error("text should be compared before the initial flag")
	}
}

func TestSeparator(t *testing.T) {
	if sep := NewDefaultTokenizer().Separator(); sep != " " {
		t.Errorf("default separator = %q", sep)
	}
	if sep := NewDefaultTokenizer(WithSeparator("_")).Separator(); sep != "_" {
		t.Errorf("custom separator = %q", sep)
	}
}
