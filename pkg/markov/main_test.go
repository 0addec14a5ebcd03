package markov

import (
	"context"
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fishCorpus tokenizes to: one* fish two fish red* fish blue fish (* = initial).
const fishCorpus = "one fish two fish. red fish blue fish. "

// setupModel trains a model from text with the default tokenizer.
// It fails the test if training fails.
func setupModel(t *testing.T, text string) *Model {
	t.Helper()
	m, err := TrainReader(context.Background(), NewDefaultTokenizer(), strings.NewReader(text))
	if err != nil {
		t.Fatalf("setup: TrainReader() failed: %v", err)
	}
	return m
}

// fixedSource replays a fixed sequence of draws. It fails the test when the
// sequence is exhausted.
type fixedSource struct {
	t     *testing.T
	draws []float64
	next  int
}

func newFixedSource(t *testing.T, draws ...float64) *fixedSource {
	return &fixedSource{t: t, draws: draws}
}

func (s *fixedSource) Float64() float64 {
	if s.next >= len(s.draws) {
		s.t.Fatalf("fixedSource exhausted after %d draws", len(s.draws))
	}
	p := s.draws[s.next]
	s.next++
	return p
}

func tok(text string, initial bool) Token {
	return Token{Text: text, Initial: initial}
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
