package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"go.opentelemetry.io/otel/attribute"
)

// App holds the dependencies shared by the commands.
type App struct {
	config *Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// newRand returns the draw source for one run. A zero seed picks a fresh
// seed from the runtime generator.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Generate reads the corpus at inputPath, trains a model and writes one
// generated sentence to outputPath, or to stdout when outputPath is empty.
func (a *App) Generate(ctx context.Context, inputPath, outputPath string) (err error) {
	tracer, err := newPhaseTracer(ctx, a.config.Tracing, a.stderr)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := tracer.shutdown(context.Background()); shutdownErr != nil {
			a.logger.Error("Tracer shutdown failed", "error", shutdownErr)
		}
	}()

	ctx, runSpan := tracer.start(ctx, "wordchain.run", attribute.String("input.path", inputPath))
	defer func() { endSpan(runSpan, err) }()

	run := &Run{StartedAt: time.Now(), InputPath: inputPath}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("could not read input file: %w", err)
	}
	run.InputBytes = int64(len(data))
	a.logger.InfoContext(ctx, "Loading corpus",
		slog.String("path", inputPath),
		slog.String("size", humanize.Bytes(uint64(len(data)))),
	)

	tokenizer := markov.NewDefaultTokenizer()

	tokenizeCtx, span := tracer.start(ctx, "wordchain.tokenize")
	tokens, err := markov.Tokenize(tokenizer, bytes.NewReader(data))
	span.SetAttributes(attribute.Int("tokens", len(tokens)))
	endSpan(span, err)
	if err != nil {
		return err
	}
	run.TokenCount = len(tokens)
	a.logger.DebugContext(tokenizeCtx, "Tokenized corpus", slog.Int("tokens", len(tokens)))

	trainCtx, span := tracer.start(ctx, "wordchain.train")
	start := time.Now()
	model, err := markov.Train(trainCtx, tokens, markov.WithLogger(a.logger))
	run.TrainDuration = time.Since(start)
	endSpan(span, err)
	if err != nil {
		return fmt.Errorf("could not train model from %s: %w", inputPath, err)
	}
	stats := model.Stats()
	run.InitialTokens = stats.InitialTokens
	run.TransitionSources = stats.TransitionSources

	generateCtx, span := tracer.start(ctx, "wordchain.generate",
		attribute.Int("length", a.config.Generate.Length),
		attribute.Bool("early_termination", a.config.Generate.EarlyTermination),
	)
	start = time.Now()
	sentence := model.Generate(generateCtx, newRand(a.config.Generate.Seed),
		markov.WithLength(a.config.Generate.Length),
		markov.WithEarlyTermination(a.config.Generate.EarlyTermination),
	)
	run.GenerateDuration = time.Since(start)
	span.SetAttributes(attribute.Int("generated_tokens", len(sentence)))
	endSpan(span, nil)

	run.Output = markov.Join(sentence, tokenizer.Separator())
	a.logger.DebugContext(ctx, "Timing",
		slog.Duration("train", run.TrainDuration),
		slog.Duration("generate", run.GenerateDuration),
	)

	if outputPath != "" {
		if err = atomic.WriteFile(outputPath, strings.NewReader(run.Output+"\n")); err != nil {
			return fmt.Errorf("could not write output file: %w", err)
		}
	} else if _, err = fmt.Fprintln(a.stdout, run.Output); err != nil {
		return err
	}

	if a.config.History.Enabled {
		a.recordRun(ctx, run)
	}
	return nil
}

// recordRun stores run in the history database. Failures are logged and do
// not fail the command, since the sentence was already delivered.
func (a *App) recordRun(ctx context.Context, run *Run) {
	store, err := OpenHistory(a.config.History.DatabasePath, a.logger)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to open history", "error", err)
		return
	}
	defer func() {
		_ = store.Close()
	}()
	if err = store.Record(ctx, run); err != nil {
		a.logger.ErrorContext(ctx, "Failed to record run", "error", err)
	}
}

// ListHistory prints up to limit recent runs.
func (a *App) ListHistory(ctx context.Context, limit int) error {
	store, err := OpenHistory(a.config.History.DatabasePath, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err = fmt.Fprintln(a.stdout, "no runs recorded")
		return err
	}
	for _, run := range runs {
		_, err = fmt.Fprintf(a.stdout, "%s  %s  %s (%s, %s tokens)  train=%s generate=%s\n  %s\n",
			shortID(run.ID),
			humanize.Time(run.StartedAt),
			run.InputPath,
			humanize.Bytes(uint64(run.InputBytes)),
			humanize.Comma(int64(run.TokenCount)),
			run.TrainDuration,
			run.GenerateDuration,
			run.Output,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
