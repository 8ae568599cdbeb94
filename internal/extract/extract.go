// Package extract asks a language model to pull query-relevant information
// out of cleaned page text, one fixed-size chunk at a time.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/pagesift/internal/apperr"
	"github.com/dgallion1/pagesift/internal/chunker"
	"github.com/dgallion1/pagesift/internal/retry"
)

// Model selects which backend answers a request.
type Model int

const (
	ModelPrimary Model = iota // Configured hosted provider.
	ModelLocal                // Locally hosted Ollama.
)

// ParseModel maps the request's model field. "ollama" selects the local
// backend; anything else, including empty, selects the primary one.
func ParseModel(s string) Model {
	if strings.EqualFold(strings.TrimSpace(s), "ollama") {
		return ModelLocal
	}
	return ModelPrimary
}

func (m Model) String() string {
	if m == ModelLocal {
		return "local"
	}
	return "primary"
}

// Prompt is a single chat turn sent to a backend.
type Prompt struct {
	System string
	User   string
}

// Backend completes prompts against one language model provider.
type Backend interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Config tunes chunking and answer aggregation.
type Config struct {
	ChunkSize      int
	Separator      string
	Sentinel       string
	NoMatchMessage string
	MaxQueryChars  int
	Retry          retry.Policy
}

const (
	DefaultSentinel       = "No matching information found"
	DefaultNoMatchMessage = "No matching information found. Try being more specific in your query."
)

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		ChunkSize:      chunker.DefaultSize,
		Separator:      "\n",
		Sentinel:       DefaultSentinel,
		NoMatchMessage: DefaultNoMatchMessage,
		MaxQueryChars:  2000,
		Retry:          retry.DefaultPolicy(),
	}
}

// Result is the outcome of one extraction. Answer is never empty.
type Result struct {
	Answer  string `json:"answer"`
	NoMatch bool   `json:"no_match"`
	Chunks  int    `json:"chunks"`
	Matched int    `json:"matched"`
	Backend string `json:"backend"`
}

// Extractor routes chunk prompts to a backend and merges the answers.
type Extractor struct {
	primary Backend
	local   Backend
	cfg     Config
	stats   *Stats
	log     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

func WithStats(s *Stats) Option { return func(e *Extractor) { e.stats = s } }

func WithLogger(l *slog.Logger) Option { return func(e *Extractor) { e.log = l } }

// New creates an Extractor. Either backend may be nil; selecting a missing
// backend fails the request.
func New(primary, local Backend, cfg Config, opts ...Option) *Extractor {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.Sentinel == "" {
		cfg.Sentinel = def.Sentinel
	}
	if cfg.NoMatchMessage == "" {
		cfg.NoMatchMessage = def.NoMatchMessage
	}
	if cfg.MaxQueryChars <= 0 {
		cfg.MaxQueryChars = def.MaxQueryChars
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = def.Retry
	}
	e := &Extractor{primary: primary, local: local, cfg: cfg}
	for _, o := range opts {
		o(e)
	}
	if e.stats == nil {
		e.stats = NewStats(time.Hour)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Stats exposes the per-backend latency tracker.
func (e *Extractor) Stats() *Stats { return e.stats }

func (e *Extractor) backend(m Model) Backend {
	if m == ModelLocal {
		return e.local
	}
	return e.primary
}

// Extract runs the query against every chunk of text in order. Chunks whose
// answer is the no-match sentinel are dropped; the rest are joined with the
// configured separator. When nothing matches, the result carries the
// no-match message.
func (e *Extractor) Extract(ctx context.Context, text, query string, model Model) (*Result, error) {
	query = strings.TrimSpace(query)
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Errorf(apperr.KindValidation, "content is required")
	}
	if query == "" {
		return nil, apperr.Errorf(apperr.KindValidation, "query is required")
	}
	if utf8.RuneCountInString(query) > e.cfg.MaxQueryChars {
		return nil, apperr.Errorf(apperr.KindValidation, "query exceeds %d characters", e.cfg.MaxQueryChars)
	}
	b := e.backend(model)
	if b == nil {
		return nil, apperr.Errorf(apperr.KindExtraction, "%s model is not configured", model)
	}

	chunks := chunker.Split(text, e.cfg.ChunkSize)
	log := e.log.With("backend", b.Name(), "chunks", len(chunks))
	log.Info("extracting", "query_chars", utf8.RuneCountInString(query))

	res := &Result{Chunks: len(chunks), Backend: b.Name()}
	var answers []string
	for i, chunk := range chunks {
		answer, err := e.complete(ctx, b, BuildPrompt(chunk, query, e.cfg.Sentinel), i)
		if err != nil {
			log.Error("chunk extraction failed", "chunk", i, "error", err)
			return nil, apperr.Wrap(apperr.KindExtraction, err, b.Name()+" request failed")
		}
		if IsNoMatch(answer, e.cfg.Sentinel) {
			continue
		}
		answers = append(answers, answer)
	}

	res.Matched = len(answers)
	if len(answers) == 0 {
		res.NoMatch = true
		res.Answer = e.cfg.NoMatchMessage
	} else {
		res.Answer = strings.Join(answers, e.cfg.Separator)
	}
	log.Info("extraction complete", "matched", res.Matched, "no_match", res.NoMatch)
	return res, nil
}

func (e *Extractor) complete(ctx context.Context, b Backend, p Prompt, chunk int) (string, error) {
	policy := e.cfg.Retry
	policy.OnRetry = func(attempt int, err error) {
		e.log.Warn("retryable extraction error", "backend", b.Name(), "chunk", chunk, "attempt", attempt, "error", err)
	}
	return retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		start := time.Now()
		out, err := b.Complete(ctx, p)
		e.stats.Record(b.Name(), time.Since(start))
		if err != nil {
			return "", err
		}
		e.log.Debug("chunk answered", "backend", b.Name(), "chunk", chunk,
			"prompt_tokens", chunker.EstimateTokens(p.System+p.User), "duration_ms", time.Since(start).Milliseconds())
		return cleanAnswer(out), nil
	})
}
