package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/claimroute/internal/cache"
	"github.com/ppiankov/claimroute/internal/extract/adapters"
	"github.com/ppiankov/claimroute/internal/llm"
	"github.com/ppiankov/claimroute/internal/model"
)

// Extraction modes, recorded on every result
const (
	ModeRegex    = "regex"
	ModeAI       = "ai"
	ModeFallback = "regex-fallback" // LLM configured but the call failed
)

// RateLimiter throttles calls per key (the LLM provider name)
type RateLimiter interface {
	Wait(ctx context.Context, key string) error
}

// Options configures an Extractor
type Options struct {
	Adapters  *adapters.Registry
	Provider  llm.Provider // nil disables the LLM
	Model     string
	MaxTokens int
	Cache     cache.Cache
	Limiter   RateLimiter
	Logger    *slog.Logger
}

// Extractor turns FNOL documents into claim records
type Extractor struct {
	adapters  *adapters.Registry
	provider  llm.Provider
	model     string
	maxTokens int
	cache     cache.Cache
	limiter   RateLimiter
	logger    *slog.Logger
}

// Result is the outcome of extracting one document
type Result struct {
	Text   string
	Fields Fields
	Record *model.ClaimRecord
	Mode   string
	Cached bool
}

// New creates an extractor; zero options get working defaults
func New(opts Options) *Extractor {
	e := &Extractor{
		adapters:  opts.Adapters,
		provider:  opts.Provider,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		cache:     opts.Cache,
		limiter:   opts.Limiter,
		logger:    opts.Logger,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.adapters == nil {
		e.adapters = adapters.NewRegistry("", nil, e.logger)
	}
	if e.cache == nil {
		e.cache = cache.Noop{}
	}
	return e
}

// UsesAI reports whether an LLM provider is configured
func (e *Extractor) UsesAI() bool {
	return e.provider != nil
}

// Extract reads the text layer of doc and extracts its fields
func (e *Extractor) Extract(ctx context.Context, doc adapters.Document) (*Result, error) {
	adapter := e.adapters.FindAdapter(doc.Source, doc.ContentType)
	text, err := adapter.Text(ctx, doc)
	switch {
	case errors.Is(err, adapters.ErrNoTextLayer):
		// an image-only PDF still yields a claim; it routes on missing fields
		e.logger.Warn("document has no text layer", "file", doc.Source, "adapter", adapter.Name())
		text = ""
	case err != nil:
		return nil, fmt.Errorf("read %s as %s: %w", doc.Source, adapter.Name(), err)
	}
	e.logger.Debug("document text", "file", doc.Source, "adapter", adapter.Name(), "chars", len(text))

	return e.ExtractText(ctx, doc.Source, text)
}

// ExtractText extracts fields from text already pulled out of a document.
// Blank text gives an empty record without calling the LLM or the cache.
func (e *Extractor) ExtractText(ctx context.Context, source, text string) (*Result, error) {
	mode := ModeRegex
	llmModel := ""
	if e.provider != nil {
		mode = ModeAI
		llmModel = e.provider.Name() + "/" + e.model
	}

	if strings.TrimSpace(text) == "" {
		e.logger.Warn("document has no text, all fields missing", "file", source)
		return e.result(text, Fields{}, mode, false), nil
	}
	key := cache.Key(mode, llmModel, text)

	if raw, ok := e.cache.Get(key); ok {
		var fields Fields
		if err := json.Unmarshal(raw, &fields); err == nil {
			e.logger.Debug("extraction cache hit", "file", source, "mode", mode)
			return e.result(text, fields, mode, true), nil
		}
		_ = e.cache.Delete(key)
	}

	fields := ExtractRegex(text)
	if e.provider != nil {
		aiFields, err := e.extractAI(ctx, source, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// fallback results are not cached so a later run retries the LLM
			e.logger.Warn("llm extraction failed, using regex", "file", source, "provider", e.provider.Name(), "error", err)
			return e.result(text, fields, ModeFallback, false), nil
		}
		fields = aiFields.Merge(fields)
	}

	if raw, err := json.Marshal(fields); err == nil {
		if err := e.cache.Set(key, raw, 0); err != nil {
			e.logger.Warn("extraction cache write failed", "file", source, "error", err)
		}
	}

	return e.result(text, fields, mode, false), nil
}

func (e *Extractor) extractAI(ctx context.Context, source, text string) (Fields, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, e.provider.Name()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	resp, err := e.provider.ExtractFields(ctx, llm.ExtractRequest{
		Text:      text,
		Model:     e.model,
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("llm extraction",
		"file", source,
		"provider", e.provider.Name(),
		"model", resp.Model,
		"tokens", resp.TokensUsed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return FromLLM(resp.Fields), nil
}

func (e *Extractor) result(text string, fields Fields, mode string, cached bool) *Result {
	return &Result{
		Text:   text,
		Fields: fields,
		Record: BuildRecord(fields),
		Mode:   mode,
		Cached: cached,
	}
}
