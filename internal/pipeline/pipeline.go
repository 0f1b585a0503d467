package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/claimroute/internal/extract"
	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/route"
	"github.com/ppiankov/claimroute/internal/validate"
)

// Pipeline orchestrates load → extract → validate → route for one claim
type Pipeline struct {
	loader    *Loader
	extractor *extract.Extractor
	validator *validate.Validator
	router    *route.Router
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewPipeline creates a pipeline; bad rules are reported as *model.ConfigError
func NewPipeline(cfg *model.Config, extractor *extract.Extractor, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	validator, err := validate.NewValidator(cfg.Rules)
	if err != nil {
		return nil, err
	}
	router, err := route.NewRouter(cfg.Rules)
	if err != nil {
		return nil, err
	}
	if extractor == nil {
		extractor = extract.New(extract.Options{Logger: logger})
	}

	return &Pipeline{
		loader:    NewLoader(cfg.HTTP, logger),
		extractor: extractor,
		validator: validator,
		router:    router,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// Result is everything known about one processed claim
type Result struct {
	// Source is the input path or URL; empty for in-memory records
	Source string

	// Mode is how fields were extracted (see extract.Mode*); empty for in-memory records
	Mode string

	Output     model.ClaimOutput
	Validation model.ValidationSummary
	Routing    model.RoutingSummary
	Duration   time.Duration
}

// Process loads, extracts and routes a single FNOL document
func (p *Pipeline) Process(ctx context.Context, source string) (*Result, error) {
	start := time.Now()

	doc, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}

	extraction, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	result := p.ProcessRecord(extraction.Record)
	result.Source = source
	result.Mode = extraction.Mode
	result.Duration = time.Since(start)

	p.logger.Info("claim routed",
		"file", source,
		"route", result.Output.RecommendedRoute.String(),
		"missing", len(result.Output.MissingFields),
		"mode", extraction.Mode,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// ProcessRecord validates and routes an already-built record
func (p *Pipeline) ProcessRecord(record *model.ClaimRecord) *Result {
	if record == nil {
		record = &model.ClaimRecord{}
	}

	validation := p.validator.Summary(record)
	for _, w := range validation.Warnings {
		p.logger.Warn("consistency check", "warning", w)
	}

	routing := p.router.Summary(record, validation.MissingFields)

	return &Result{
		Output: model.ClaimOutput{
			ClaimID:          p.newID(),
			ProcessedAt:      p.now().UTC().Format(time.RFC3339),
			ExtractedFields:  *record,
			MissingFields:    validation.MissingFields,
			RecommendedRoute: routing.RecommendedRoute,
			Reasoning:        routing.Reasoning,
		},
		Validation: validation,
		Routing:    routing,
	}
}
