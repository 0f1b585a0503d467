package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/claimroute/internal/pipeline"
)

// DocumentExtensions are the files picked up from a batch directory
var DocumentExtensions = []string{".pdf", ".html", ".htm", ".txt"}

// Processor routes a single FNOL source
type Processor interface {
	Process(ctx context.Context, source string) (*pipeline.Result, error)
}

// ClaimJob processes one source
type ClaimJob struct {
	Index     int
	Source    string
	Processor Processor
	Limiter   *Limiter // optional, throttles remote hosts
}

// Execute executes the claim job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, KeyForSource(j.Source)); err != nil {
			return &ClaimResult{Index: j.Index, Source: j.Source, Error: err}
		}
	}

	result, err := j.Processor.Process(ctx, j.Source)
	return &ClaimResult{
		Index:  j.Index,
		Source: j.Source,
		Result: result,
		Error:  err,
	}
}

// ClaimResult is the outcome of one claim job
type ClaimResult struct {
	Index  int
	Source string
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the claim result
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor routes many sources concurrently; one failing source
// never aborts the others
type BatchProcessor struct {
	processor   Processor
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessSources processes sources and returns results in input order
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*ClaimResult {
	if len(sources) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, source := range sources {
		pool.Submit(&ClaimJob{
			Index:     i,
			Source:    source,
			Processor: b.processor,
			Limiter:   b.limiter,
		})
	}

	results := pool.Wait()

	claimResults := make([]*ClaimResult, len(sources))
	for _, r := range results {
		cr := r.(*ClaimResult)
		claimResults[cr.Index] = cr
	}
	// jobs dropped by cancellation never produced a result
	for i, cr := range claimResults {
		if cr == nil {
			claimResults[i] = &ClaimResult{Index: i, Source: sources[i], Error: fmt.Errorf("not processed: %w", context.Cause(ctx))}
		}
	}

	return claimResults
}

// CollectSources expands a batch argument: a directory is scanned for
// documents, anything else is read as a list file
func CollectSources(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", arg, err)
	}
	if info.IsDir() {
		return ListDocuments(arg)
	}
	return ReadSourcesFromFile(arg)
}

// ListDocuments returns the FNOL documents directly inside dir, sorted by name
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range DocumentExtensions {
			if ext == want {
				sources = append(sources, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(sources)
	return sources, nil
}

// ReadSourcesFromFile reads paths or URLs from a file (one per line)
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
