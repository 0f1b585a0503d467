package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/claimroute/internal/extract/adapters"
	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/util"
)

const maxLoadAttempts = 3

// loadSleepFunc is replaced in tests
var loadSleepFunc = time.Sleep

// ErrTooLarge is returned for documents above http.max_bytes
var ErrTooLarge = errors.New("document exceeds size limit")

// StatusError is a non-2xx response from a document URL
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Loader reads FNOL documents from disk or over HTTP
type Loader struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	logger     *slog.Logger
}

// NewLoader creates a loader from the HTTP settings
func NewLoader(cfg model.HTTPConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: util.NewTransport(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		logger:    logger,
	}
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads source, which is a local path or an http(s) URL
func (l *Loader) Load(ctx context.Context, source string) (adapters.Document, error) {
	if IsRemote(source) {
		return l.fetchWithRetry(ctx, source)
	}
	return l.readFile(source)
}

func (l *Loader) readFile(path string) (adapters.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return adapters.Document{}, fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return adapters.Document{}, fmt.Errorf("%s is a directory", path)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return adapters.Document{}, fmt.Errorf("%s: %w (%d > %d bytes)", path, ErrTooLarge, info.Size(), l.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return adapters.Document{}, fmt.Errorf("read: %w", err)
	}
	return adapters.Document{Source: path, Data: data}, nil
}

// fetchWithRetry retries transient failures with exponential backoff
func (l *Loader) fetchWithRetry(ctx context.Context, rawURL string) (adapters.Document, error) {
	var lastErr error
	backoff := time.Second

	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		doc, err := l.fetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if !isRetryableLoadError(err) || attempt == maxLoadAttempts || ctx.Err() != nil {
			break
		}

		l.logger.Warn("document fetch failed, retrying", "file", rawURL, "attempt", attempt, "error", err)
		loadSleepFunc(backoff)
		backoff *= 2
	}

	return adapters.Document{}, lastErr
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (adapters.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		// not wrapped: a malformed URL is never retried
		return adapters.Document{}, fmt.Errorf("create request: %v", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}
	req.Header.Set("Accept", "application/pdf,text/html;q=0.9,text/plain;q=0.8,*/*;q=0.5")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return adapters.Document{}, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return adapters.Document{}, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body := io.Reader(resp.Body)
	if l.maxBytes > 0 {
		body = io.LimitReader(resp.Body, l.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return adapters.Document{}, fmt.Errorf("read body: %w", err)
	}
	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return adapters.Document{}, fmt.Errorf("%s: %w (limit %d bytes)", rawURL, ErrTooLarge, l.maxBytes)
	}

	return adapters.Document{
		Source:      resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// isRetryableLoadError: 5xx, 429 and network failures are transient
func isRetryableLoadError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
