// Package fetch retrieves raw page content over HTTP.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/dgallion1/pagesift/internal/apperr"
	"github.com/dgallion1/pagesift/internal/retry"
)

const (
	DefaultTimeout   = 20 * time.Second
	DefaultMaxBytes  = 5 << 20
	DefaultUserAgent = "Mozilla/5.0 (compatible; pagesift/1.0)"
)

// Page is the raw result of fetching one URL.
type Page struct {
	URL         string // Normalized request URL.
	FinalURL    string // URL after redirects.
	StatusCode  int
	ContentType string // Media type without parameters, e.g. "text/html".
	Body        []byte
}

// Fetcher retrieves page content with a per-call timeout and bounded retries.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
	policy    retry.Policy
	log       *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithMaxBytes caps how much of a response body is read.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBytes = n }
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(p retry.Policy) Option {
	return func(f *Fetcher) { f.policy = p }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(log *slog.Logger) Option {
	return func(f *Fetcher) { f.log = log }
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
		policy:    retry.Policy{MaxAttempts: 2, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	if f.maxBytes <= 0 {
		f.maxBytes = DefaultMaxBytes
	}
	return f
}

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)

// NormalizeURL trims raw and prefixes https:// when it carries no scheme.
// Only http and https URLs with a host are accepted.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.Errorf(apperr.KindValidation, "URL is required")
	}
	if !schemeRe.MatchString(raw) {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", apperr.Errorf(apperr.KindValidation, "invalid URL %q", raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", apperr.Errorf(apperr.KindValidation, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", apperr.Errorf(apperr.KindValidation, "invalid URL %q: missing host", raw)
	}
	return u.String(), nil
}

// Fetch normalizes rawURL and retrieves it. Every retrieval problem is
// reported as an apperr.KindFetch error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	p := f.policy
	p.OnRetry = func(attempt int, err error) {
		f.log.Warn("retrying page fetch", "url", target, "attempt", attempt, "error", err)
	}
	page, err := retry.Do(ctx, p, func(ctx context.Context) (*Page, error) {
		return f.fetchOnce(ctx, target)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, err, "could not retrieve "+target)
	}
	return page, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, target string) (*Page, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, eris.Wrap(err, "fetch: read body")
	}

	if blocked, kind := DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("fetch: blocked (%s), status %d", kind, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		err := eris.Errorf("fetch: status %d", resp.StatusCode)
		if retry.RetryableStatus(resp.StatusCode) {
			return nil, retry.Transient(err, resp.StatusCode)
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, eris.New("fetch: empty body")
	}

	return &Page{
		URL:         target,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: mediaType(resp.Header.Get("Content-Type")),
		Body:        body,
	}, nil
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(header, ";")[0]))
	}
	return mt
}
