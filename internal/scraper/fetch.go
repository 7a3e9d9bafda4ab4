package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	UserAgent = "odense-concerts/1.0 (github.com/pfrederiksen/odense-concerts)"
	Timeout   = 30 * time.Second
)

// Request describes a single HTTP call made by a source
type Request struct {
	Method  string
	URL     string
	Body    []byte
	Headers map[string]string
	// UTF8 skips charset detection for sites that send UTF-8 but label it otherwise.
	UTF8 bool
}

// Get builds a GET request
func Get(rawURL string) Request {
	return Request{Method: http.MethodGet, URL: rawURL}
}

// PostForm builds a form-encoded POST request
func PostForm(rawURL string, values url.Values) Request {
	return Request{
		Method:  http.MethodPost,
		URL:     rawURL,
		Body:    []byte(values.Encode()),
		Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	}
}

// PostJSON builds a POST request with a JSON body
func PostJSON(rawURL string, payload any) (Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("encoding request body: %w", err)
	}
	return Request{
		Method:  http.MethodPost,
		URL:     rawURL,
		Body:    body,
		Headers: map[string]string{"Content-Type": "application/json"},
	}, nil
}

// WithHeaders returns a copy of r with extra headers set
func (r Request) WithHeaders(headers map[string]string) Request {
	merged := make(map[string]string, len(r.Headers)+len(headers))
	for k, v := range r.Headers {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	r.Headers = merged
	return r
}

// Fetcher performs the HTTP requests of all sources
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// NewFetcher creates a Fetcher with default settings
func NewFetcher() *Fetcher {
	return NewFetcherWith(UserAgent, Timeout, 4, 2)
}

// NewFetcherWith creates a Fetcher that allows requestsPerSecond requests on
// average with bursts of up to burst requests.
func NewFetcherWith(userAgent string, timeout time.Duration, requestsPerSecond float64, burst int) *Fetcher {
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// do sends the request and returns the response when the status is 200
func (f *Fetcher) do(ctx context.Context, r Request) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", r.URL, err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d from %s: %s", resp.StatusCode, r.URL, strings.TrimSpace(string(snippet)))
	}

	return resp, nil
}

// Document fetches an HTML page and parses it
func (f *Fetcher) Document(ctx context.Context, r Request) (*goquery.Document, error) {
	resp, err := f.do(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if !r.UTF8 {
		body, err = charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
		if err != nil {
			return nil, fmt.Errorf("detecting charset of %s: %w", r.URL, err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", r.URL, err)
	}
	return doc, nil
}

// JSON fetches a JSON document and decodes it into v
func (f *Fetcher) JSON(ctx context.Context, r Request, v any) error {
	resp, err := f.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing JSON from %s: %w", r.URL, err)
	}
	return nil
}
