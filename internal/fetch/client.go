// Package fetch provides the HTTP GET capability and the disk downloader
// used to materialize mirrored files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Response carries the result of a single GET.
type Response struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsHTML reports whether the response declares an HTML content type.
func (r Response) IsHTML() bool {
	return strings.Contains(r.Headers.Get("Content-Type"), "text/html")
}

// Getter fetches a URL and returns the body plus metadata.
type Getter interface {
	Get(ctx context.Context, rawURL string) (Response, error)
}

// Config controls client behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client implements Getter using the Colly collector.
type Client struct {
	base   *colly.Collector
	logger *zap.Logger
}

// NewClient constructs a configured Colly-based client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	base := colly.NewCollector(colly.UserAgent(cfg.UserAgent))
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          128,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	return &Client{
		base:   base,
		logger: logger,
	}
}

// Get retrieves a URL via a clone of the configured collector. Non-2xx
// statuses are returned as errors alongside the partial response so callers
// can apply the non-fatal skip policy.
func (c *Client) Get(ctx context.Context, rawURL string) (Response, error) {
	collector := c.base.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{resp: toResponse(rawURL, r)})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		res := fetchResult{err: err}
		if r != nil {
			res.resp = toResponse(rawURL, r)
			if r.StatusCode != 0 {
				res.err = fmt.Errorf("unexpected status %d: %w", r.StatusCode, err)
			}
		}
		send(res)
	})

	if err := collector.Visit(rawURL); err != nil {
		return Response{URL: rawURL}, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return res.resp, err
		}
		return res.resp, res.err
	default:
		return Response{URL: rawURL}, errors.New("fetch produced no result")
	}
}

func toResponse(rawURL string, r *colly.Response) Response {
	headers := http.Header{}
	if r.Headers != nil {
		for k, v := range *r.Headers {
			cp := make([]string, len(v))
			copy(cp, v)
			headers[k] = cp
		}
	}
	final := rawURL
	if r.Request != nil && r.Request.URL != nil {
		final = r.Request.URL.String()
	}
	return Response{
		URL:        final,
		StatusCode: r.StatusCode,
		Headers:    headers,
		Body:       append([]byte{}, r.Body...),
	}
}

type fetchResult struct {
	resp Response
	err  error
}
