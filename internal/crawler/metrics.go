package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pagesCrawled tracks the number of HTML pages scanned.
	pagesCrawled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exporter_pages_crawled_total",
		Help: "The total number of HTML pages scanned during discovery.",
	})
	// crawlErrors tracks pages that failed to fetch or parse.
	crawlErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exporter_crawl_errors_total",
		Help: "The total number of pages skipped due to fetch or parse errors.",
	})
)
