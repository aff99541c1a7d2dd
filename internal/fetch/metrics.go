package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// downloadsTotal tracks files successfully written to the mirror.
	downloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exporter_downloads_total",
		Help: "The total number of files downloaded into the mirror.",
	})
	// downloadErrors tracks downloads that were logged and skipped.
	downloadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exporter_download_errors_total",
		Help: "The total number of failed downloads.",
	})
)
