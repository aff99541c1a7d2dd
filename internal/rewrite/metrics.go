package rewrite

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unresolvedReferences tracks references left as-is because no mapping entry
// existed at rewrite time. Best-effort fallback, surfaced for diagnostics.
var unresolvedReferences = promauto.NewCounter(prometheus.CounterOpts{
	Name: "exporter_unresolved_references_total",
	Help: "The total number of asset references with no local mapping at rewrite time.",
})
