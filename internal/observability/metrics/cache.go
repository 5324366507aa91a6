package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics counts catalog read cache lookups.
type CacheMetrics struct {
	requests *prometheus.CounterVec
}

func NewCacheMetrics(reg prometheus.Registerer) (*CacheMetrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mystore",
		Name:      "read_cache_requests_total",
		Help:      "Catalog read cache lookups by query and result.",
	}, []string{"query", "result"})
	if err := register(reg, requests); err != nil {
		return nil, err
	}
	return &CacheMetrics{requests: requests}, nil
}

func (m *CacheMetrics) Hit(query string) {
	if m != nil {
		m.requests.WithLabelValues(query, "hit").Inc()
	}
}

func (m *CacheMetrics) Miss(query string) {
	if m != nil {
		m.requests.WithLabelValues(query, "miss").Inc()
	}
}
