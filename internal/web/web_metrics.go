package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pageRendersTotal counts template renders by page and result (ok, error).
	pageRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagefront_page_renders_total",
		Help: "Total number of page renders by page and result",
	}, []string{"page", "result"})

	// warmupsTotal counts platform warmup requests.
	warmupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagefront_warmup_requests_total",
		Help: "Total number of warmup requests served",
	})
)
