package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IndexInconsistencies counts index-side steps that failed after the
// chat-side write already committed. The chat list shown to the user may
// be stale until the next successful write; nothing is rolled back.
var IndexInconsistencies = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aichat_index_inconsistency_total",
	Help: "Index updates that failed after the chat write committed.",
}, []string{"op"})

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
