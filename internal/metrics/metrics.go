package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	QuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wallet_quotes_total", Help: "Swap quotes computed"},
		[]string{"result"},
	)
	SwapsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wallet_swaps_total", Help: "Swaps submitted to the router"},
		[]string{"shape", "result"},
	)
	PriceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wallet_price_requests_total", Help: "Price API lookups"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(QuotesTotal, SwapsTotal, PriceRequestsTotal)
}

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
