// Package metrics exposes session counters and account gauges for
// Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every datatrader metric, separate from the default
// registry so tests and embedding programs stay isolated.
var Registry = prometheus.NewRegistry()

var (
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "datatrader_events_total", Help: "Events dispatched by the session loop"},
		[]string{"kind"},
	)
	FillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "datatrader_fills_total", Help: "Fills applied to the portfolio"},
		[]string{"ticker", "action"},
	)
	OrdersRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "datatrader_orders_rejected_total", Help: "Orders vetoed by the risk manager"},
		[]string{"ticker"},
	)
	Equity = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "datatrader_equity", Help: "Portfolio equity in account currency"},
	)
	Cash = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "datatrader_cash", Help: "Portfolio cash in account currency"},
	)
	OpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "datatrader_open_positions", Help: "Number of open positions"},
	)
)

func init() {
	Registry.MustRegister(EventsTotal, FillsTotal, OrdersRejectedTotal, Equity, Cash, OpenPositions)
}

func ObserveEvent(kind string) {
	EventsTotal.WithLabelValues(kind).Inc()
}

func ObserveFill(ticker, action string) {
	FillsTotal.WithLabelValues(ticker, action).Inc()
}

func ObserveRejected(ticker string) {
	OrdersRejectedTotal.WithLabelValues(ticker).Inc()
}

func SetAccount(cash, equity float64, open int) {
	Cash.Set(cash)
	Equity.Set(equity)
	OpenPositions.Set(float64(open))
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
