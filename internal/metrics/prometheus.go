package metrics

import (
	"net/http"
	"sync"

	"code.assetex.io/assetex/internal/config/encoding"
	"code.assetex.io/assetex/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namedLogger is the identifier for package and should ideally match
// the package name; it is emitted as a hierarchical label.
const namedLogger = "metrics"

type Config struct {
	Level   encoding.LogLevel
	Enabled bool
	Address string
	Path    string
}

// NewDefaultConfig creates an instance of the package-specific
// configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Enabled: false,
		Address: "localhost:2112",
		Path:    "/metrics",
	}
}

var (
	setupOnce sync.Once

	// Call counters for each operation, labelled by outcome
	opCallCounter *prometheus.CounterVec
	matchCounter  prometheus.Counter
	settleCounter prometheus.Counter
)

func setupMetrics() {
	opCallCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assetex",
			Subsystem: "execution",
			Name:      "op_calls_total",
			Help:      "Number of operation calls by entry point and outcome",
		},
		[]string{"op", "outcome"},
	)
	matchCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "assetex",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Number of matched contract pairs",
		},
	)
	settleCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "assetex",
			Subsystem: "settlement",
			Name:      "settlements_total",
			Help:      "Number of completed settlements",
		},
	)
	prometheus.MustRegister(opCallCounter, matchCounter, settleCounter)
}

// Start registers the instruments and serves the metrics endpoint when
// enabled. Metrics never feed back into engine state, they exist purely
// for operators.
func Start(log *logging.Logger, cfg Config) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	setupOnce.Do(setupMetrics)
	if !cfg.Enabled {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle(cfg.Path, promhttp.Handler())
		if err := http.ListenAndServe(cfg.Address, mux); err != nil {
			log.Error("metrics endpoint stopped", logging.Error(err))
		}
	}()
	log.Info("serving metrics",
		logging.String("address", cfg.Address),
		logging.String("path", cfg.Path),
	)
}

// OpCallCounterInc increments the call counter for an entry point.
func OpCallCounterInc(op, outcome string) {
	if opCallCounter == nil {
		return
	}
	opCallCounter.WithLabelValues(op, outcome).Inc()
}

// MatchCounterInc increments the matched-pair counter.
func MatchCounterInc() {
	if matchCounter == nil {
		return
	}
	matchCounter.Inc()
}

// SettlementCounterInc increments the completed-settlement counter.
func SettlementCounterInc() {
	if settleCounter == nil {
		return
	}
	settleCounter.Inc()
}
