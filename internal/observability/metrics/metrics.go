package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "suma_ledger_"

	ResultMatched    = "matched"
	ResultSkipped    = "skipped"
	ResultCapped     = "capped"
	ResultIneligible = "ineligible"
	ResultError      = "error"
)

// Recorder holds the ledger's metric vectors. A nil *Recorder records nothing.
type Recorder struct {
	bookTransactions   *prometheus.CounterVec
	settlementOutcomes *prometheus.CounterVec
	triggerMatches     *prometheus.CounterVec
	matchedCents       *prometheus.CounterVec
	strategyLatency    *prometheus.HistogramVec
	webhookReplays     prometheus.Counter
}

// New creates the vectors and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		bookTransactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "book_transactions_total",
				Help: "Total committed book transactions by category",
			},
			[]string{"category"},
		),
		settlementOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_outcomes_total",
				Help: "Total strategy outcomes by transaction kind, strategy and outcome",
			},
			[]string{"kind", "strategy", "outcome"},
		),
		triggerMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "trigger_matches_total",
				Help: "Total trigger evaluations by result",
			},
			[]string{"result"},
		),
		matchedCents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "trigger_matched_cents_total",
				Help: "Total subsidy granted by triggers in minor units",
			},
			[]string{"currency"},
		),
		strategyLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "strategy_latency_seconds",
				Help:    "Strategy execution latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		webhookReplays: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "webhook_replays_total",
				Help: "Total webhook deliveries dropped as replays",
			},
		),
	}
	reg.MustRegister(
		r.bookTransactions,
		r.settlementOutcomes,
		r.triggerMatches,
		r.matchedCents,
		r.strategyLatency,
		r.webhookReplays,
	)
	return r
}

func (r *Recorder) BookTransaction(category string) {
	if r == nil {
		return
	}
	if category == "" {
		category = "uncategorized"
	}
	r.bookTransactions.WithLabelValues(category).Inc()
}

func (r *Recorder) SettlementOutcome(kind, strategy, outcome string) {
	if r == nil {
		return
	}
	r.settlementOutcomes.WithLabelValues(kind, strategy, outcome).Inc()
}

func (r *Recorder) TriggerEvaluated(result string) {
	if r == nil {
		return
	}
	r.triggerMatches.WithLabelValues(result).Inc()
}

func (r *Recorder) SubsidyGranted(currency string, cents int64) {
	if r == nil || cents <= 0 {
		return
	}
	r.matchedCents.WithLabelValues(currency).Add(float64(cents))
}

func (r *Recorder) ObserveStrategy(strategy string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.strategyLatency.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func (r *Recorder) WebhookReplay() {
	if r == nil {
		return
	}
	r.webhookReplays.Inc()
}
