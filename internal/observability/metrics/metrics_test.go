package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.BookTransaction("")
	r.BookTransaction("food")
	r.BookTransaction("food")
	r.SettlementOutcome("funding_transaction", "ach_debit", "pending")
	r.TriggerEvaluated(ResultMatched)
	r.TriggerEvaluated(ResultCapped)
	r.SubsidyGranted("USD", 700)
	r.SubsidyGranted("USD", 0)
	r.ObserveStrategy("card_charge", 20*time.Millisecond)
	r.WebhookReplay()

	assert.Equal(t, float64(1), testutil.ToFloat64(r.bookTransactions.WithLabelValues("uncategorized")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.bookTransactions.WithLabelValues("food")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.settlementOutcomes.WithLabelValues("funding_transaction", "ach_debit", "pending")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.triggerMatches.WithLabelValues(ResultMatched)))
	assert.Equal(t, float64(700), testutil.ToFloat64(r.matchedCents.WithLabelValues("USD")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.webhookReplays))
	assert.Equal(t, 1, testutil.CollectAndCount(r.strategyLatency))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.BookTransaction("x")
		r.SettlementOutcome("a", "b", "c")
		r.TriggerEvaluated(ResultSkipped)
		r.SubsidyGranted("USD", 5)
		r.ObserveStrategy("fake", time.Second)
		r.WebhookReplay()
	})
}
