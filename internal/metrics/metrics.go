// Package metrics exposes Prometheus counters for the reservation engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Reservation outcomes.
const (
	OutcomeReserved = "reserved"
	OutcomeReleased = "released"
	OutcomePurged   = "purged"
	OutcomeConflict = "conflict"
)

// Item creation kinds.
const (
	KindOwner      = "owner"
	KindSuggestion = "suggestion"
)

// Link check results.
const (
	LinkCheckOK      = "ok"
	LinkCheckDead    = "dead"
	LinkCheckSkipped = "skipped"
)

var (
	reservations *prometheus.CounterVec
	itemsCreated *prometheus.CounterVec
	txRetries    prometheus.Counter
	linkChecks   *prometheus.CounterVec

	initOnce sync.Once
)

// Init registers the engine collectors. Must be called once at startup;
// record helpers are no-ops until then.
func Init() {
	initOnce.Do(func() {
		reservations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftlist_reservations_total",
			Help: "Reservation operations by outcome",
		}, []string{"outcome"})
		itemsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftlist_items_created_total",
			Help: "Wishlist items created by kind",
		}, []string{"kind"})
		txRetries = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "giftlist_transaction_retries_total",
			Help: "Transactions retried after an abort by a concurrent write",
		})
		linkChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftlist_link_checks_total",
			Help: "Background item link checks by result",
		}, []string{"result"})
		prometheus.MustRegister(reservations, itemsCreated, txRetries, linkChecks)
	})
}

// RecordReservation counts a reservation operation outcome.
func RecordReservation(outcome string) {
	if reservations == nil {
		return
	}
	reservations.WithLabelValues(outcome).Inc()
}

// RecordItemCreated counts an item creation by kind.
func RecordItemCreated(kind string) {
	if itemsCreated == nil {
		return
	}
	itemsCreated.WithLabelValues(kind).Inc()
}

// RecordTxRetry counts one retry of an aborted transaction.
func RecordTxRetry() {
	if txRetries == nil {
		return
	}
	txRetries.Inc()
}

// RecordLinkCheck counts one background link check by result.
func RecordLinkCheck(result string) {
	if linkChecks == nil {
		return
	}
	linkChecks.WithLabelValues(result).Inc()
}
