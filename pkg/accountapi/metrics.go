package accountapi

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/accountd/accountd/internal/accountdb/txn"
)

// metrics tracks Prometheus counters for API calls and FileTxn outcomes.
// Every label set is bounded (a fixed set of operation names and account
// file paths), so cardinality never grows with the number of accounts
// served.
type metrics struct {
	calls *prometheus.CounterVec
	txns  *prometheus.CounterVec
}

var txnObserverOnce sync.Once

// newMetrics registers the accountd_ counters against the default
// registerer and wires txn.SetCommitObserver so FileTxn commit/abort
// outcomes are counted process-wide, not just for calls routed through
// this API instance.
func newMetrics() *metrics {
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_api_calls_total",
			Help: "Account API calls by operation and outcome.",
		}, []string{"operation", "status"}),
		txns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_filetxn_total",
			Help: "FileTxn commit/abort outcomes by account file.",
		}, []string{"file", "outcome"}),
	}
	prometheus.MustRegister(m.calls, m.txns)

	txnObserverOnce.Do(func() {
		txn.SetCommitObserver(func(path string, committed bool) {
			outcome := "abort"
			if committed {
				outcome = "commit"
			}
			m.txns.WithLabelValues(path, outcome).Inc()
		})
	})
	return m
}
