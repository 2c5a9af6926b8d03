package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK     = "ok"
	resultFailed = "failed"
	resultStale  = "stale"
)

var (
	pushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "energyd",
			Subsystem: "sync",
			Name:      "pushes_total",
			Help:      "Activity push attempts by outcome.",
		},
		[]string{"result"},
	)

	pendingRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "energyd",
			Subsystem: "sync",
			Name:      "pending_records",
			Help:      "Unsynced activities seen at the start of the last pass.",
		},
	)
)
