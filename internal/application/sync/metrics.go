package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de sincronización expuestos en /metrics.
var (
	syncAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lmis_sync_attempts_total",
		Help: "Intentos de sincronización con el servidor remoto.",
	})
	syncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lmis_sync_failures_total",
		Help: "Sincronizaciones fallidas (red, rechazo o respuesta malformada).",
	})
	snapshotsPushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lmis_snapshots_pushed_total",
		Help: "Snapshots aceptados por el servidor remoto y marcados como sincronizados.",
	})
)
