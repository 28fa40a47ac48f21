// Package metrics содержит счётчики prometheus. Главное их назначение —
// сделать наблюдаемым тихий авторемонт записи (откат при подделке, снятие
// истёкшего премиума, суточный сброс счётчика): наружу эти события ошибкой
// не поднимаются, но в /metrics они видны.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordRepairs количество авторемонтов записи по видам.
	RecordRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relief_anchor_record_repairs_total",
		Help: "Number of silent entitlement record repairs by kind.",
	}, []string{"kind"})

	// RestoreAccepted количество успешных восстановлений по токену.
	RestoreAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relief_anchor_restore_accepted_total",
		Help: "Number of accepted recovery token redemptions.",
	})

	// RestoreRejected количество отклонённых токенов по причинам.
	RestoreRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relief_anchor_restore_rejected_total",
		Help: "Number of rejected recovery token redemptions by reason.",
	}, []string{"reason"})

	// CrossProfileRestores количество переносов премиума между профилями.
	CrossProfileRestores = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relief_anchor_cross_profile_restores_total",
		Help: "Number of recovery tokens redeemed on a profile other than the minting one.",
	})
)
