// Package worker - EngagementRefreshWorker menyegarkan snapshot engagement dan
// mengirim rekap kepatuhan secara periodik.
package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	compliancesvc "github.com/cicero78M/Update-User-sub004/internal/api/compliance/service"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	orgsvc "github.com/cicero78M/Update-User-sub004/internal/api/org/service"
	"github.com/cicero78M/Update-User-sub004/internal/delivery"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
	"github.com/cicero78M/Update-User-sub004/internal/report"
)

// EngagementRefreshWorker worker periodik rekap kepatuhan.
//
// Tiap run:
//  1. Refresh snapshot engagement seluruh satuan (fetch platform → merge
//     pengecualian → persist). Kegagalan satu satuan tidak menghentikan
//     satuan lain.
//  2. Agregasi kepatuhan per direktorat dan kirim teks rekap via dispatcher
//     (bila dikonfigurasi).
type EngagementRefreshWorker struct {
	unitService *orgsvc.OrgUnitService
	refresher   *compliancesvc.RefreshService
	aggregator  *compliancesvc.ComplianceService
	dispatcher  *delivery.Dispatcher // nil = tanpa pengiriman keluar
	interval    time.Duration
}

// NewEngagementRefreshWorker membuat worker baru. interval < 1 menit dinaikkan
// menjadi 60 menit.
func NewEngagementRefreshWorker(interval time.Duration, dispatcher *delivery.Dispatcher) (*EngagementRefreshWorker, error) {
	unitService, err := orgsvc.NewOrgUnitService()
	if err != nil {
		return nil, err
	}
	refresher, err := compliancesvc.NewRefreshServiceFromRegistry()
	if err != nil {
		return nil, err
	}
	aggregator, err := compliancesvc.NewComplianceServiceFromRegistry()
	if err != nil {
		return nil, err
	}
	if interval < time.Minute {
		interval = 60 * time.Minute
	}
	return &EngagementRefreshWorker{
		unitService: unitService,
		refresher:   refresher,
		aggregator:  aggregator,
		dispatcher:  dispatcher,
		interval:    interval,
	}, nil
}

// Start menjalankan worker dalam loop sampai ctx dibatalkan.
func (w *EngagementRefreshWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🔄 [ENGAGEMENT_REFRESH] Starting Engagement Refresh Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [ENGAGEMENT_REFRESH] Engagement Refresh Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx, log)
		}
	}
}

// runOnce menjalankan satu siklus refresh + rekap.
func (w *EngagementRefreshWorker) runOnce(ctx context.Context, log *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🔄 [ENGAGEMENT_REFRESH] Panic saat memproses, lanjut ke run berikutnya")
		}
	}()

	units, err := w.unitService.Find(ctx, bson.M{}, nil)
	if err != nil {
		log.WithError(err).Error("🔄 [ENGAGEMENT_REFRESH] Gagal mengambil daftar satuan")
		return
	}

	now := time.Now()
	refreshed := 0
	for _, unit := range units {
		if ctx.Err() != nil {
			return
		}
		result, err := w.refresher.RefreshUnit(ctx, unit.UnitID, "", now)
		if err != nil {
			// Satu satuan gagal (mis. penyimpanan tidak terjangkau) tidak
			// menghentikan satuan lain
			log.WithError(err).WithFields(map[string]interface{}{
				"unitId": unit.UnitID,
			}).Warn("🔄 [ENGAGEMENT_REFRESH] Refresh satuan gagal, lanjut")
			continue
		}
		refreshed++
		if result.FetchFailures > 0 {
			log.WithFields(map[string]interface{}{
				"unitId":        unit.UnitID,
				"fetchFailures": result.FetchFailures,
			}).Warn("🔄 [ENGAGEMENT_REFRESH] Sebagian fetch gagal, snapshot terdegradasi")
		}
	}

	log.WithFields(map[string]interface{}{
		"unitsTotal":     len(units),
		"unitsRefreshed": refreshed,
	}).Info("🔄 [ENGAGEMENT_REFRESH] Refresh snapshot selesai")

	w.dispatchReports(ctx, units, now, log)
}

// dispatchReports mengagregasi tiap direktorat dan mengirim teks rekap.
func (w *EngagementRefreshWorker) dispatchReports(ctx context.Context, units []orgmodels.OrgUnit, now time.Time, log *logrus.Logger) {
	if w.dispatcher == nil {
		return
	}

	for _, unit := range units {
		if unit.UnitType != orgmodels.UnitTypeDirectorate {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		result, err := w.aggregator.Aggregate(ctx, compliancesvc.AggregateParams{
			UnitID:   unit.UnitID,
			RoleFlag: unit.UnitID,
			Now:      now,
		})
		if err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"unitId": unit.UnitID,
			}).Warn("🔄 [ENGAGEMENT_REFRESH] Agregasi direktorat gagal, rekap dilewati")
			continue
		}

		if _, err := w.dispatcher.DispatchReport(ctx, report.Build(result, now)); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"unitId": unit.UnitID,
			}).Warn("🔄 [ENGAGEMENT_REFRESH] Pengiriman rekap gagal")
		}
	}
}
