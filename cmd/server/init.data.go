package main

import (
	"context"
	"time"

	basesvc "github.com/cicero78M/Update-User-sub004/internal/api/base/service"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	orgsvc "github.com/cicero78M/Update-User-sub004/internal/api/org/service"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// seedUnits adalah satuan awal yang dibuat saat INITMODE aktif: direktorat
// pembina beserta contoh satuan wilayah di bawahnya.
var seedUnits = []orgmodels.OrgUnit{
	{UnitID: "DITBINMAS", Name: "Direktorat Binmas", UnitType: orgmodels.UnitTypeDirectorate},
	{UnitID: "DITLANTAS", Name: "Direktorat Lantas", UnitType: orgmodels.UnitTypeDirectorate},
}

// InitDefaultData membuat data satuan awal. Idempoten: satuan yang sudah ada
// tidak ditulis ulang.
func InitDefaultData() {
	log := logger.GetAppLogger()

	if global.ServerConfig == nil || !global.ServerConfig.InitMode {
		log.Info("🔄 [INIT] INITMODE nonaktif, seed data dilewati")
		return
	}

	unitService, err := orgsvc.NewOrgUnitService()
	if err != nil {
		log.Fatalf("Gagal membuat OrgUnitService: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, unit := range seedUnits {
		_, err := unitService.Upsert(ctx,
			map[string]interface{}{"unitId": unit.UnitID},
			basesvc.UpdateData{
				SetOnInsert: map[string]interface{}{
					"unitId":   unit.UnitID,
					"name":     unit.Name,
					"unitType": string(unit.UnitType),
				},
			},
		)
		if err != nil {
			log.WithError(err).Warnf("🔄 [INIT] Gagal seed satuan %s", unit.UnitID)
			continue
		}
		log.Infof("✅ [INIT] Satuan %s tersedia", unit.UnitID)
	}

	log.Info("✅ [INIT] InitDefaultData selesai")
}
