package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cicero78M/Update-User-sub004/config"
	"github.com/cicero78M/Update-User-sub004/internal/database"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// InitRegistry mendaftarkan collection ke registry global dan memastikan
// index domain engagement tersedia.
func InitRegistry() {
	log := logger.GetAppLogger()

	if err := InitCollections(global.MongoDB_Session, global.ServerConfig); err != nil {
		log.Fatalf("Gagal inisialisasi collections: %v", err)
	}
	log.Info("Registry collection terinisialisasi")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db := global.MongoDB_Session.Database(global.ServerConfig.MongoDB_DBName)
	if err := database.CreateEngagementIndexes(ctx, db); err != nil {
		log.Fatalf("Gagal membuat index engagement: %v", err)
	}
	log.Info("Index engagement terpasang")
}

// InitCollections mendaftarkan collection MongoDB yang dipakai aplikasi.
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	log := logger.GetAppLogger()
	db := client.Database(cfg.MongoDB_DBName)

	colNames := []string{
		global.MongoDB_ColNames.OrgUnits,
		global.MongoDB_ColNames.OrgPersonnel,
		global.MongoDB_ColNames.ContentItems,
		global.MongoDB_ColNames.EngagementSnapshots,
		global.MongoDB_ColNames.DispatchHistory,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			log.Errorf("Gagal mendaftarkan collection %s: %v", name, err)
			return err
		}
		if registered {
			log.Infof("Collection %s terdaftar", name)
		} else {
			log.Warnf("Collection %s sudah terdaftar sebelumnya", name)
		}
	}

	_, err := global.RegistryDatabase.Register(cfg.MongoDB_DBName, db)
	return err
}
