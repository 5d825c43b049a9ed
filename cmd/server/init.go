package main

import (
	"github.com/cicero78M/Update-User-sub004/config"
	"github.com/cicero78M/Update-User-sub004/internal/database"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// InitGlobal menginisialisasi variabel global aplikasi.
func InitGlobal() {
	initColNames()         // Nama collection dalam database
	initValidator()        // Validator data
	initConfig()           // Konfigurasi server
	initDatabase_MongoDB() // Koneksi database
}

// initColNames menetapkan nama collection domain engagement.
func initColNames() {
	global.MongoDB_ColNames.OrgUnits = "org_units"
	global.MongoDB_ColNames.OrgPersonnel = "org_personnel"
	global.MongoDB_ColNames.ContentItems = "content_items"
	global.MongoDB_ColNames.EngagementSnapshots = "engagement_snapshots"
	global.MongoDB_ColNames.DispatchHistory = "dispatch_history"
}

// initValidator menginisialisasi validator beserta aturan kustomnya.
func initValidator() {
	global.InitValidator()
}

// initConfig membaca konfigurasi server dari file env.
func initConfig() {
	log := logger.GetAppLogger()
	cfg := config.NewConfig()
	if cfg == nil {
		log.Fatal("Gagal membaca konfigurasi server")
	}
	global.ServerConfig = cfg
	log.Info("Konfigurasi server dimuat")
}

// initDatabase_MongoDB membuka koneksi MongoDB dan menyimpannya di global.
func initDatabase_MongoDB() {
	log := logger.GetAppLogger()
	client, err := database.GetInstance(global.ServerConfig)
	if err != nil {
		log.Fatalf("Gagal koneksi MongoDB: %v", err)
	}
	global.MongoDB_Session = client
}
