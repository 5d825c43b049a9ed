package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/cicero78M/Update-User-sub004/internal/delivery"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
	"github.com/cicero78M/Update-User-sub004/internal/worker"
)

// initLogger menginisialisasi sistem logger untuk seluruh aplikasi.
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Gagal inisialisasi logger: %v", err))
	}
	logger.GetAppLogger().Info("Sistem logger terinisialisasi")
}

// startRefreshWorker menjalankan worker rekap engagement di background.
func startRefreshWorker(ctx context.Context) {
	log := logger.GetAppLogger()

	dispatcher, err := delivery.NewDispatcherFromRegistry()
	if err != nil {
		log.WithError(err).Warn("Dispatcher Telegram tidak tersedia, rekap tidak dikirim keluar")
		dispatcher = nil
	}
	if dispatcher == nil {
		log.Info("Telegram tidak dikonfigurasi, worker hanya menyegarkan snapshot")
	}

	interval := time.Duration(global.ServerConfig.AggregateIntervalMinutes) * time.Minute
	refreshWorker, err := worker.NewEngagementRefreshWorker(interval, dispatcher)
	if err != nil {
		log.WithError(err).Error("Gagal membuat Engagement Refresh Worker, lanjut tanpa worker")
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("🔄 [ENGAGEMENT_REFRESH] Goroutine worker panic")
			}
		}()
		refreshWorker.Start(ctx)
	}()

	log.Info("🔄 [ENGAGEMENT_REFRESH] Worker berjalan di background")
}

// main_thread menjalankan Fiber server pada thread utama.
func main_thread() {
	app := InitFiberApp()

	cfg := global.ServerConfig
	address := ":" + cfg.Address
	log := logger.GetAppLogger()

	// Resolve path relatif (cert/key) dari root project
	resolvePath := func(path string) string {
		if filepath.IsAbs(path) {
			return path
		}
		currentDir, err := os.Getwd()
		if err != nil {
			return path
		}
		for {
			envDir := filepath.Join(currentDir, "config", "env")
			if _, err := os.Stat(envDir); err == nil {
				return filepath.Join(currentDir, path)
			}
			parentDir := filepath.Dir(currentDir)
			if parentDir == currentDir {
				return path
			}
			currentDir = parentDir
		}
	}

	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		certPath := resolvePath(cfg.TLSCertFile)
		keyPath := resolvePath(cfg.TLSKeyFile)

		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			log.Fatalf("File certificate TLS tidak ditemukan: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			log.Fatalf("File key TLS tidak ditemukan: %s", keyPath)
		}

		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			log.Fatalf("Gagal memuat certificate TLS: %v", err)
		}

		ln, err := net.Listen("tcp", address)
		if err != nil {
			log.Fatalf("Gagal membuat listener: %v", err)
		}

		tlsConfig := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		tlsListener := tls.NewListener(ln, tlsConfig)

		log.WithFields(map[string]interface{}{
			"address": address,
			"cert":    certPath,
		}).Info("Menjalankan server dengan HTTPS/TLS")

		if err := app.Listener(tlsListener); err != nil {
			log.Fatalf("Error pada Fiber Listener TLS: %v", err)
		}
	} else {
		log.WithFields(map[string]interface{}{
			"address":  address,
			"protocol": "HTTP",
		}).Info("Menjalankan server dengan HTTP")

		if err := app.Listen(address, fiber.ListenConfig{}); err != nil {
			log.Fatalf("Error pada Fiber Listen: %v", err)
		}
	}
}

func main() {
	initLogger()

	InitGlobal()
	InitRegistry()
	InitDefaultData()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startRefreshWorker(ctx)

	main_thread()
}
