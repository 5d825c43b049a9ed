package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cicero78M/Update-User-sub004/config"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// GetInstance menginisialisasi dan mengembalikan *mongo.Client.
// Fungsi ini memakai URI koneksi dari konfigurasi yang diberikan.
//
// Parameters:
// - c: Pointer ke config.Configuration berisi informasi konfigurasi.
//
// Returns:
// - *mongo.Client: Client MongoDB yang sudah terkoneksi.
func GetInstance(c *config.Configuration) (*mongo.Client, error) {
	if c.MongoDB_ConnectionURI == "" {
		return nil, fmt.Errorf("database connection URL is empty")
	}

	// Pengaturan options client
	clientOptions := options.Client().ApplyURI(c.MongoDB_ConnectionURI).
		SetMaxPoolSize(50).                 // Batas maksimal 50 koneksi
		SetMinPoolSize(10).                 // Minimal 10 koneksi dalam pool
		SetConnectTimeout(5 * time.Second). // Timeout saat konek
		SetSocketTimeout(10 * time.Second)  // Timeout saat kirim terima data

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Buat client
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Periksa koneksi
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelPing()

	err = client.Ping(ctxPing, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.GetAppLogger().Info("Successfully connected to MongoDB")
	return client, nil
}

// CloseInstance menutup koneksi client MongoDB.
func CloseInstance(client *mongo.Client) error {
	if err := client.Disconnect(context.TODO()); err != nil {
		logger.GetAppLogger().WithError(err).Error("Failed to disconnect MongoDB client")
		return err
	}
	logger.GetAppLogger().Info("Successfully disconnected from MongoDB")
	return nil
}
