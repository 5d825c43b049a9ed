package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration berisi informasi statis yang dibutuhkan untuk menjalankan aplikasi:
// koneksi basis data, kebijakan fetch engagement, dan kanal notifikasi.
type Configuration struct {
	InitMode              bool   `env:"INITMODE" envDefault:"false"`               // Mode inisialisasi (seed data satuan)
	Address               string `env:"ADDRESS" envDefault:"8080"`                 // Port server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URI koneksi basis data
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Nama database utama
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Origins yang diizinkan (dipisah koma, * = semua)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Izinkan pengiriman credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Request maksimal per window (0 = nonaktif)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Durasi window (detik)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Aktif/nonaktif rate limiting

	// Kebijakan fetch engagement (konstanta kebijakan yang dieksplisitkan,
	// bukan angka hardcoded tersembunyi)
	FetchMaxAttempts   int `env:"FETCH_MAX_ATTEMPTS" envDefault:"2"`      // Jumlah percobaan maksimal per halaman fetch
	FetchBackoffBaseMs int `env:"FETCH_BACKOFF_BASE_MS" envDefault:"1000"` // Backoff awal (ms), dikali dua setiap percobaan
	FetchConcurrency   int `env:"FETCH_CONCURRENCY" envDefault:"4"`       // Jumlah worker fetch konten per run

	// Gateway engagement platform (satu base URL, path per platform)
	EngagementAPIBaseURL string `env:"ENGAGEMENT_API_BASE_URL" envDefault:"http://localhost:9000"`

	// Penjadwalan rekap kepatuhan
	AggregateIntervalMinutes int `env:"AGGREGATE_INTERVAL_MINUTES" envDefault:"60"` // Interval worker rekap (menit)

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Aktifkan HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Path file certificate (.crt atau .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Path file private key (.key)

	// Telegram Notification Configuration (opsional, untuk laporan harian)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"` // Bot token pengirim laporan (opsional)
	TelegramChatIDs  string `env:"TELEGRAM_CHAT_IDS"`  // Daftar chat ID dipisah koma, contoh: "-123456789,-987654321" (opsional)
}

// getEnvPath mengembalikan path file env berdasarkan environment
func getEnvPath() string {
	// Default memakai environment development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Cari direktori config
	currentDir, err := os.Getwd()
	if err != nil {
		// Pakai fmt.Printf karena logger mungkin belum di-init di sini
		fmt.Printf("Tidak bisa mengambil direktori saat ini: %v\n", err)
		return ""
	}

	// Cari direktori config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Naik ke direktori induk
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig membaca konfigurasi dari file env yang ditemukan
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Pakai fmt.Printf karena logger mungkin belum di-init di sini
		fmt.Printf("Direktori config/env tidak ditemukan\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		fmt.Printf("Tidak bisa memuat file env di %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Gagal parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
