package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// loggers map menyimpan instance logger per nama
	loggers   = make(map[string]*logrus.Logger)
	loggersMu sync.Mutex

	// config berisi konfigurasi logging
	config *LogConfig

	// rootDir menyimpan path root project
	rootDir string
)

// Init menginisialisasi sistem logging dengan konfigurasi
func Init(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config = cfg

	// Ambil rootDir
	if err := initRootDir(); err != nil {
		return fmt.Errorf("failed to initialize root directory: %w", err)
	}

	// Buat direktori logs bila belum ada
	logPath := getLogPath()
	if err := os.MkdirAll(logPath, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	return nil
}

// initRootDir menginisialisasi rootDir project
func initRootDir() error {
	if rootDir != "" {
		return nil
	}

	// Langkah 1: Coba ambil dari environment variable LOG_ROOT_DIR (prioritas tertinggi)
	if envRootDir := os.Getenv("LOG_ROOT_DIR"); envRootDir != "" {
		// Resolve symlink di Linux
		resolvedPath, err := filepath.EvalSymlinks(envRootDir)
		if err == nil {
			rootDir = resolvedPath
			return nil
		}
		rootDir = envRootDir
		return nil
	}

	// Langkah 2: Coba ambil dari path executable
	executable, err := os.Executable()
	if err == nil {
		// Resolve symlink di Linux (penting saat dijalankan lewat systemd)
		resolvedExecutable, err := filepath.EvalSymlinks(executable)
		if err == nil {
			executable = resolvedExecutable
		}

		// Ambil path root project (2 tingkat di atas direktori cmd)
		rootDir = filepath.Dir(filepath.Dir(filepath.Dir(executable)))

		// Periksa apakah path valid (ada direktori logs atau config)
		if _, err := os.Stat(filepath.Join(rootDir, "logs")); err == nil {
			return nil
		}
		if _, err := os.Stat(filepath.Join(rootDir, "config")); err == nil {
			return nil
		}
	}

	// Langkah 3: Fallback memakai working directory
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not get executable or working directory: %v", err)
	}

	// Cari direktori project dengan naik dari working directory
	currentDir := wd
	for i := 0; i < 5; i++ { // Maksimal naik 5 tingkat
		if _, err := os.Stat(filepath.Join(currentDir, "logs")); err == nil {
			rootDir = currentDir
			return nil
		}
		if _, err := os.Stat(filepath.Join(currentDir, "config")); err == nil {
			rootDir = currentDir
			return nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break // Sudah sampai root
		}
		currentDir = parentDir
	}

	// Bila tidak ditemukan, pakai working directory (2 tingkat di atas)
	rootDir = filepath.Dir(filepath.Dir(wd))
	return nil
}

// getLogPath mengembalikan path direktori logs
func getLogPath() string {
	if filepath.IsAbs(config.LogPath) {
		return config.LogPath
	}
	return filepath.Join(rootDir, config.LogPath)
}

// GetLogger mengembalikan logger berdasarkan nama (app, audit, error)
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Bila belum init, init dengan konfigurasi default
	if config == nil {
		if err := Init(nil); err != nil {
			panic(fmt.Sprintf("Failed to initialize logger: %v", err))
		}
	}

	// Kembalikan logger yang sudah ada
	if logger, ok := loggers[name]; ok {
		return logger
	}

	// Buat logger baru
	logger := createLogger(name)
	loggers[name] = logger

	return logger
}

// createLogger membuat logger baru dengan konfigurasi
func createLogger(name string) *logrus.Logger {
	logger := logrus.New()

	// Set log level
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Set formatter
	if config.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return funcName, fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	// Set output
	// Penting: file writer dan stdout writer dipisah supaya file I/O lambat
	// tidak memblokir request handling; semua writer lewat async hook
	var writers []io.Writer

	// Output file dengan rotation
	if config.Output == "file" || config.Output == "both" {
		logFile := getLogFilePath(name)
		fileWriter := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    config.MaxSize,    // MB
			MaxBackups: config.MaxBackups, // Jumlah file lama yang disimpan
			MaxAge:     config.MaxAge,     // Jumlah hari
			Compress:   config.Compress,   // Kompresi file lama
		}
		writers = append(writers, fileWriter)
	}

	// Output stdout
	if config.Output == "stdout" || config.Output == "both" {
		writers = append(writers, os.Stdout)
	}

	// Pakai async hook untuk semua writer supaya tidak blocking
	if len(writers) > 0 {
		asyncHook := NewAsyncHookWithWriters(writers, 1000)
		logger.AddHook(asyncHook)
		// Output di-discard supaya log hanya lewat hook (hindari duplikasi)
		logger.SetOutput(io.Discard)
	}

	// Aktifkan caller logging
	logger.SetReportCaller(true)

	// Tambahkan nama service ke setiap log entry
	logger = logger.WithField("service", name).Logger

	logger.WithFields(logrus.Fields{
		"log_file": getLogFilePath(name),
		"level":    logger.GetLevel().String(),
		"format":   config.Format,
		"output":   config.Output,
	}).Info("Logger initialized successfully")

	return logger
}

// getLogFilePath mengembalikan path file log untuk nama logger
func getLogFilePath(name string) string {
	logPath := getLogPath()
	var filename string

	switch name {
	case "app":
		filename = config.AppFile
	case "audit":
		filename = config.AuditFile
	case "error":
		filename = config.ErrorFile
	default:
		filename = fmt.Sprintf("%s.log", name)
	}

	return filepath.Join(logPath, filename)
}

// GetAppLogger mengembalikan logger utama aplikasi
func GetAppLogger() *logrus.Logger {
	return GetLogger("app")
}

// GetAuditLogger mengembalikan logger untuk audit
func GetAuditLogger() *logrus.Logger {
	return GetLogger("audit")
}

// GetErrorLogger mengembalikan logger untuk error
func GetErrorLogger() *logrus.Logger {
	return GetLogger("error")
}
