package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	apirouter "github.com/cicero78M/Update-User-sub004/internal/api/router"
	compliancerouter "github.com/cicero78M/Update-User-sub004/internal/api/compliance/router"
	contentrouter "github.com/cicero78M/Update-User-sub004/internal/api/content/router"
	orgrouter "github.com/cicero78M/Update-User-sub004/internal/api/org/router"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// InitFiberApp menginisialisasi aplikasi Fiber beserta middleware-nya.
func InitFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Engagement Compliance API",
		ServerHeader:  "Engagement Compliance API",
		StrictRouting: true,
		CaseSensitive: true,
		UnescapePath:  true,

		BodyLimit:       10 * 1024 * 1024,
		Concurrency:     256 * 1024,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			errorCode := common.ErrCodeInternalServer.Code

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
				switch code {
				case fiber.StatusBadRequest:
					errorCode = common.ErrCodeValidationInput.Code
				case fiber.StatusNotFound, fiber.StatusConflict:
					errorCode = common.ErrCodeDatabaseQuery.Code
				}
			}

			logger.GetAppLogger().WithFields(map[string]interface{}{
				"code":      code,
				"errorCode": errorCode,
				"message":   message,
				"path":      c.Path(),
				"method":    c.Method(),
			}).Error("Request error")

			return c.Status(code).JSON(fiber.Map{
				"code":    errorCode,
				"message": message,
				"status":  "error",
			})
		},
	})

	// Request ID supaya tiap request bisa ditelusuri di log
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return fmt.Sprintf("%d", time.Now().UnixNano())
		},
	}))

	// CORS harus terdaftar lebih dulu agar preflight terlayani sebelum middleware lain
	corsOrigins := global.ServerConfig.CORS_Origins
	var allowOrigins []string
	if corsOrigins == "*" {
		allowOrigins = []string{"*"}
	} else {
		allowOrigins = strings.Split(corsOrigins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Request-ID",
			"X-Requested-With",
		},
		AllowCredentials: global.ServerConfig.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	// Rate limiting per IP
	if global.ServerConfig.RateLimit_Enabled && global.ServerConfig.RateLimit_Max > 0 {
		rateLimitMax := global.ServerConfig.RateLimit_Max
		rateLimitWindow := time.Duration(global.ServerConfig.RateLimit_Window) * time.Second
		app.Use(limiter.New(limiter.Config{
			Max:        rateLimitMax,
			Expiration: rateLimitWindow,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeValidationInput.Code,
					"message": "Terlalu banyak permintaan, coba lagi nanti",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				// Health check dan preflight tidak dibatasi
				return c.Path() == "/health" || c.Method() == "OPTIONS"
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting aktif: %d request per %d detik", rateLimitMax, global.ServerConfig.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting nonaktif")
	}

	// Recover dari panic handler
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.GetAppLogger().WithFields(map[string]interface{}{
				"panic":  e,
				"path":   c.Path(),
				"method": c.Method(),
			}).Error("Panic recovered")

			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"code":    common.ErrCodeInternalServer.Code,
				"message": "Internal Server Error",
				"status":  "error",
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))

	if err := setupRoutes(app); err != nil {
		logger.GetAppLogger().Fatalf("Gagal mendaftarkan routes: %v", err)
	}

	return app
}

// setupRoutes mendaftarkan route health dan seluruh route domain di bawah /api/v1.
func setupRoutes(app *fiber.App) error {
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r := apirouter.NewRouter(app)
	prefix := apirouter.NewRoutePrefix()
	v1 := app.Group(prefix.V1)

	if err := orgrouter.Register(v1, r); err != nil {
		return fmt.Errorf("route org: %w", err)
	}
	if err := contentrouter.Register(v1, r); err != nil {
		return fmt.Errorf("route content: %w", err)
	}
	if err := compliancerouter.Register(v1, r); err != nil {
		return fmt.Errorf("route compliance: %w", err)
	}

	return nil
}
