// Package router mendaftarkan route domain kepatuhan.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	compliancehdl "github.com/cicero78M/Update-User-sub004/internal/api/compliance/handler"
	apirouter "github.com/cicero78M/Update-User-sub004/internal/api/router"
)

// Register mendaftarkan seluruh route kepatuhan pada v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	handler, err := compliancehdl.NewComplianceHandler()
	if err != nil {
		return fmt.Errorf("membuat ComplianceHandler: %w", err)
	}

	// GET /compliance/aggregate — klasifikasi kepatuhan terstruktur
	apirouter.RegisterRouteWithMiddleware(v1, "/compliance", "GET", "/aggregate", nil, handler.HandleAggregate)
	// GET /compliance/report — agregasi plus teks laporan siap kirim
	apirouter.RegisterRouteWithMiddleware(v1, "/compliance", "GET", "/report", nil, handler.HandleReport)
	// POST /compliance/refresh — fetch ulang engagement konten hari ini
	apirouter.RegisterRouteWithMiddleware(v1, "/compliance", "POST", "/refresh", nil, handler.HandleRefresh)

	return nil
}
