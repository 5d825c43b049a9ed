// Package router mendaftarkan route domain org: satuan, personel, resolusi populasi.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	orghdl "github.com/cicero78M/Update-User-sub004/internal/api/org/handler"
	apirouter "github.com/cicero78M/Update-User-sub004/internal/api/router"
)

// Register mendaftarkan seluruh route org pada v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	unitHandler, err := orghdl.NewOrgUnitHandler()
	if err != nil {
		return fmt.Errorf("membuat OrgUnitHandler: %w", err)
	}
	personnelHandler, err := orghdl.NewPersonnelHandler()
	if err != nil {
		return fmt.Errorf("membuat PersonnelHandler: %w", err)
	}
	populationHandler, err := orghdl.NewPopulationHandler()
	if err != nil {
		return fmt.Errorf("membuat PopulationHandler: %w", err)
	}

	r.RegisterCRUDRoutes(v1, "/org-units", unitHandler, apirouter.ReadWriteConfig)
	r.RegisterCRUDRoutes(v1, "/personnel", personnelHandler, apirouter.ReadWriteConfig)

	// GET /population/resolve?unit=&role= — resolusi populasi pelapor
	apirouter.RegisterRouteWithMiddleware(v1, "/population", "GET", "/resolve", nil, populationHandler.HandleResolve)

	return nil
}
