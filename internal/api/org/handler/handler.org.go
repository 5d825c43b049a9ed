// Package orghdl - Handler satuan, personel, dan resolusi populasi.
package orghdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "github.com/cicero78M/Update-User-sub004/internal/api/base/handler"
	orgdto "github.com/cicero78M/Update-User-sub004/internal/api/org/dto"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	orgsvc "github.com/cicero78M/Update-User-sub004/internal/api/org/service"
	"github.com/cicero78M/Update-User-sub004/internal/common"
)

// OrgUnitHandler menangani CRUD satuan organisasi.
type OrgUnitHandler struct {
	*basehdl.BaseHandler[orgmodels.OrgUnit, orgdto.OrgUnitCreateInput, orgdto.OrgUnitUpdateInput]
	UnitService *orgsvc.OrgUnitService
}

// NewOrgUnitHandler membuat OrgUnitHandler baru.
func NewOrgUnitHandler() (*OrgUnitHandler, error) {
	unitSvc, err := orgsvc.NewOrgUnitService()
	if err != nil {
		return nil, fmt.Errorf("membuat OrgUnitService: %w", err)
	}
	return &OrgUnitHandler{
		BaseHandler: basehdl.NewBaseHandler[orgmodels.OrgUnit, orgdto.OrgUnitCreateInput, orgdto.OrgUnitUpdateInput](unitSvc),
		UnitService: unitSvc,
	}, nil
}

// PersonnelHandler menangani CRUD personel.
type PersonnelHandler struct {
	*basehdl.BaseHandler[orgmodels.Personnel, orgdto.PersonnelCreateInput, orgdto.PersonnelUpdateInput]
	PersonnelService *orgsvc.PersonnelService
}

// NewPersonnelHandler membuat PersonnelHandler baru.
func NewPersonnelHandler() (*PersonnelHandler, error) {
	personnelSvc, err := orgsvc.NewPersonnelService()
	if err != nil {
		return nil, fmt.Errorf("membuat PersonnelService: %w", err)
	}
	return &PersonnelHandler{
		BaseHandler:      basehdl.NewBaseHandler[orgmodels.Personnel, orgdto.PersonnelCreateInput, orgdto.PersonnelUpdateInput](personnelSvc),
		PersonnelService: personnelSvc,
	}, nil
}

// PopulationHandler menangani resolusi populasi pelapor.
type PopulationHandler struct {
	Resolver *orgsvc.PopulationService
}

// NewPopulationHandler membuat PopulationHandler baru.
func NewPopulationHandler() (*PopulationHandler, error) {
	resolver, err := orgsvc.NewPopulationServiceFromRegistry()
	if err != nil {
		return nil, fmt.Errorf("membuat PopulationService: %w", err)
	}
	return &PopulationHandler{Resolver: resolver}, nil
}

// HandleResolve menangani GET /population/resolve?unit=&role=
func (h *PopulationHandler) HandleResolve(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		unitID := c.Query("unit", "")
		roleFlag := c.Query("role", "")
		if unitID == "" && roleFlag == "" {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Parameter unit atau role wajib diisi",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		pop, err := h.Resolver.Resolve(c.Context(), unitID, roleFlag)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, orgdto.PopulationResponse{
			Unit:    pop.Unit,
			Mode:    pop.Mode.String(),
			Members: pop.Members,
		}, nil)
		return nil
	})
}
