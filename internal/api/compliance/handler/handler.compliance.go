// Package compliancehdl - Handler agregasi kepatuhan, laporan, dan refresh engagement.
package compliancehdl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	basehdl "github.com/cicero78M/Update-User-sub004/internal/api/base/handler"
	compliancesvc "github.com/cicero78M/Update-User-sub004/internal/api/compliance/service"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/report"
)

// ComplianceHandler menangani endpoint agregasi dan laporan kepatuhan.
type ComplianceHandler struct {
	Aggregator *compliancesvc.ComplianceService
	Refresher  *compliancesvc.RefreshService
}

// NewComplianceHandler merakit handler dari registry global.
func NewComplianceHandler() (*ComplianceHandler, error) {
	aggregator, err := compliancesvc.NewComplianceServiceFromRegistry()
	if err != nil {
		return nil, fmt.Errorf("membuat ComplianceService: %w", err)
	}
	refresher, err := compliancesvc.NewRefreshServiceFromRegistry()
	if err != nil {
		return nil, fmt.Errorf("membuat RefreshService: %w", err)
	}
	return &ComplianceHandler{Aggregator: aggregator, Refresher: refresher}, nil
}

// parseAggregateParams membaca parameter query yang dipakai aggregate dan report.
func parseAggregateParams(c fiber.Ctx) (compliancesvc.AggregateParams, error) {
	params := compliancesvc.AggregateParams{
		UnitID:     c.Query("unit", ""),
		RoleFlag:   c.Query("role", ""),
		ActionType: c.Query("action", ""),
		Platform:   c.Query("platform", ""),
	}
	if params.UnitID == "" && params.RoleFlag == "" {
		return params, common.NewError(
			common.ErrCodeValidationInput,
			"Parameter unit atau role wajib diisi",
			common.StatusBadRequest,
			nil,
		)
	}
	if raw := c.Query("required", ""); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return params, common.NewError(
				common.ErrCodeValidationInput,
				"Parameter required harus bilangan bulat >= 0",
				common.StatusBadRequest,
				nil,
			)
		}
		params.RequiredOverride = v
	}
	return params, nil
}

// HandleAggregate menangani GET /compliance/aggregate?unit=&role=&action=&platform=&required=
func (h *ComplianceHandler) HandleAggregate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		params, err := parseAggregateParams(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.Aggregator.Aggregate(c.Context(), params)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleReport menangani GET /compliance/report — agregasi plus rendering teks.
func (h *ComplianceHandler) HandleReport(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		params, err := parseAggregateParams(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.Aggregator.Aggregate(c.Context(), params)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, report.Build(result, time.Now()), nil)
		return nil
	})
}

// HandleRefresh menangani POST /compliance/refresh — fetch ulang engagement
// konten hari ini untuk satu satuan lalu menulis snapshotnya.
func (h *ComplianceHandler) HandleRefresh(c fiber.Ctx) error {
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

		result, err := h.Refresher.RefreshUnit(c.Context(), unitID, roleFlag, time.Now())
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}
