// Package dto - DTO untuk domain org (satuan, personel, resolusi populasi).
package dto

import (
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
)

// OrgUnitCreateInput data pembuatan satuan baru.
type OrgUnitCreateInput struct {
	UnitID       string `json:"unitId" validate:"required,unit_code"`
	Name         string `json:"name" validate:"required,no_xss"`
	UnitType     string `json:"unitType" validate:"required,oneof=directorate regionalUnit operatorManaged"`
	ParentUnitID string `json:"parentUnitId,omitempty"`
}

// OrgUnitUpdateInput data pembaruan satuan. UnitType sengaja tidak ada di sini:
// tipe satuan tidak boleh berubah setelah dibuat.
type OrgUnitUpdateInput struct {
	Name         string `json:"name,omitempty" validate:"omitempty,no_xss"`
	ParentUnitID string `json:"parentUnitId,omitempty"`
}

// PersonnelCreateInput data registrasi personel baru.
type PersonnelCreateInput struct {
	PersonnelID string            `json:"personnelId" validate:"required"`
	Name        string            `json:"name" validate:"required,no_xss"`
	Rank        string            `json:"rank,omitempty"`
	UnitID      string            `json:"unitId" validate:"required"`
	Division    string            `json:"division,omitempty"`
	Active      bool              `json:"active"`
	Exempt      bool              `json:"exempt"`
	Operator    bool              `json:"operator"`
	Handles     map[string]string `json:"handles,omitempty" validate:"omitempty,dive,sosmed_handle"`
}

// PersonnelUpdateInput data pembaruan personel.
type PersonnelUpdateInput struct {
	Name     string            `json:"name,omitempty" validate:"omitempty,no_xss"`
	Rank     string            `json:"rank,omitempty"`
	Division string            `json:"division,omitempty"`
	Active   *bool             `json:"active,omitempty"`
	Exempt   *bool             `json:"exempt,omitempty"`
	Operator *bool             `json:"operator,omitempty"`
	Handles  map[string]string `json:"handles,omitempty" validate:"omitempty,dive,sosmed_handle"`
}

// PopulationResponse hasil resolusi populasi untuk satu satuan/peran.
type PopulationResponse struct {
	Unit    *orgmodels.OrgUnit    `json:"unit,omitempty"` // nil bila satuan tidak dikenal
	Mode    string                `json:"mode"`           // directorate | operatorManaged | regionalUnit
	Members []orgmodels.Personnel `json:"members"`
}
