package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnitType adalah tipe satuan organisasi. Tipe tersimpan sebagai data dan
// tidak boleh berubah setelah satuan dibuat; logika resolusi tidak boleh
// menebak tipe dari pola nama.
type UnitType string

const (
	// UnitTypeDirectorate adalah direktorat, pemilik nol atau lebih satuan wilayah
	UnitTypeDirectorate UnitType = "directorate"
	// UnitTypeRegional adalah satuan wilayah di bawah direktorat
	UnitTypeRegional UnitType = "regionalUnit"
	// UnitTypeOperatorManaged adalah satuan yang pelaporannya dipegang operator khusus
	UnitTypeOperatorManaged UnitType = "operatorManaged"
)

// OrgUnit merepresentasikan satu satuan organisasi dalam pohon
// direktorat → satuan wilayah.
type OrgUnit struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UnitID       string             `json:"unitId" bson:"unitId" validate:"required,unit_code"` // Kode satuan, kanonik huruf besar
	Name         string             `json:"name" bson:"name"`
	UnitType     UnitType           `json:"unitType" bson:"unitType" validate:"required,oneof=directorate regionalUnit operatorManaged"`
	ParentUnitID string             `json:"parentUnitId,omitempty" bson:"parentUnitId,omitempty"` // Kosong untuk direktorat

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// CanonicalUnitID mengubah kode satuan ke bentuk kanonik (huruf besar, tanpa
// spasi pinggir). Semua perbandingan kode satuan memakai bentuk ini.
func CanonicalUnitID(unitID string) string {
	return strings.ToUpper(strings.TrimSpace(unitID))
}
