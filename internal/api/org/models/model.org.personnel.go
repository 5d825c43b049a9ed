package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Platform sosial media yang handle-nya terdaftar pada personel.
const (
	PlatformInstagram = "instagram"
	PlatformTiktok    = "tiktok"
)

// Personnel merepresentasikan satu anggota satuan. Data personel dibuat dan
// dinonaktifkan oleh proses registrasi eksternal; engine ini hanya membaca.
type Personnel struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PersonnelID string             `json:"personnelId" bson:"personnelId" validate:"required"` // NRP/identitas anggota
	Name        string             `json:"name" bson:"name" validate:"required,no_xss"`
	Rank        string             `json:"rank,omitempty" bson:"rank,omitempty"` // Pangkat, prefix kosmetik pada laporan satuan
	UnitID      string             `json:"unitId" bson:"unitId" validate:"required"`
	Division    string             `json:"division,omitempty" bson:"division,omitempty"` // Sub-satker bebas-teks
	Active      bool               `json:"active" bson:"active"`
	Exempt      bool               `json:"exempt" bson:"exempt"`     // Pengecualian: selalu dihitung patuh
	Operator    bool               `json:"operator" bson:"operator"` // Operator pelapor satuan

	// Handles memetakan platform → username, mis. {"instagram": "@budi.99"}.
	// Username disimpan apa adanya; normalisasi terjadi saat pencocokan.
	Handles map[string]string `json:"handles,omitempty" bson:"handles,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// HandleFor mengembalikan handle personel untuk satu platform ("" bila tidak ada).
func (p *Personnel) HandleFor(platform string) string {
	if p.Handles == nil {
		return ""
	}
	return p.Handles[platform]
}
