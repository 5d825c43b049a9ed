package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementSnapshot adalah himpunan username (sudah ternormalisasi dan sudah
// digabung daftar pengecualian) yang melakukan satu jenis aksi pada satu
// konten, pada satu titik waktu. Paling banyak satu snapshot berlaku per
// (contentId, actionType); fetch baru MENGGANTI snapshot lama seutuhnya,
// karena fetch terakhir selalu otoritatif.
type EngagementSnapshot struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ContentID  string             `json:"contentId" bson:"contentId" validate:"required"`
	ActionType string             `json:"actionType" bson:"actionType" validate:"required,oneof=like comment"`
	Handles    []string           `json:"handles" bson:"handles"`       // Username ternormalisasi, urut
	CapturedAt int64              `json:"capturedAt" bson:"capturedAt"` // Unix milli saat fetch

	// FetchFailed true bila snapshot ini hasil degradasi (retry habis,
	// himpunan kosong dipakai). Dipakai untuk flag degraded pada agregasi.
	FetchFailed bool `json:"fetchFailed,omitempty" bson:"fetchFailed,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
