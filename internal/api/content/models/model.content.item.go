package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Jenis aksi engagement yang dipantau per konten.
const (
	ActionLike    = "like"
	ActionComment = "comment"
)

// ContentItem merepresentasikan satu konten harian milik satuan (post
// Instagram atau video TikTok). Konten ditemukan oleh jalur ingest terpisah;
// engine ini meng-query "konten hari ini milik satuan X".
type ContentItem struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ContentID   string             `json:"contentId" bson:"contentId" validate:"required"` // Shortcode post / id video
	UnitID      string             `json:"unitId" bson:"unitId"`
	Platform    string             `json:"platform" bson:"platform" validate:"omitempty,oneof=instagram tiktok"`
	Caption     string             `json:"caption,omitempty" bson:"caption,omitempty"`
	URL         string             `json:"url,omitempty" bson:"url,omitempty"`
	PublishedAt int64              `json:"publishedAt" bson:"publishedAt"` // Unix milli

	// Placeholder true bila baris dibuat otomatis untuk memenuhi relasi induk
	// saat snapshot datang lebih dulu dari penemuan konten.
	Placeholder bool `json:"placeholder,omitempty" bson:"placeholder,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
