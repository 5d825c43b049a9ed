// Package dto - DTO untuk domain content (konten harian, snapshot engagement).
package dto

// ContentItemCreateInput data upsert konten.
type ContentItemCreateInput struct {
	ContentID   string `json:"contentId" validate:"required"`
	UnitID      string `json:"unitId" validate:"required"`
	Platform    string `json:"platform" validate:"omitempty,oneof=instagram tiktok"`
	Caption     string `json:"caption,omitempty" validate:"omitempty,no_xss"`
	URL         string `json:"url,omitempty"`
	PublishedAt int64  `json:"publishedAt" validate:"required"`
}

// ContentItemUpdateInput data pembaruan konten. ContentID tidak bisa diganti.
type ContentItemUpdateInput struct {
	Caption     string `json:"caption,omitempty" validate:"omitempty,no_xss"`
	URL         string `json:"url,omitempty"`
	PublishedAt int64  `json:"publishedAt,omitempty"`
}

// SnapshotUpsertInput data penulisan snapshot engagement. Handles boleh mentah
// (dengan "@", huruf campur); normalisasi dan merge pengecualian terjadi di service.
type SnapshotUpsertInput struct {
	ContentID  string   `json:"contentId" validate:"required"`
	ActionType string   `json:"actionType" validate:"required,oneof=like comment"`
	Handles    []string `json:"handles" validate:"omitempty,dive,sosmed_handle"`
	CapturedAt int64    `json:"capturedAt,omitempty"` // Unix milli, default waktu server
}
