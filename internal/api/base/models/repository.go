// Package models berisi tipe bersama untuk layer repository/base (hasil paginasi, hitungan).
package models

// PaginateResult merepresentasikan hasil paginasi
type PaginateResult[T any] struct {
	// Halaman saat ini
	Page int64 `json:"page" bson:"page"`
	// Jumlah item per halaman
	Limit int64 `json:"limit" bson:"limit"`
	// Jumlah item di halaman saat ini
	ItemCount int64 `json:"itemCount" bson:"itemCount"`
	// Daftar item
	Items []T `json:"items" bson:"items"`
	// Total seluruh item
	Total int64 `json:"total" bson:"total"`
	// Total halaman
	TotalPage int64 `json:"totalPage" bson:"totalPage"`
}

// CountResult merepresentasikan hasil penghitungan
type CountResult struct {
	TotalCount int64 `json:"totalCount" bson:"totalCount"`
	Limit      int64 `json:"limit" bson:"limit"`
	TotalPage  int64 `json:"totalPage" bson:"totalPage"`
}
