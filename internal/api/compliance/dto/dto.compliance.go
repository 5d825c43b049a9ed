// Package dto - Tipe hasil agregasi kepatuhan engagement.
package dto

// Status kepatuhan seorang personel terhadap kewajiban engagement harian.
type Status string

const (
	// StatusSudah: seluruh kewajiban terpenuhi
	StatusSudah Status = "sudah"
	// StatusKurang: sebagian kewajiban terpenuhi
	StatusKurang Status = "kurang"
	// StatusBelum: belum ada aksi sama sekali
	StatusBelum Status = "belum"
	// StatusNoHandle: tidak bisa dinilai karena handle platform tidak terdaftar
	StatusNoHandle Status = "noHandle"
)

// ComplianceRecord adalah hasil klasifikasi satu personel. Murni hasil
// komputasi: dibangun ulang pada setiap pemanggilan agregasi, tidak pernah
// disimpan atau di-cache lintas run.
type ComplianceRecord struct {
	PersonnelID   string `json:"personnelId"`
	Name          string `json:"name"`
	Rank          string `json:"rank,omitempty"`
	UnitID        string `json:"unitId"`
	Division      string `json:"division,omitempty"`
	Status        Status `json:"status"`
	ActionCount   int    `json:"actionCount"`
	RequiredCount int    `json:"requiredCount"`
}

// Distribution berisi jumlah personel per status di seluruh populasi.
type Distribution struct {
	Sudah    int `json:"sudah"`
	Kurang   int `json:"kurang"`
	Belum    int `json:"belum"`
	NoHandle int `json:"noHandle"`
}

// UnitSubtotal adalah subtotal per satuan yang dipakai blok laporan teks.
type UnitSubtotal struct {
	UnitID   string `json:"unitId"`
	Sudah    int    `json:"sudah"`
	Kurang   int    `json:"kurang"`
	Belum    int    `json:"belum"`
	NoHandle int    `json:"noHandle"`
}

// Summary merangkum hasil agregasi.
type Summary struct {
	Distribution Distribution   `json:"distribution"`
	PerUnit      []UnitSubtotal `json:"perUnit"`

	// Degraded true bila ada konten yang datanya kosong akibat fetch gagal;
	// hasil parsial dilaporkan eksplisit, tidak disajikan diam-diam sebagai
	// data otoritatif.
	Degraded      bool `json:"degraded"`
	FetchFailures int  `json:"fetchFailures"`
}

// AggregateResult adalah keluaran lengkap Compliance Aggregator.
type AggregateResult struct {
	UnitID        string             `json:"unitId"`
	Mode          string             `json:"mode"`
	RequiredCount int                `json:"requiredCount"`
	Records       []ComplianceRecord `json:"records"` // Urut satuan, divisi, nama
	Summary       Summary            `json:"summary"`
}
