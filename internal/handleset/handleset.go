// Package handleset memodelkan himpunan username media sosial yang sudah
// dinormalisasi. Normalisasi yang sama dipakai di tiga tempat: merge pengecualian,
// perbandingan saat penyimpanan snapshot, dan pencocokan saat klasifikasi —
// supaya "@Budi_01" dan "budi_01" selalu dihitung satu orang.
package handleset

import (
	"sort"
	"strings"
)

// Normalize menormalisasi satu username: huruf kecil, buang "@" di depan,
// buang spasi di pinggir. String kosong tetap kosong.
func Normalize(handle string) string {
	h := strings.TrimSpace(handle)
	h = strings.TrimPrefix(h, "@")
	return strings.ToLower(h)
}

// Set adalah himpunan username ternormalisasi. Nilai di dalam map selalu
// hasil Normalize; jangan memasukkan key secara langsung.
type Set map[string]struct{}

// New membuat Set dari daftar username mentah. Username kosong diabaikan.
func New(handles ...string) Set {
	s := make(Set, len(handles))
	for _, h := range handles {
		s.Add(h)
	}
	return s
}

// Add menambahkan satu username (dinormalisasi dulu). Username kosong diabaikan.
func (s Set) Add(handle string) {
	n := Normalize(handle)
	if n == "" {
		return
	}
	s[n] = struct{}{}
}

// Contains memeriksa keanggotaan berdasarkan bentuk ternormalisasi.
func (s Set) Contains(handle string) bool {
	_, ok := s[Normalize(handle)]
	return ok
}

// Len mengembalikan jumlah anggota.
func (s Set) Len() int {
	return len(s)
}

// Values mengembalikan anggota sebagai slice terurut (untuk penyimpanan dan
// output yang deterministik).
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Clone menyalin Set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for h := range s {
		out[h] = struct{}{}
	}
	return out
}

// MergeExceptions menggabungkan himpunan username hasil fetch dengan username
// personel pengecualian. Fungsi murni tanpa I/O.
//
// Jaminan:
//   - Hasil selalu superset dari raw.
//   - Setiap username pengecualian yang belum ada (menurut bentuk ternormalisasi)
//     ditambahkan, sehingga personel pengecualian tidak pernah terhitung belum
//     melaksanakan hanya karena keterlambatan data platform.
//   - Tidak ada duplikat; idempoten (merge dua kali = merge sekali).
func MergeExceptions(raw Set, exempt Set) Set {
	out := raw.Clone()
	for h := range exempt {
		out[h] = struct{}{}
	}
	return out
}
