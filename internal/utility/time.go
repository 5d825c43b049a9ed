package utility

import "time"

// jakartaLocation adalah zona waktu operasional (WIB). Semua jendela harian
// dihitung terhadap zona ini, bukan zona server.
var jakartaLocation *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		// Fallback offset tetap bila tzdata tidak tersedia di container
		loc = time.FixedZone("WIB", 7*3600)
	}
	jakartaLocation = loc
}

// JakartaLocation mengembalikan zona waktu WIB.
func JakartaLocation() *time.Location {
	return jakartaLocation
}

// DayWindow mengembalikan batas awal (inklusif) dan akhir (eksklusif) dari hari
// kalender yang memuat t, dalam zona WIB. Dipakai untuk memfilter konten
// "hari ini" saat agregasi.
func DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(jakartaLocation)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, jakartaLocation)
	return start, start.Add(24 * time.Hour)
}
