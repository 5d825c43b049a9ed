// Package report merender hasil agregasi kepatuhan menjadi teks laporan dan
// objek ringkasan. Murni presentasi: tidak pernah mengubah klasifikasi.
package report

import (
	"fmt"
	"strings"
	"time"

	compliancedto "github.com/cicero78M/Update-User-sub004/internal/api/compliance/dto"
	"github.com/cicero78M/Update-User-sub004/internal/utility"
)

// Payload adalah bentuk mesin laporan: ringkasan distribusi plus baris per
// personel untuk konsumen API.
type Payload struct {
	UnitID        string                           `json:"unitId"`
	Mode          string                           `json:"mode"`
	RequiredCount int                              `json:"requiredCount"`
	GeneratedAt   int64                            `json:"generatedAt"`
	Summary       compliancedto.Summary            `json:"summary"`
	Records       []compliancedto.ComplianceRecord `json:"records"`
	Text          string                           `json:"text"`
}

// Build membuat payload laporan lengkap (teks + ringkasan terstruktur).
func Build(result *compliancedto.AggregateResult, now time.Time) *Payload {
	return &Payload{
		UnitID:        result.UnitID,
		Mode:          result.Mode,
		RequiredCount: result.RequiredCount,
		GeneratedAt:   now.UnixMilli(),
		Summary:       result.Summary,
		Records:       result.Records,
		Text:          Format(result, now),
	}
}

// Format merender laporan teks: header satuan lalu blok per satuan dengan
// jumlah beremoji dan daftar nama. Pada rollup direktorat, pangkat tidak
// ditampilkan supaya laporan lintas satker tetap ringkas.
func Format(result *compliancedto.AggregateResult, now time.Time) string {
	var b strings.Builder

	day := now.In(utility.JakartaLocation())
	fmt.Fprintf(&b, "*Rekap Engagement %s*\n", result.UnitID)
	fmt.Fprintf(&b, "%s\n", day.Format("02-01-2006"))
	fmt.Fprintf(&b, "Konten wajib hari ini: %d\n", result.RequiredCount)

	showRank := result.Mode != "directorate"

	byUnit := groupByUnit(result.Records)
	for _, group := range byUnit {
		b.WriteString("\n")
		fmt.Fprintf(&b, "*%s*\n", group.unitID)

		sudah := filterStatus(group.records, compliancedto.StatusSudah)
		kurang := filterStatus(group.records, compliancedto.StatusKurang)
		belum := filterStatus(group.records, compliancedto.StatusBelum)
		tanpaHandle := filterStatus(group.records, compliancedto.StatusNoHandle)

		fmt.Fprintf(&b, "✅ *Sudah melaksanakan* : *%d user*\n", len(sudah))
		writeNames(&b, sudah, showRank)
		if len(kurang) > 0 {
			fmt.Fprintf(&b, "⚠️ *Kurang melaksanakan* : *%d user*\n", len(kurang))
			writeNames(&b, kurang, showRank)
		}
		fmt.Fprintf(&b, "❌ *Belum melaksanakan* : *%d user*\n", len(belum))
		writeNames(&b, belum, showRank)
		if len(tanpaHandle) > 0 {
			fmt.Fprintf(&b, "⛔ *Belum input handle* : *%d user*\n", len(tanpaHandle))
			writeNames(&b, tanpaHandle, showRank)
		}
	}

	if result.Summary.Degraded {
		fmt.Fprintf(&b, "\n_Data terdegradasi: %d pengambilan engagement gagal._\n", result.Summary.FetchFailures)
	}

	return b.String()
}

type unitGroup struct {
	unitID  string
	records []compliancedto.ComplianceRecord
}

// groupByUnit mempertahankan urutan records (sudah terurut dari aggregator).
func groupByUnit(records []compliancedto.ComplianceRecord) []unitGroup {
	groups := []unitGroup{}
	index := map[string]int{}
	for _, r := range records {
		i, ok := index[r.UnitID]
		if !ok {
			i = len(groups)
			index[r.UnitID] = i
			groups = append(groups, unitGroup{unitID: r.UnitID})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

func filterStatus(records []compliancedto.ComplianceRecord, status compliancedto.Status) []compliancedto.ComplianceRecord {
	out := []compliancedto.ComplianceRecord{}
	for _, r := range records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func writeNames(b *strings.Builder, records []compliancedto.ComplianceRecord, showRank bool) {
	for i, r := range records {
		name := r.Name
		if showRank && r.Rank != "" {
			name = r.Rank + " " + name
		}
		fmt.Fprintf(b, "%d. %s\n", i+1, name)
	}
}
