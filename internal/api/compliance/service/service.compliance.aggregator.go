// Package compliancesvc - Compliance Aggregator: mengubah populasi pelapor,
// konten hari ini, dan snapshot engagement menjadi klasifikasi kepatuhan
// per personel beserta ringkasannya.
package compliancesvc

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	compliancedto "github.com/cicero78M/Update-User-sub004/internal/api/compliance/dto"
	contentmodels "github.com/cicero78M/Update-User-sub004/internal/api/content/models"
	contentsvc "github.com/cicero78M/Update-User-sub004/internal/api/content/service"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	orgsvc "github.com/cicero78M/Update-User-sub004/internal/api/org/service"
	"github.com/cicero78M/Update-User-sub004/internal/handleset"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// populationResolver dan contentSource adalah kolaborator sempit aggregator;
// test memakai fake untuk keduanya.
type populationResolver interface {
	Resolve(ctx context.Context, unitID string, roleFlag string) (*orgsvc.Population, error)
}

type contentSource interface {
	FindTodayContent(ctx context.Context, unitID string, now time.Time) ([]contentmodels.ContentItem, error)
	SnapshotSet(ctx context.Context, contentID string, actionType string) (handleset.Set, bool, error)
}

// AggregateParams adalah parameter satu run agregasi.
type AggregateParams struct {
	UnitID     string
	RoleFlag   string
	ActionType string // like | comment, default comment
	Platform   string // instagram | tiktok, default instagram
	// RequiredOverride > 0 mengganti kewajiban default (satu aksi per konten)
	RequiredOverride int
	// Now menentukan jendela "hari ini"; zero value = waktu server
	Now time.Time
}

func (p *AggregateParams) fillDefaults() {
	if p.ActionType == "" {
		p.ActionType = contentmodels.ActionComment
	}
	if p.Platform == "" {
		p.Platform = orgmodels.PlatformInstagram
	}
	if p.Now.IsZero() {
		p.Now = time.Now()
	}
}

// ComplianceService menjalankan algoritma agregasi kepatuhan.
type ComplianceService struct {
	resolver populationResolver
	contents contentSource
	log      *logrus.Logger
}

// NewComplianceService membuat aggregator dari kolaboratornya. log boleh nil.
func NewComplianceService(resolver populationResolver, contents contentSource, log *logrus.Logger) *ComplianceService {
	if log == nil {
		log = logger.GetAppLogger()
	}
	return &ComplianceService{resolver: resolver, contents: contents, log: log}
}

// NewComplianceServiceFromRegistry merakit aggregator dari registry global.
func NewComplianceServiceFromRegistry() (*ComplianceService, error) {
	resolver, err := orgsvc.NewPopulationServiceFromRegistry()
	if err != nil {
		return nil, fmt.Errorf("membuat PopulationService: %w", err)
	}
	contents, err := contentsvc.NewContentServiceFromRegistry()
	if err != nil {
		return nil, fmt.Errorf("membuat ContentService: %w", err)
	}
	return NewComplianceService(resolver, contents, nil), nil
}

// Aggregate menjalankan satu run agregasi: resolusi populasi → konten hari
// ini → pencocokan snapshot → klasifikasi → pengelompokan dan ringkasan.
// Satuan tanpa anggota menghasilkan daftar kosong dan ringkasan nol, bukan error.
func (s *ComplianceService) Aggregate(ctx context.Context, params AggregateParams) (*compliancedto.AggregateResult, error) {
	params.fillDefaults()

	pop, err := s.resolver.Resolve(ctx, params.UnitID, params.RoleFlag)
	if err != nil {
		return nil, err
	}

	scopeUnitID := orgmodels.CanonicalUnitID(params.UnitID)
	if pop.Unit != nil {
		scopeUnitID = orgmodels.CanonicalUnitID(pop.Unit.UnitID)
	}

	contents, err := s.contents.FindTodayContent(ctx, scopeUnitID, params.Now)
	if err != nil {
		return nil, err
	}

	requiredCount := len(contents)
	if params.RequiredOverride > 0 {
		requiredCount = params.RequiredOverride
	}

	// Gabungan aksi per konten; kegagalan fetch terhitung sebagai himpunan
	// kosong plus penanda degradasi
	actionSets := make([]handleset.Set, 0, len(contents))
	fetchFailures := 0
	for _, item := range contents {
		set, failed, err := s.contents.SnapshotSet(ctx, item.ContentID, params.ActionType)
		if err != nil {
			return nil, err
		}
		if failed {
			fetchFailures++
		}
		actionSets = append(actionSets, set)
	}

	records := make([]compliancedto.ComplianceRecord, 0, len(pop.Members))
	for _, member := range pop.Members {
		records = append(records, s.classify(&member, actionSets, requiredCount, params.Platform))
	}
	sortRecords(records)

	result := &compliancedto.AggregateResult{
		UnitID:        scopeUnitID,
		Mode:          pop.Mode.String(),
		RequiredCount: requiredCount,
		Records:       records,
		Summary:       summarize(records, fetchFailures),
	}

	s.log.WithFields(logrus.Fields{
		"component":     "compliance",
		"unitId":        scopeUnitID,
		"mode":          result.Mode,
		"members":       len(records),
		"requiredCount": requiredCount,
		"degraded":      result.Summary.Degraded,
	}).Info("📊 [COMPLIANCE] Agregasi selesai")

	return result, nil
}

// classify menentukan status satu personel.
// Urutan aturan: exempt menang atas segalanya (termasuk noHandle); tanpa
// handle → noHandle; requiredCount 0 → sudah secara vakum; selebihnya
// perbandingan jumlah aksi terhadap kewajiban.
func (s *ComplianceService) classify(member *orgmodels.Personnel, actionSets []handleset.Set, requiredCount int, platform string) compliancedto.ComplianceRecord {
	record := compliancedto.ComplianceRecord{
		PersonnelID:   member.PersonnelID,
		Name:          member.Name,
		Rank:          member.Rank,
		UnitID:        orgmodels.CanonicalUnitID(member.UnitID),
		Division:      member.Division,
		RequiredCount: requiredCount,
	}

	handle := handleset.Normalize(member.HandleFor(platform))

	if handle != "" {
		for _, set := range actionSets {
			if set.Contains(handle) {
				record.ActionCount++
			}
		}
	}

	switch {
	case member.Exempt:
		record.Status = compliancedto.StatusSudah
	case handle == "":
		record.Status = compliancedto.StatusNoHandle
	case requiredCount == 0:
		record.Status = compliancedto.StatusSudah
	case record.ActionCount >= requiredCount:
		record.Status = compliancedto.StatusSudah
	case record.ActionCount == 0:
		record.Status = compliancedto.StatusBelum
	default:
		record.Status = compliancedto.StatusKurang
	}
	return record
}

// sortRecords mengurutkan satuan alfabetis, divisi alfabetis dalam satuan,
// lalu nama — supaya laporan stabil dan reprodusibel.
func sortRecords(records []compliancedto.ComplianceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].UnitID != records[j].UnitID {
			return records[i].UnitID < records[j].UnitID
		}
		if records[i].Division != records[j].Division {
			return records[i].Division < records[j].Division
		}
		return records[i].Name < records[j].Name
	})
}

// summarize menghitung distribusi status dan subtotal per satuan.
func summarize(records []compliancedto.ComplianceRecord, fetchFailures int) compliancedto.Summary {
	summary := compliancedto.Summary{
		FetchFailures: fetchFailures,
		Degraded:      fetchFailures > 0,
		PerUnit:       []compliancedto.UnitSubtotal{},
	}

	subtotals := map[string]*compliancedto.UnitSubtotal{}
	order := []string{}
	for _, r := range records {
		sub, ok := subtotals[r.UnitID]
		if !ok {
			sub = &compliancedto.UnitSubtotal{UnitID: r.UnitID}
			subtotals[r.UnitID] = sub
			order = append(order, r.UnitID)
		}
		switch r.Status {
		case compliancedto.StatusSudah:
			summary.Distribution.Sudah++
			sub.Sudah++
		case compliancedto.StatusKurang:
			summary.Distribution.Kurang++
			sub.Kurang++
		case compliancedto.StatusBelum:
			summary.Distribution.Belum++
			sub.Belum++
		case compliancedto.StatusNoHandle:
			summary.Distribution.NoHandle++
			sub.NoHandle++
		}
	}

	// records sudah urut satuan, jadi order ikut alfabetis
	for _, unitID := range order {
		summary.PerUnit = append(summary.PerUnit, *subtotals[unitID])
	}
	return summary
}
