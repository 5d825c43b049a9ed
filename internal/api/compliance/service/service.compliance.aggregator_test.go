package compliancesvc

import (
	"context"
	"testing"
	"time"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	compliancedto "github.com/cicero78M/Update-User-sub004/internal/api/compliance/dto"
	contentmodels "github.com/cicero78M/Update-User-sub004/internal/api/content/models"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	orgsvc "github.com/cicero78M/Update-User-sub004/internal/api/org/service"
	"github.com/cicero78M/Update-User-sub004/internal/handleset"
)

// fakeResolver mengembalikan populasi yang sudah disiapkan test.
type fakeResolver struct {
	population *orgsvc.Population
}

func (f *fakeResolver) Resolve(ctx context.Context, unitID string, roleFlag string) (*orgsvc.Population, error) {
	return f.population, nil
}

// fakeContentSource menyajikan konten dan snapshot dari memori.
type fakeContentSource struct {
	contents  []contentmodels.ContentItem
	snapshots map[string]handleset.Set // key: contentId|actionType
	failed    map[string]bool
}

func newFakeContentSource() *fakeContentSource {
	return &fakeContentSource{
		snapshots: map[string]handleset.Set{},
		failed:    map[string]bool{},
	}
}

func (f *fakeContentSource) addContent(contentID string, unitID string) {
	f.contents = append(f.contents, contentmodels.ContentItem{ContentID: contentID, UnitID: unitID})
}

func (f *fakeContentSource) addSnapshot(contentID string, actionType string, handles ...string) {
	f.snapshots[contentID+"|"+actionType] = handleset.New(handles...)
}

func (f *fakeContentSource) FindTodayContent(ctx context.Context, unitID string, now time.Time) ([]contentmodels.ContentItem, error) {
	return f.contents, nil
}

func (f *fakeContentSource) SnapshotSet(ctx context.Context, contentID string, actionType string) (handleset.Set, bool, error) {
	key := contentID + "|" + actionType
	set, ok := f.snapshots[key]
	if !ok {
		return handleset.New(), f.failed[key], nil
	}
	return set, f.failed[key], nil
}

func member(id string, name string, unitID string, opts ...func(*orgmodels.Personnel)) orgmodels.Personnel {
	m := orgmodels.Personnel{
		PersonnelID: id,
		Name:        name,
		UnitID:      unitID,
		Active:      true,
		Handles:     map[string]string{orgmodels.PlatformInstagram: name},
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func withHandle(platform string, handle string) func(*orgmodels.Personnel) {
	return func(m *orgmodels.Personnel) {
		if m.Handles == nil {
			m.Handles = map[string]string{}
		}
		m.Handles[platform] = handle
	}
}

func noHandle() func(*orgmodels.Personnel) {
	return func(m *orgmodels.Personnel) { m.Handles = nil }
}

func exempt() func(*orgmodels.Personnel) {
	return func(m *orgmodels.Personnel) { m.Exempt = true }
}

func newTestService(resolver *fakeResolver, contents *fakeContentSource) *ComplianceService {
	log, _ := logrustest.NewNullLogger()
	return NewComplianceService(resolver, contents, log)
}

func statusByID(records []compliancedto.ComplianceRecord) map[string]compliancedto.Status {
	out := map[string]compliancedto.Status{}
	for _, r := range records {
		out[r.PersonnelID] = r.Status
	}
	return out
}

func TestAggregateDirectorateScenario(t *testing.T) {
	// Dua satker anak: satu anggota sudah komentar, satu belum sama sekali
	resolver := &fakeResolver{population: &orgsvc.Population{
		Unit: &orgmodels.OrgUnit{UnitID: "DITBINMAS", UnitType: orgmodels.UnitTypeDirectorate},
		Mode: orgsvc.ResolveDirectorate,
		Members: []orgmodels.Personnel{
			member("P1", "Budi", "POLRES A", withHandle(orgmodels.PlatformInstagram, "@budi_01")),
			member("P2", "Siti", "POLRES B", withHandle(orgmodels.PlatformInstagram, "siti_99")),
		},
	}}
	contents := newFakeContentSource()
	contents.addContent("C1", "DITBINMAS")
	contents.addSnapshot("C1", contentmodels.ActionComment, "Budi_01")

	svc := newTestService(resolver, contents)
	result, err := svc.Aggregate(context.Background(), AggregateParams{UnitID: "ditbinmas", RoleFlag: "ditbinmas"})
	require.NoError(t, err)

	assert.Equal(t, "DITBINMAS", result.UnitID)
	assert.Equal(t, "directorate", result.Mode)
	assert.Equal(t, 1, result.RequiredCount)

	byID := statusByID(result.Records)
	assert.Equal(t, compliancedto.StatusSudah, byID["P1"])
	assert.Equal(t, compliancedto.StatusBelum, byID["P2"])

	assert.Equal(t, 1, result.Summary.Distribution.Sudah)
	assert.Equal(t, 1, result.Summary.Distribution.Belum)
	assert.False(t, result.Summary.Degraded)

	require.Len(t, result.Summary.PerUnit, 2)
	assert.Equal(t, "POLRES A", result.Summary.PerUnit[0].UnitID)
	assert.Equal(t, 1, result.Summary.PerUnit[0].Sudah)
	assert.Equal(t, "POLRES B", result.Summary.PerUnit[1].UnitID)
	assert.Equal(t, 1, result.Summary.PerUnit[1].Belum)
}

func TestAggregateExemptAlwaysSudah(t *testing.T) {
	// Exempt menang walau tanpa handle dan tanpa aksi
	resolver := &fakeResolver{population: &orgsvc.Population{
		Unit: &orgmodels.OrgUnit{UnitID: "POLRES A", UnitType: orgmodels.UnitTypeRegional},
		Mode: orgsvc.ResolveRegionalUnit,
		Members: []orgmodels.Personnel{
			member("P1", "Komandan", "POLRES A", exempt(), noHandle()),
			member("P2", "Budi", "POLRES A", withHandle(orgmodels.PlatformInstagram, "budi_01")),
		},
	}}
	contents := newFakeContentSource()
	contents.addContent("C1", "POLRES A")

	svc := newTestService(resolver, contents)
	result, err := svc.Aggregate(context.Background(), AggregateParams{UnitID: "POLRES A"})
	require.NoError(t, err)

	byID := statusByID(result.Records)
	assert.Equal(t, compliancedto.StatusSudah, byID["P1"])
	assert.Equal(t, compliancedto.StatusBelum, byID["P2"])
}

func TestAggregateNoHandleClassification(t *testing.T) {
	resolver := &fakeResolver{population: &orgsvc.Population{
		Unit: &orgmodels.OrgUnit{UnitID: "POLRES A", UnitType: orgmodels.UnitTypeRegional},
		Mode: orgsvc.ResolveRegionalUnit,
		Members: []orgmodels.Personnel{
			member("P1", "Budi", "POLRES A", noHandle()),
		},
	}}
	contents := newFakeContentSource()
	contents.addContent("C1", "POLRES A")

	svc := newTestService(resolver, contents)
	result, err := svc.Aggregate(context.Background(), AggregateParams{UnitID: "POLRES A"})
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, compliancedto.StatusNoHandle, result.Records[0].Status)
	assert.Equal(t, 1, result.Summary.Distribution.NoHandle)
}

func TestAggregateZeroContentVacuousSudah(t *testing.T) {
	// Tanpa konten hari ini, semua anggota (apa pun keadaannya selain
	// noHandle) terhitung sudah dengan kewajiban nol
	members := []orgmodels.Personnel{
		member("P1", "Budi", "POLRES A"),
		member("P2", "Siti", "POLRES A"),
		member("P3", "Andi", "POLRES A"),
		member("P4", "Dewi", "POLRES A"),
		member("P5", "Rina", "POLRES A"),
	}
	resolver := &fakeResolver{population: &orgsvc.Population{
		Unit:    &orgmodels.OrgUnit{UnitID: "POLRES A", UnitType: orgmodels.UnitTypeRegional},
		Mode:    orgsvc.ResolveRegionalUnit,
		Members: members,
	}}

	svc := newTestService(resolver, newFakeContentSource())
	result, err := svc.Aggregate(context.Background(), AggregateParams{UnitID: "POLRES A"})
	require.NoError(t, err)

	assert.Equal(t, 0, result.RequiredCount)
	assert.Equal(t, 5, result.Summary.Distribution.Sudah)
	for _, r := range result.Records {
		assert.Equal(t, compliancedto.StatusSudah, r.Status)
	}
}

func TestAggregateKurangClassification(t *testing.T) {
	// Dua konten wajib, hanya satu yang dikomentari → kurang
	resolver := &fakeResolver{population: &orgsvc.Population{
		Unit: &orgmodels.OrgUnit{UnitID: "POLRES A", UnitType: orgmodels.UnitTypeRegional},
		Mode: orgsvc.ResolveRegionalUnit,
		Members: []orgmodels.Personnel{
			member("P1", "Budi", "POLRES A", withHandle(orgmodels.PlatformInstagram, "budi_01")),
		},
	}}
	contents := newFakeContentSource()
	contents.addContent("C1", "POLRES A")
	contents.addContent("C2", "POLRES A")
	contents.addSnapshot("C1", contentmodels.ActionComment, "budi_01")

	svc := newTestService(resolver, contents)
	result, err := svc.Aggregate(context.Background(), AggregateParams{UnitID: "POLRES A"})
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, compliancedto.StatusKurang, result.Records[0].Status)
	assert.Equal(t, 1, result.Records[0].ActionCount)
	assert.Equal(t, 2, result.Records[0].RequiredCount)
}

func TestAggregateRequiredOverride(t *testing.T) {
	resolver := &fakeResolver{population: &orgsvc.Population{
		Unit: &orgmodels.OrgUnit{UnitID: "POLRES A", UnitType: orgmodels.UnitTypeRegional},
		Mode: orgsvc.ResolveRegionalUnit,
		Members: []orgmodels.Personnel{
			member("P1", "Budi", "POLRES A", withHandle(orgmodels.PlatformInstagram, "budi_01")),
		},
	}}
	contents := newFakeContentSource()
	contents.addContent("C1", "POLRES A")
	contents.addContent("C2", "POLRES A")
	contents.addSnapshot("C1", contentmodels.ActionComment, "budi_01")

	svc := newTestService(resolver, contents)
	result, err := svc.Aggregate(context.Background(), AggregateParams{
		UnitID:           "POLRES A",
		RequiredOverride: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.RequiredCount)
	assert.Equal(t, compliancedto.StatusSudah, result.Records[0].Status)
}

func TestAggregateDegradedOnFetchFailure(t *testing.T) {
	resolver := &fakeResolver{population: &orgsvc.Population{
		Unit: &orgmodels.OrgUnit{UnitID: "POLRES A", UnitType: orgmodels.UnitTypeRegional},
		Mode: orgsvc.ResolveRegionalUnit,
		Members: []orgmodels.Personnel{
			member("P1", "Budi", "POLRES A", withHandle(orgmodels.PlatformInstagram, "budi_01")),
		},
	}}
	contents := newFakeContentSource()
	contents.addContent("C1", "POLRES A")
	contents.failed["C1|"+contentmodels.ActionComment] = true

	svc := newTestService(resolver, contents)
	result, err := svc.Aggregate(context.Background(), AggregateParams{UnitID: "POLRES A"})
	require.NoError(t, err)

	assert.True(t, result.Summary.Degraded)
	assert.Equal(t, 1, result.Summary.FetchFailures)
	// Snapshot gagal = himpunan kosong, anggota jatuh ke belum
	assert.Equal(t, compliancedto.StatusBelum, result.Records[0].Status)
}

func TestAggregateSortStability(t *testing.T) {
	resolver := &fakeResolver{population: &orgsvc.Population{
		Unit: &orgmodels.OrgUnit{UnitID: "DITBINMAS", UnitType: orgmodels.UnitTypeDirectorate},
		Mode: orgsvc.ResolveDirectorate,
		Members: []orgmodels.Personnel{
			member("P3", "Citra", "POLRES B"),
			member("P1", "Budi", "POLRES A"),
			member("P2", "Andi", "POLRES A"),
		},
	}}

	svc := newTestService(resolver, newFakeContentSource())
	result, err := svc.Aggregate(context.Background(), AggregateParams{UnitID: "DITBINMAS", RoleFlag: "ditbinmas"})
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "Andi", result.Records[0].Name)
	assert.Equal(t, "Budi", result.Records[1].Name)
	assert.Equal(t, "Citra", result.Records[2].Name)
}
