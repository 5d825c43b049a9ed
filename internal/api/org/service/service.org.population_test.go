package orgsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	"github.com/cicero78M/Update-User-sub004/internal/common"
)

// fakeUnitStore menyimpan satuan di memori dan mencatat filter yang dipakai.
type fakeUnitStore struct {
	units       []orgmodels.OrgUnit
	findFilters []bson.M
}

func (f *fakeUnitStore) FindOne(_ context.Context, filter interface{}, _ *options.FindOneOptions) (orgmodels.OrgUnit, error) {
	fm := filter.(bson.M)
	for _, u := range f.units {
		if !matchUnit(u, fm) {
			continue
		}
		return u, nil
	}
	return orgmodels.OrgUnit{}, common.ErrNotFound
}

func (f *fakeUnitStore) Find(_ context.Context, filter interface{}, _ *options.FindOptions) ([]orgmodels.OrgUnit, error) {
	fm := filter.(bson.M)
	var out []orgmodels.OrgUnit
	for _, u := range f.units {
		if matchUnit(u, fm) {
			out = append(out, u)
		}
	}
	return out, nil
}

func matchUnit(u orgmodels.OrgUnit, filter bson.M) bool {
	if v, ok := filter["unitId"]; ok && u.UnitID != v.(string) {
		return false
	}
	if v, ok := filter["unitType"]; ok && u.UnitType != v.(orgmodels.UnitType) {
		return false
	}
	if v, ok := filter["parentUnitId"]; ok && u.ParentUnitID != v.(string) {
		return false
	}
	return true
}

// fakePersonnelStore mencatat setiap filter Find untuk memeriksa jalur resolusi.
type fakePersonnelStore struct {
	members     []orgmodels.Personnel
	findFilters []bson.M
}

func (f *fakePersonnelStore) Find(_ context.Context, filter interface{}, _ *options.FindOptions) ([]orgmodels.Personnel, error) {
	fm := filter.(bson.M)
	f.findFilters = append(f.findFilters, fm)

	var out []orgmodels.Personnel
	for _, m := range f.members {
		if active, ok := fm["active"]; ok && m.Active != active.(bool) {
			continue
		}
		if op, ok := fm["operator"]; ok && m.Operator != op.(bool) {
			continue
		}
		switch unitFilter := fm["unitId"].(type) {
		case string:
			if m.UnitID != unitFilter {
				continue
			}
		case bson.M:
			ids := unitFilter["$in"].([]string)
			found := false
			for _, id := range ids {
				if m.UnitID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func newResolverFixture() (*PopulationService, *fakeUnitStore, *fakePersonnelStore) {
	units := &fakeUnitStore{units: []orgmodels.OrgUnit{
		{UnitID: "DITBINMAS", Name: "Direktorat Binmas", UnitType: orgmodels.UnitTypeDirectorate},
		{UnitID: "POLRES A", Name: "Polres A", UnitType: orgmodels.UnitTypeRegional, ParentUnitID: "DITBINMAS"},
		{UnitID: "POLRES B", Name: "Polres B", UnitType: orgmodels.UnitTypeRegional, ParentUnitID: "DITBINMAS"},
		{UnitID: "ORG1", Name: "Satuan Operator", UnitType: orgmodels.UnitTypeOperatorManaged},
	}}
	personnel := &fakePersonnelStore{members: []orgmodels.Personnel{
		{PersonnelID: "P1", Name: "Budi", UnitID: "POLRES A", Active: true},
		{PersonnelID: "P2", Name: "Siti", UnitID: "POLRES B", Active: true},
		{PersonnelID: "P3", Name: "Nonaktif", UnitID: "POLRES A", Active: false},
		{PersonnelID: "P4", Name: "Operator Satu", UnitID: "ORG1", Active: true, Operator: true},
		{PersonnelID: "P5", Name: "Anggota Biasa", UnitID: "ORG1", Active: true, Operator: false},
	}}
	return NewPopulationService(units, personnel), units, personnel
}

func TestResolveDirectorateRole(t *testing.T) {
	svc, _, personnel := newResolverFixture()

	pop, err := svc.Resolve(context.Background(), "ditbinmas", "ditbinmas")
	require.NoError(t, err)

	// Populasi seluruh satuan anak, hanya anggota aktif
	require.Len(t, pop.Members, 2)
	assert.Equal(t, ResolveDirectorate, pop.Mode)
	assert.Equal(t, "Budi", pop.Members[0].Name)
	assert.Equal(t, "Siti", pop.Members[1].Name)

	// Eksklusivitas jalur: hanya satu lookup, dengan $in antar satuan,
	// tanpa filter operator
	require.Len(t, personnel.findFilters, 1)
	_, hasOperatorFilter := personnel.findFilters[0]["operator"]
	assert.False(t, hasOperatorFilter, "resolusi direktorat tidak boleh memakai jalur operator")
	_, hasInFilter := personnel.findFilters[0]["unitId"].(bson.M)
	assert.True(t, hasInFilter, "resolusi direktorat harus melingkup seluruh satuan anak")
}

func TestResolveOperatorManagedUnit(t *testing.T) {
	svc, _, personnel := newResolverFixture()

	pop, err := svc.Resolve(context.Background(), "ORG1", "")
	require.NoError(t, err)

	// Hanya operator, bukan seluruh anggota
	require.Len(t, pop.Members, 1)
	assert.Equal(t, ResolveOperatorManaged, pop.Mode)
	assert.Equal(t, "Operator Satu", pop.Members[0].Name)

	// Eksklusivitas jalur: lookup memakai filter operator dan satu unitId,
	// tidak pernah lookup lintas satuan
	require.Len(t, personnel.findFilters, 1)
	assert.Equal(t, true, personnel.findFilters[0]["operator"])
	assert.Equal(t, "ORG1", personnel.findFilters[0]["unitId"])
}

func TestResolveRegionalUnitDirectMembers(t *testing.T) {
	svc, _, _ := newResolverFixture()

	pop, err := svc.Resolve(context.Background(), "polres a", "")
	require.NoError(t, err)

	require.Len(t, pop.Members, 1)
	assert.Equal(t, ResolveRegionalUnit, pop.Mode)
	assert.Equal(t, "Budi", pop.Members[0].Name)
	require.NotNil(t, pop.Unit)
	assert.Equal(t, "POLRES A", pop.Unit.UnitID)
}

func TestResolveUnknownUnitEmptyPopulation(t *testing.T) {
	svc, _, _ := newResolverFixture()

	pop, err := svc.Resolve(context.Background(), "TIDAK ADA", "")
	require.NoError(t, err, "satuan tidak dikenal bukan error")

	assert.Nil(t, pop.Unit)
	assert.Empty(t, pop.Members)
}

func TestResolveExcludesInactiveMembers(t *testing.T) {
	svc, _, _ := newResolverFixture()

	pop, err := svc.Resolve(context.Background(), "POLRES A", "")
	require.NoError(t, err)

	for _, m := range pop.Members {
		assert.True(t, m.Active)
	}
}

func TestCanonicalUnitID(t *testing.T) {
	assert.Equal(t, "DITBINMAS", orgmodels.CanonicalUnitID("  ditbinmas "))
	assert.Equal(t, "POLRES A", orgmodels.CanonicalUnitID("Polres a"))
}
