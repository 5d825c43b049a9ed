package orgsvc

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	"github.com/cicero78M/Update-User-sub004/internal/common"
)

// ResolveMode adalah varian tertutup jalur resolusi populasi. Mode diturunkan
// sekali dari metadata satuan tersimpan, tidak pernah dari heuristik string
// saat pemanggilan.
type ResolveMode int

const (
	// ResolveDirectorate: role flag menunjuk direktorat tersimpan; populasi
	// adalah seluruh anggota di semua satuan wilayah anak.
	ResolveDirectorate ResolveMode = iota
	// ResolveOperatorManaged: tipe satuan operatorManaged; populasi hanya
	// operator pelapor satuan, bukan seluruh anggota.
	ResolveOperatorManaged
	// ResolveRegionalUnit: populasi anggota langsung satuan yang disebut.
	ResolveRegionalUnit
)

// String mengembalikan nama mode untuk respons API dan log.
func (m ResolveMode) String() string {
	switch m {
	case ResolveDirectorate:
		return "directorate"
	case ResolveOperatorManaged:
		return "operatorManaged"
	default:
		return "regionalUnit"
	}
}

// unitStore dan personnelStore adalah irisan sempit dari BaseServiceMongo yang
// dibutuhkan resolver; test memakai fake kecil untuk keduanya.
type unitStore interface {
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (orgmodels.OrgUnit, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]orgmodels.OrgUnit, error)
}

type personnelStore interface {
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]orgmodels.Personnel, error)
}

// Population adalah hasil resolusi: satuan pelingkup, mode, dan daftar anggota
// yang wajib melapor.
type Population struct {
	Unit    *orgmodels.OrgUnit // nil bila satuan tidak dikenal
	Mode    ResolveMode
	Members []orgmodels.Personnel
}

// PopulationService meresolusi (kode satuan, role flag) menjadi populasi pelapor.
type PopulationService struct {
	units     unitStore
	personnel personnelStore
}

// NewPopulationService membuat resolver dari service satuan dan personel.
func NewPopulationService(units unitStore, personnel personnelStore) *PopulationService {
	return &PopulationService{units: units, personnel: personnel}
}

// NewPopulationServiceFromRegistry merakit resolver dari registry collection global.
func NewPopulationServiceFromRegistry() (*PopulationService, error) {
	unitSvc, err := NewOrgUnitService()
	if err != nil {
		return nil, err
	}
	personnelSvc, err := NewPersonnelService()
	if err != nil {
		return nil, err
	}
	return NewPopulationService(unitSvc, personnelSvc), nil
}

// Resolve menentukan populasi pelapor untuk (unitID, roleFlag).
// Urutan resolusi, cocok pertama menang:
//  1. roleFlag adalah kode direktorat tersimpan → populasi seluruh satuan anak
//  2. satuan bertipe operatorManaged → populasi operator saja
//  3. selain itu → anggota langsung satuan
//
// Satuan yang tidak dikenal menghasilkan populasi kosong, bukan error.
// Hanya anggota aktif yang masuk populasi.
func (s *PopulationService) Resolve(ctx context.Context, unitID string, roleFlag string) (*Population, error) {
	canonicalUnit := orgmodels.CanonicalUnitID(unitID)
	canonicalRole := orgmodels.CanonicalUnitID(roleFlag)

	// Jalur 1: role flag berupa kode direktorat tersimpan
	if canonicalRole != "" {
		directorate, err := s.units.FindOne(ctx, bson.M{
			"unitId":   canonicalRole,
			"unitType": orgmodels.UnitTypeDirectorate,
		}, nil)
		if err == nil {
			return s.resolveDirectorate(ctx, &directorate, canonicalUnit)
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}

	// Cari satuan yang disebut; tidak dikenal = populasi kosong
	unit, err := s.units.FindOne(ctx, bson.M{"unitId": canonicalUnit}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &Population{Unit: nil, Mode: ResolveRegionalUnit, Members: []orgmodels.Personnel{}}, nil
		}
		return nil, err
	}

	// Jalur 2: satuan dikelola operator
	if unit.UnitType == orgmodels.UnitTypeOperatorManaged {
		return s.resolveOperators(ctx, &unit)
	}

	// Jalur 3: anggota langsung satuan
	return s.resolveDirectMembers(ctx, &unit)
}

// resolveDirectorate mengambil seluruh anggota aktif dari semua satuan anak
// direktorat. Konten "hari ini" tetap dilingkup oleh scopeUnitID milik caller.
func (s *PopulationService) resolveDirectorate(ctx context.Context, directorate *orgmodels.OrgUnit, scopeUnitID string) (*Population, error) {
	children, err := s.units.Find(ctx, bson.M{"parentUnitId": orgmodels.CanonicalUnitID(directorate.UnitID)}, nil)
	if err != nil {
		return nil, err
	}

	unitIDs := make([]string, 0, len(children)+1)
	unitIDs = append(unitIDs, orgmodels.CanonicalUnitID(directorate.UnitID))
	for _, child := range children {
		unitIDs = append(unitIDs, orgmodels.CanonicalUnitID(child.UnitID))
	}

	members, err := s.personnel.Find(ctx, bson.M{
		"unitId": bson.M{"$in": unitIDs},
		"active": true,
	}, nil)
	if err != nil {
		return nil, err
	}

	scopeUnit := *directorate
	if scopeUnitID != "" && scopeUnitID != orgmodels.CanonicalUnitID(directorate.UnitID) {
		// unitID tetap menentukan lingkup konten, bukan seleksi populasi
		if scoped, err := s.units.FindOne(ctx, bson.M{"unitId": scopeUnitID}, nil); err == nil {
			scopeUnit = scoped
		}
	}

	return &Population{
		Unit:    &scopeUnit,
		Mode:    ResolveDirectorate,
		Members: sortMembers(members),
	}, nil
}

// resolveOperators mengambil hanya operator aktif dari satu satuan.
func (s *PopulationService) resolveOperators(ctx context.Context, unit *orgmodels.OrgUnit) (*Population, error) {
	members, err := s.personnel.Find(ctx, bson.M{
		"unitId":   orgmodels.CanonicalUnitID(unit.UnitID),
		"active":   true,
		"operator": true,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &Population{
		Unit:    unit,
		Mode:    ResolveOperatorManaged,
		Members: sortMembers(members),
	}, nil
}

// resolveDirectMembers mengambil anggota aktif langsung dari satu satuan.
func (s *PopulationService) resolveDirectMembers(ctx context.Context, unit *orgmodels.OrgUnit) (*Population, error) {
	members, err := s.personnel.Find(ctx, bson.M{
		"unitId": orgmodels.CanonicalUnitID(unit.UnitID),
		"active": true,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &Population{
		Unit:    unit,
		Mode:    ResolveRegionalUnit,
		Members: sortMembers(members),
	}, nil
}

// sortMembers mengurutkan anggota berdasarkan satuan, divisi, lalu nama supaya
// laporan stabil dan reprodusibel.
func sortMembers(members []orgmodels.Personnel) []orgmodels.Personnel {
	if members == nil {
		return []orgmodels.Personnel{}
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].UnitID != members[j].UnitID {
			return members[i].UnitID < members[j].UnitID
		}
		if members[i].Division != members[j].Division {
			return members[i].Division < members[j].Division
		}
		return members[i].Name < members[j].Name
	})
	return members
}
