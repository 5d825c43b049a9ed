// Package orgsvc - Service satuan organisasi dan resolusi populasi pelapor.
package orgsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	basesvc "github.com/cicero78M/Update-User-sub004/internal/api/base/service"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/global"
)

// OrgUnitService menangani data satuan (org_units).
type OrgUnitService struct {
	*basesvc.BaseServiceMongoImpl[orgmodels.OrgUnit]
}

// NewOrgUnitService membuat OrgUnitService baru.
func NewOrgUnitService() (*OrgUnitService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OrgUnits)
	if !exist {
		return nil, fmt.Errorf("collection %s tidak ditemukan: %w", global.MongoDB_ColNames.OrgUnits, common.ErrNotFound)
	}
	return &OrgUnitService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[orgmodels.OrgUnit](coll),
	}, nil
}

// FindByUnitID mencari satuan berdasarkan kode kanonik.
func (s *OrgUnitService) FindByUnitID(ctx context.Context, unitID string) (orgmodels.OrgUnit, error) {
	return s.FindOne(ctx, bson.M{"unitId": orgmodels.CanonicalUnitID(unitID)}, nil)
}

// FindChildUnits mengembalikan seluruh satuan wilayah di bawah satu direktorat.
func (s *OrgUnitService) FindChildUnits(ctx context.Context, directorateID string) ([]orgmodels.OrgUnit, error) {
	return s.Find(ctx, bson.M{"parentUnitId": orgmodels.CanonicalUnitID(directorateID)}, nil)
}

// DirectorateCodes mengembalikan himpunan kode direktorat yang tersimpan.
// Dipakai resolver untuk mencocokkan role flag terhadap metadata tersimpan,
// bukan heuristik nama.
func (s *OrgUnitService) DirectorateCodes(ctx context.Context) (map[string]struct{}, error) {
	units, err := s.Find(ctx, bson.M{"unitType": orgmodels.UnitTypeDirectorate}, nil)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]struct{}, len(units))
	for _, u := range units {
		codes[orgmodels.CanonicalUnitID(u.UnitID)] = struct{}{}
	}
	return codes, nil
}
