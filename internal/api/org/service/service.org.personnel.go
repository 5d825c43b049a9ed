package orgsvc

import (
	"fmt"

	basesvc "github.com/cicero78M/Update-User-sub004/internal/api/base/service"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/global"
)

// PersonnelService menangani data personel (org_personnel).
type PersonnelService struct {
	*basesvc.BaseServiceMongoImpl[orgmodels.Personnel]
}

// NewPersonnelService membuat PersonnelService baru.
func NewPersonnelService() (*PersonnelService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OrgPersonnel)
	if !exist {
		return nil, fmt.Errorf("collection %s tidak ditemukan: %w", global.MongoDB_ColNames.OrgPersonnel, common.ErrNotFound)
	}
	return &PersonnelService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[orgmodels.Personnel](coll),
	}, nil
}
