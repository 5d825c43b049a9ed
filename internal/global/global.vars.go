package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cicero78M/Update-User-sub004/config"
	"github.com/cicero78M/Update-User-sub004/internal/registry"
)

// MongoDB_CollectionName berisi nama collection dalam MongoDB
type MongoDB_CollectionName struct {
	OrgUnits            string // Nama collection untuk satuan organisasi (direktorat, polres, satuan operator)
	OrgPersonnel        string // Nama collection untuk personel
	ContentItems        string // Nama collection untuk konten harian (post/video)
	EngagementSnapshots string // Nama collection untuk snapshot engagement per konten
	DispatchHistory     string // Nama collection untuk riwayat pengiriman laporan
}

// Variabel global
var Validate *validator.Validate               // Validator data
var MongoDB_Session *mongo.Client              // Sesi koneksi MongoDB
var ServerConfig *config.Configuration         // Konfigurasi server
var MongoDB_ColNames MongoDB_CollectionName    // Nama collection

// Registry global
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry berisi collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry berisi databases
