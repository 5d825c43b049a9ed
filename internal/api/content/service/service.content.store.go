// Package contentsvc - Engagement Store: upsert idempoten konten dan snapshot
// engagement, relasi induk-anak, dan penghapusan berantai.
package contentsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "github.com/cicero78M/Update-User-sub004/internal/api/base/service"
	contentmodels "github.com/cicero78M/Update-User-sub004/internal/api/content/models"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/handleset"
	"github.com/cicero78M/Update-User-sub004/internal/utility"
)

// contentStore dan snapshotStore adalah irisan sempit BaseServiceMongo yang
// dipakai store; test memakai fake untuk keduanya.
type contentStore interface {
	Upsert(ctx context.Context, filter interface{}, data interface{}) (contentmodels.ContentItem, error)
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (contentmodels.ContentItem, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]contentmodels.ContentItem, error)
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)
	DeleteOne(ctx context.Context, filter interface{}) error
}

type snapshotStore interface {
	Upsert(ctx context.Context, filter interface{}, data interface{}) (contentmodels.EngagementSnapshot, error)
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (contentmodels.EngagementSnapshot, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]contentmodels.EngagementSnapshot, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

// ContentService adalah Engagement Store di atas MongoDB.
type ContentService struct {
	contents  contentStore
	snapshots snapshotStore
}

// NewContentService membuat ContentService dari store yang diberikan.
func NewContentService(contents contentStore, snapshots snapshotStore) *ContentService {
	return &ContentService{contents: contents, snapshots: snapshots}
}

// NewContentServiceFromRegistry merakit ContentService dari registry collection global.
func NewContentServiceFromRegistry() (*ContentService, error) {
	contentColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ContentItems)
	if !exist {
		return nil, fmt.Errorf("collection %s tidak ditemukan: %w", global.MongoDB_ColNames.ContentItems, common.ErrNotFound)
	}
	snapshotColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.EngagementSnapshots)
	if !exist {
		return nil, fmt.Errorf("collection %s tidak ditemukan: %w", global.MongoDB_ColNames.EngagementSnapshots, common.ErrNotFound)
	}
	return NewContentService(
		basesvc.NewBaseServiceMongo[contentmodels.ContentItem](contentColl),
		basesvc.NewBaseServiceMongo[contentmodels.EngagementSnapshot](snapshotColl),
	), nil
}

// UpsertContentItem meng-insert atau memperbarui konten berdasarkan contentId.
// Pembaruan menyegarkan field mutable; kunci utama tidak disentuh.
func (s *ContentService) UpsertContentItem(ctx context.Context, item *contentmodels.ContentItem) (contentmodels.ContentItem, error) {
	set := map[string]interface{}{
		"unitId":      orgmodels.CanonicalUnitID(item.UnitID),
		"publishedAt": item.PublishedAt,
		"placeholder": false,
	}
	if item.Platform != "" {
		set["platform"] = item.Platform
	}
	if item.Caption != "" {
		set["caption"] = item.Caption
	}
	if item.URL != "" {
		set["url"] = item.URL
	}

	return s.contents.Upsert(ctx, bson.M{"contentId": item.ContentID}, &basesvc.UpdateData{
		Set:         set,
		SetOnInsert: map[string]interface{}{"contentId": item.ContentID},
	})
}

// UpsertSnapshot menulis snapshot untuk (contentId, actionType) dengan
// semantik GANTI PENUH: himpunan aksi dan timestamp lama dibuang, bukan
// digabung. Bila baris konten induk belum ada (fetch engagement bisa balapan
// dengan penemuan konten), baris induk minimal dibuat lebih dulu. Balapan
// duplicate-key pada pembuatan induk di-retry sekali.
func (s *ContentService) UpsertSnapshot(ctx context.Context, contentID string, actionType string, actions handleset.Set, capturedAt time.Time, fetchFailed bool) (contentmodels.EngagementSnapshot, error) {
	if err := s.ensureParent(ctx, contentID); err != nil {
		return contentmodels.EngagementSnapshot{}, err
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"handles":     actions.Values(),
			"capturedAt":  capturedAt.UnixMilli(),
			"fetchFailed": fetchFailed,
		},
		SetOnInsert: map[string]interface{}{
			"contentId":  contentID,
			"actionType": actionType,
		},
	}

	filter := bson.M{"contentId": contentID, "actionType": actionType}
	snapshot, err := s.snapshots.Upsert(ctx, filter, update)
	if errors.Is(err, common.ErrDuplicate) {
		// Dua penulis balapan membuat dokumen kunci yang sama; penulisan kedua
		// menang sebagai update biasa.
		snapshot, err = s.snapshots.Upsert(ctx, filter, update)
	}
	return snapshot, err
}

// ensureParent membuat baris konten minimal bila contentId belum dikenal.
func (s *ContentService) ensureParent(ctx context.Context, contentID string) error {
	exists, err := s.contents.DocumentExists(ctx, bson.M{"contentId": contentID})
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.contents.Upsert(ctx, bson.M{"contentId": contentID}, &basesvc.UpdateData{
		SetOnInsert: map[string]interface{}{
			"contentId":   contentID,
			"placeholder": true,
		},
	})
	if errors.Is(err, common.ErrDuplicate) {
		// Penulis lain menang; induk sudah ada
		return nil
	}
	return err
}

// FindByContentID mencari satu konten berdasarkan contentId.
func (s *ContentService) FindByContentID(ctx context.Context, contentID string) (contentmodels.ContentItem, error) {
	return s.contents.FindOne(ctx, bson.M{"contentId": contentID}, nil)
}

// Snapshot membaca snapshot berlaku untuk (contentId, actionType).
func (s *ContentService) Snapshot(ctx context.Context, contentID string, actionType string) (contentmodels.EngagementSnapshot, error) {
	return s.snapshots.FindOne(ctx, bson.M{"contentId": contentID, "actionType": actionType}, nil)
}

// SnapshotSet membaca snapshot sebagai himpunan handle ternormalisasi.
// Snapshot yang belum ada menghasilkan himpunan kosong, bukan error.
func (s *ContentService) SnapshotSet(ctx context.Context, contentID string, actionType string) (handleset.Set, bool, error) {
	snapshot, err := s.Snapshot(ctx, contentID, actionType)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return handleset.New(), false, nil
		}
		return nil, false, err
	}
	return handleset.New(snapshot.Handles...), snapshot.FetchFailed, nil
}

// DeleteContentItem menghapus konten beserta SELURUH snapshot-nya. MongoDB
// tidak punya cascade FK, jadi store memiliki lifetime anak: snapshot dihapus
// lebih dulu supaya tidak ada anak yatim bila penghapusan induk gagal.
func (s *ContentService) DeleteContentItem(ctx context.Context, contentID string) error {
	if _, err := s.snapshots.DeleteMany(ctx, bson.M{"contentId": contentID}); err != nil {
		return err
	}
	return s.contents.DeleteOne(ctx, bson.M{"contentId": contentID})
}

// FindTodayContent mengembalikan konten satuan yang terbit pada hari kalender
// WIB yang memuat now. Baris placeholder ikut dihitung hanya bila punya unitId.
func (s *ContentService) FindTodayContent(ctx context.Context, unitID string, now time.Time) ([]contentmodels.ContentItem, error) {
	start, end := utility.DayWindow(now)
	return s.contents.Find(ctx, bson.M{
		"unitId": orgmodels.CanonicalUnitID(unitID),
		"publishedAt": bson.M{
			"$gte": start.UnixMilli(),
			"$lt":  end.UnixMilli(),
		},
	}, nil)
}
