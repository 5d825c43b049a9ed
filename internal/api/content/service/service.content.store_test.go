package contentsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "github.com/cicero78M/Update-User-sub004/internal/api/base/service"
	contentmodels "github.com/cicero78M/Update-User-sub004/internal/api/content/models"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/handleset"
)

// fakeContentStore meniru semantik upsert-by-key collection konten.
type fakeContentStore struct {
	items map[string]contentmodels.ContentItem
	// failUpsertsWithDuplicate membuat N upsert pertama gagal ErrDuplicate,
	// meniru balapan pembuatan induk.
	failUpsertsWithDuplicate int
	upsertCalls              int
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{items: map[string]contentmodels.ContentItem{}}
}

func (f *fakeContentStore) Upsert(_ context.Context, filter interface{}, data interface{}) (contentmodels.ContentItem, error) {
	f.upsertCalls++
	if f.failUpsertsWithDuplicate > 0 {
		f.failUpsertsWithDuplicate--
		return contentmodels.ContentItem{}, common.ErrDuplicate
	}

	contentID := filter.(bson.M)["contentId"].(string)
	update := data.(*basesvc.UpdateData)

	item, exists := f.items[contentID]
	if !exists {
		item = contentmodels.ContentItem{ContentID: contentID}
		for k, v := range update.SetOnInsert {
			applyContentField(&item, k, v)
		}
	}
	for k, v := range update.Set {
		applyContentField(&item, k, v)
	}
	f.items[contentID] = item
	return item, nil
}

func applyContentField(item *contentmodels.ContentItem, key string, value interface{}) {
	switch key {
	case "contentId":
		item.ContentID = value.(string)
	case "unitId":
		item.UnitID = value.(string)
	case "platform":
		item.Platform = value.(string)
	case "publishedAt":
		item.PublishedAt = value.(int64)
	case "placeholder":
		item.Placeholder = value.(bool)
	}
}

func (f *fakeContentStore) FindOne(_ context.Context, filter interface{}, _ *options.FindOneOptions) (contentmodels.ContentItem, error) {
	item, ok := f.items[filter.(bson.M)["contentId"].(string)]
	if !ok {
		return contentmodels.ContentItem{}, common.ErrNotFound
	}
	return item, nil
}

func (f *fakeContentStore) Find(_ context.Context, filter interface{}, _ *options.FindOptions) ([]contentmodels.ContentItem, error) {
	fm := filter.(bson.M)
	unitID := fm["unitId"].(string)
	window := fm["publishedAt"].(bson.M)
	start, end := window["$gte"].(int64), window["$lt"].(int64)

	var out []contentmodels.ContentItem
	for _, item := range f.items {
		if item.UnitID == unitID && item.PublishedAt >= start && item.PublishedAt < end {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeContentStore) DocumentExists(_ context.Context, filter interface{}) (bool, error) {
	_, ok := f.items[filter.(bson.M)["contentId"].(string)]
	return ok, nil
}

func (f *fakeContentStore) DeleteOne(_ context.Context, filter interface{}) error {
	contentID := filter.(bson.M)["contentId"].(string)
	if _, ok := f.items[contentID]; !ok {
		return common.ErrNotFound
	}
	delete(f.items, contentID)
	return nil
}

// fakeSnapshotStore meniru unique index (contentId, actionType) dengan kunci gabungan.
type fakeSnapshotStore struct {
	snapshots map[string]contentmodels.EngagementSnapshot
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{snapshots: map[string]contentmodels.EngagementSnapshot{}}
}

func snapKey(contentID, actionType string) string {
	return contentID + "|" + actionType
}

func (f *fakeSnapshotStore) Upsert(_ context.Context, filter interface{}, data interface{}) (contentmodels.EngagementSnapshot, error) {
	fm := filter.(bson.M)
	key := snapKey(fm["contentId"].(string), fm["actionType"].(string))
	update := data.(*basesvc.UpdateData)

	snap, exists := f.snapshots[key]
	if !exists {
		snap = contentmodels.EngagementSnapshot{}
		for k, v := range update.SetOnInsert {
			applySnapshotField(&snap, k, v)
		}
	}
	for k, v := range update.Set {
		applySnapshotField(&snap, k, v)
	}
	f.snapshots[key] = snap
	return snap, nil
}

func applySnapshotField(snap *contentmodels.EngagementSnapshot, key string, value interface{}) {
	switch key {
	case "contentId":
		snap.ContentID = value.(string)
	case "actionType":
		snap.ActionType = value.(string)
	case "handles":
		snap.Handles = value.([]string)
	case "capturedAt":
		snap.CapturedAt = value.(int64)
	case "fetchFailed":
		snap.FetchFailed = value.(bool)
	}
}

func (f *fakeSnapshotStore) FindOne(_ context.Context, filter interface{}, _ *options.FindOneOptions) (contentmodels.EngagementSnapshot, error) {
	fm := filter.(bson.M)
	snap, ok := f.snapshots[snapKey(fm["contentId"].(string), fm["actionType"].(string))]
	if !ok {
		return contentmodels.EngagementSnapshot{}, common.ErrNotFound
	}
	return snap, nil
}

func (f *fakeSnapshotStore) Find(_ context.Context, filter interface{}, _ *options.FindOptions) ([]contentmodels.EngagementSnapshot, error) {
	contentID := filter.(bson.M)["contentId"].(string)
	var out []contentmodels.EngagementSnapshot
	for _, snap := range f.snapshots {
		if snap.ContentID == contentID {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (f *fakeSnapshotStore) DeleteMany(_ context.Context, filter interface{}) (int64, error) {
	contentID := filter.(bson.M)["contentId"].(string)
	var deleted int64
	for key, snap := range f.snapshots {
		if snap.ContentID == contentID {
			delete(f.snapshots, key)
			deleted++
		}
	}
	return deleted, nil
}

func TestUpsertSnapshotReplacesPriorSet(t *testing.T) {
	contents := newFakeContentStore()
	snapshots := newFakeSnapshotStore()
	svc := NewContentService(contents, snapshots)
	ctx := context.Background()

	_, err := svc.UpsertSnapshot(ctx, "vid1", contentmodels.ActionComment,
		handleset.New("budi", "siti"), time.Now(), false)
	require.NoError(t, err)

	// Penulisan kedua mengganti seluruh himpunan: budi hilang, rina masuk
	snap, err := svc.UpsertSnapshot(ctx, "vid1", contentmodels.ActionComment,
		handleset.New("rina"), time.Now(), false)
	require.NoError(t, err)

	assert.Equal(t, []string{"rina"}, snap.Handles, "snapshot lama tidak boleh tersisa")
	assert.Len(t, snapshots.snapshots, 1, "tetap satu snapshot per (contentId, actionType)")
}

func TestUpsertSnapshotCreatesMinimalParent(t *testing.T) {
	contents := newFakeContentStore()
	snapshots := newFakeSnapshotStore()
	svc := NewContentService(contents, snapshots)

	_, err := svc.UpsertSnapshot(context.Background(), "vid9", contentmodels.ActionLike,
		handleset.New("budi"), time.Now(), false)
	require.NoError(t, err)

	parent, ok := contents.items["vid9"]
	require.True(t, ok, "baris induk minimal harus dibuat sebelum snapshot")
	assert.True(t, parent.Placeholder)
}

func TestEnsureParentRetriesOnceOnDuplicateRace(t *testing.T) {
	contents := newFakeContentStore()
	contents.failUpsertsWithDuplicate = 1
	snapshots := newFakeSnapshotStore()
	svc := NewContentService(contents, snapshots)

	// Balapan: upsert induk pertama kalah duplicate-key; dianggap induk sudah ada
	_, err := svc.UpsertSnapshot(context.Background(), "vid9", contentmodels.ActionLike,
		handleset.New("budi"), time.Now(), false)
	require.NoError(t, err)
}

func TestDeleteContentItemCascadesSnapshots(t *testing.T) {
	contents := newFakeContentStore()
	snapshots := newFakeSnapshotStore()
	svc := NewContentService(contents, snapshots)
	ctx := context.Background()

	_, err := svc.UpsertContentItem(ctx, &contentmodels.ContentItem{
		ContentID: "vid1", UnitID: "POLRES A", PublishedAt: time.Now().UnixMilli(),
	})
	require.NoError(t, err)
	_, err = svc.UpsertSnapshot(ctx, "vid1", contentmodels.ActionLike, handleset.New("budi"), time.Now(), false)
	require.NoError(t, err)
	_, err = svc.UpsertSnapshot(ctx, "vid1", contentmodels.ActionComment, handleset.New("siti"), time.Now(), false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContentItem(ctx, "vid1"))

	assert.Empty(t, snapshots.snapshots, "seluruh snapshot harus ikut terhapus")
	_, _, err = svc.SnapshotSet(ctx, "vid1", contentmodels.ActionLike)
	require.NoError(t, err)
	set, _, _ := svc.SnapshotSet(ctx, "vid1", contentmodels.ActionLike)
	assert.Equal(t, 0, set.Len())
}

func TestSnapshotSetMissingIsEmptyNotError(t *testing.T) {
	svc := NewContentService(newFakeContentStore(), newFakeSnapshotStore())

	set, degraded, err := svc.SnapshotSet(context.Background(), "belum-ada", contentmodels.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.False(t, degraded)
}

func TestUpsertContentItemRefreshesMutableFields(t *testing.T) {
	contents := newFakeContentStore()
	svc := NewContentService(contents, newFakeSnapshotStore())
	ctx := context.Background()

	published := time.Now().UnixMilli()
	_, err := svc.UpsertContentItem(ctx, &contentmodels.ContentItem{
		ContentID: "vid1", UnitID: "polres a", Platform: "instagram", PublishedAt: published,
	})
	require.NoError(t, err)

	// Upsert kedua menyegarkan field mutable, kunci tetap
	item, err := svc.UpsertContentItem(ctx, &contentmodels.ContentItem{
		ContentID: "vid1", UnitID: "polres a", Platform: "instagram", PublishedAt: published + 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, "vid1", item.ContentID)
	assert.Equal(t, "POLRES A", item.UnitID, "unitId harus kanonik huruf besar")
	assert.Equal(t, published+1000, item.PublishedAt)
	assert.Len(t, contents.items, 1)
}

func TestFindTodayContentScopedToUnitAndDay(t *testing.T) {
	contents := newFakeContentStore()
	svc := NewContentService(contents, newFakeSnapshotStore())
	ctx := context.Background()
	now := time.Now()

	_, err := svc.UpsertContentItem(ctx, &contentmodels.ContentItem{
		ContentID: "hari-ini", UnitID: "POLRES A", PublishedAt: now.UnixMilli(),
	})
	require.NoError(t, err)
	_, err = svc.UpsertContentItem(ctx, &contentmodels.ContentItem{
		ContentID: "kemarin", UnitID: "POLRES A", PublishedAt: now.Add(-48 * time.Hour).UnixMilli(),
	})
	require.NoError(t, err)
	_, err = svc.UpsertContentItem(ctx, &contentmodels.ContentItem{
		ContentID: "satuan-lain", UnitID: "POLRES B", PublishedAt: now.UnixMilli(),
	})
	require.NoError(t, err)

	todays, err := svc.FindTodayContent(ctx, "POLRES A", now)
	require.NoError(t, err)
	require.Len(t, todays, 1)
	assert.Equal(t, "hari-ini", todays[0].ContentID)
}
