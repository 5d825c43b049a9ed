package compliancesvc

import (
	"context"
	"sync"
	"testing"
	"time"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentmodels "github.com/cicero78M/Update-User-sub004/internal/api/content/models"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	orgsvc "github.com/cicero78M/Update-User-sub004/internal/api/org/service"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/handleset"
)

type writtenSnapshot struct {
	contentID   string
	actionType  string
	handles     []string
	fetchFailed bool
}

// fakeSnapshotWriter merekam snapshot yang ditulis pipeline.
type fakeSnapshotWriter struct {
	mu       sync.Mutex
	contents []contentmodels.ContentItem
	written  []writtenSnapshot
	storeErr error
}

func (f *fakeSnapshotWriter) FindTodayContent(ctx context.Context, unitID string, now time.Time) ([]contentmodels.ContentItem, error) {
	return f.contents, nil
}

func (f *fakeSnapshotWriter) UpsertSnapshot(ctx context.Context, contentID string, actionType string, actions handleset.Set, capturedAt time.Time, fetchFailed bool) (contentmodels.EngagementSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return contentmodels.EngagementSnapshot{}, f.storeErr
	}
	f.written = append(f.written, writtenSnapshot{
		contentID:   contentID,
		actionType:  actionType,
		handles:     actions.Values(),
		fetchFailed: fetchFailed,
	})
	return contentmodels.EngagementSnapshot{ContentID: contentID, ActionType: actionType}, nil
}

func (f *fakeSnapshotWriter) find(contentID string, actionType string) (writtenSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.written {
		if w.contentID == contentID && w.actionType == actionType {
			return w, true
		}
	}
	return writtenSnapshot{}, false
}

// fakeEngagementFetcher mengembalikan himpunan per konten; konten yang masuk
// failSet dianggap habis retry.
type fakeEngagementFetcher struct {
	likes    map[string][]string
	comments map[string][]string
	failSet  map[string]bool
}

func newFakeEngagementFetcher() *fakeEngagementFetcher {
	return &fakeEngagementFetcher{
		likes:    map[string][]string{},
		comments: map[string][]string{},
		failSet:  map[string]bool{},
	}
}

func (f *fakeEngagementFetcher) FetchEngagementSet(ctx context.Context, contentID string) (handleset.Set, error) {
	if f.failSet[contentID] {
		return nil, common.NewFetchFailedError("gagal", nil)
	}
	return handleset.New(f.likes[contentID]...), nil
}

func (f *fakeEngagementFetcher) FetchCommentSet(ctx context.Context, contentID string) (handleset.Set, error) {
	if f.failSet[contentID] {
		return nil, common.NewFetchFailedError("gagal", nil)
	}
	return handleset.New(f.comments[contentID]...), nil
}

func regionalPopulation(members ...orgmodels.Personnel) *orgsvc.Population {
	return &orgsvc.Population{
		Unit:    &orgmodels.OrgUnit{UnitID: "POLRES A", UnitType: orgmodels.UnitTypeRegional},
		Mode:    orgsvc.ResolveRegionalUnit,
		Members: members,
	}
}

func newTestRefreshService(pop *orgsvc.Population, store *fakeSnapshotWriter, fetcher *fakeEngagementFetcher) *RefreshService {
	log, _ := logrustest.NewNullLogger()
	fetchers := map[string]engagementFetcher{orgmodels.PlatformInstagram: fetcher}
	return NewRefreshService(&fakeResolver{population: pop}, store, fetchers, 2, log)
}

func TestRefreshUnitWritesBothActionTypes(t *testing.T) {
	store := &fakeSnapshotWriter{contents: []contentmodels.ContentItem{
		{ContentID: "C1", UnitID: "POLRES A", Platform: orgmodels.PlatformInstagram},
	}}
	fetcher := newFakeEngagementFetcher()
	fetcher.likes["C1"] = []string{"@Budi_01"}
	fetcher.comments["C1"] = []string{"siti_99"}

	svc := newTestRefreshService(regionalPopulation(), store, fetcher)
	result, err := svc.RefreshUnit(context.Background(), "POLRES A", "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ContentCount)
	assert.Equal(t, 2, result.SnapshotCount)
	assert.Equal(t, 0, result.FetchFailures)

	like, ok := store.find("C1", contentmodels.ActionLike)
	require.True(t, ok)
	assert.Equal(t, []string{"budi_01"}, like.handles)

	comment, ok := store.find("C1", contentmodels.ActionComment)
	require.True(t, ok)
	assert.Equal(t, []string{"siti_99"}, comment.handles)
}

func TestRefreshUnitMergesExemptHandles(t *testing.T) {
	// Personel exempt disuntikkan saat persist walau platform belum
	// melaporkan mereka
	pop := regionalPopulation(
		member("P1", "Komandan", "POLRES A", exempt(), withHandle(orgmodels.PlatformInstagram, "@Komandan_A")),
		member("P2", "Budi", "POLRES A", withHandle(orgmodels.PlatformInstagram, "budi_01")),
	)
	store := &fakeSnapshotWriter{contents: []contentmodels.ContentItem{
		{ContentID: "C1", UnitID: "POLRES A", Platform: orgmodels.PlatformInstagram},
	}}
	fetcher := newFakeEngagementFetcher()
	fetcher.comments["C1"] = []string{"budi_01"}

	svc := newTestRefreshService(pop, store, fetcher)
	_, err := svc.RefreshUnit(context.Background(), "POLRES A", "", time.Now())
	require.NoError(t, err)

	comment, ok := store.find("C1", contentmodels.ActionComment)
	require.True(t, ok)
	assert.Equal(t, []string{"budi_01", "komandan_a"}, comment.handles)
}

func TestRefreshUnitFetchFailureDegradesContentOnly(t *testing.T) {
	// Konten yang gagal tetap ditulis sebagai snapshot kosong bertanda
	// degradasi; konten lain dalam batch tidak terpengaruh
	store := &fakeSnapshotWriter{contents: []contentmodels.ContentItem{
		{ContentID: "C1", UnitID: "POLRES A", Platform: orgmodels.PlatformInstagram},
		{ContentID: "C2", UnitID: "POLRES A", Platform: orgmodels.PlatformInstagram},
	}}
	fetcher := newFakeEngagementFetcher()
	fetcher.failSet["C1"] = true
	fetcher.comments["C2"] = []string{"budi_01"}

	svc := newTestRefreshService(regionalPopulation(), store, fetcher)
	result, err := svc.RefreshUnit(context.Background(), "POLRES A", "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, result.FetchFailures)
	assert.Equal(t, 4, result.SnapshotCount)

	degraded, ok := store.find("C1", contentmodels.ActionComment)
	require.True(t, ok)
	assert.True(t, degraded.fetchFailed)
	assert.Empty(t, degraded.handles)

	healthy, ok := store.find("C2", contentmodels.ActionComment)
	require.True(t, ok)
	assert.False(t, healthy.fetchFailed)
	assert.Equal(t, []string{"budi_01"}, healthy.handles)
}

func TestRefreshUnitStorageErrorAbortsRun(t *testing.T) {
	store := &fakeSnapshotWriter{
		contents: []contentmodels.ContentItem{
			{ContentID: "C1", UnitID: "POLRES A", Platform: orgmodels.PlatformInstagram},
		},
		storeErr: common.ErrStorageUnavailable,
	}
	fetcher := newFakeEngagementFetcher()

	svc := newTestRefreshService(regionalPopulation(), store, fetcher)
	_, err := svc.RefreshUnit(context.Background(), "POLRES A", "", time.Now())
	require.Error(t, err)
}

func TestRefreshUnitUnknownPlatformFetcher(t *testing.T) {
	store := &fakeSnapshotWriter{contents: []contentmodels.ContentItem{
		{ContentID: "C1", UnitID: "POLRES A", Platform: orgmodels.PlatformTiktok},
	}}
	fetcher := newFakeEngagementFetcher()

	svc := newTestRefreshService(regionalPopulation(), store, fetcher)
	_, err := svc.RefreshUnit(context.Background(), "POLRES A", "", time.Now())
	require.Error(t, err)
}
