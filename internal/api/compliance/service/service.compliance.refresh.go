package compliancesvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	contentmodels "github.com/cicero78M/Update-User-sub004/internal/api/content/models"
	contentsvc "github.com/cicero78M/Update-User-sub004/internal/api/content/service"
	orgmodels "github.com/cicero78M/Update-User-sub004/internal/api/org/models"
	orgsvc "github.com/cicero78M/Update-User-sub004/internal/api/org/service"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/fetcher"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/handleset"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// snapshotWriter adalah irisan ContentService yang dipakai pipeline refresh.
type snapshotWriter interface {
	FindTodayContent(ctx context.Context, unitID string, now time.Time) ([]contentmodels.ContentItem, error)
	UpsertSnapshot(ctx context.Context, contentID string, actionType string, actions handleset.Set, capturedAt time.Time, fetchFailed bool) (contentmodels.EngagementSnapshot, error)
}

// engagementFetcher mengambil himpunan pelaku aksi dari platform (dengan retry).
type engagementFetcher interface {
	FetchEngagementSet(ctx context.Context, contentID string) (handleset.Set, error)
	FetchCommentSet(ctx context.Context, contentID string) (handleset.Set, error)
}

// RefreshResult merangkum satu run refresh untuk satu satuan.
type RefreshResult struct {
	UnitID        string `json:"unitId"`
	ContentCount  int    `json:"contentCount"`
	SnapshotCount int    `json:"snapshotCount"`
	FetchFailures int    `json:"fetchFailures"`
}

// RefreshService menjalankan pipeline fetch → merge pengecualian → persist
// untuk seluruh konten hari ini milik satu satuan.
type RefreshService struct {
	resolver    populationResolver
	store       snapshotWriter
	fetchers    map[string]engagementFetcher // platform → fetcher
	concurrency int
	log         *logrus.Logger
}

// NewRefreshService membuat pipeline refresh. concurrency <= 0 berarti 1.
func NewRefreshService(resolver populationResolver, store snapshotWriter, fetchers map[string]engagementFetcher, concurrency int, log *logrus.Logger) *RefreshService {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = logger.GetAppLogger()
	}
	return &RefreshService{
		resolver:    resolver,
		store:       store,
		fetchers:    fetchers,
		concurrency: concurrency,
		log:         log,
	}
}

// NewRefreshServiceFromRegistry merakit pipeline refresh dari registry global
// dan konfigurasi server: satu fetcher HTTP per platform dengan kebijakan
// retry dari konfigurasi.
func NewRefreshServiceFromRegistry() (*RefreshService, error) {
	resolver, err := orgsvc.NewPopulationServiceFromRegistry()
	if err != nil {
		return nil, fmt.Errorf("membuat PopulationService: %w", err)
	}
	contents, err := contentsvc.NewContentServiceFromRegistry()
	if err != nil {
		return nil, fmt.Errorf("membuat ContentService: %w", err)
	}

	cfg := global.ServerConfig
	if cfg == nil {
		return nil, common.ErrConfiguration
	}

	policy := fetcher.Policy{
		MaxAttempts: cfg.FetchMaxAttempts,
		BackoffBase: time.Duration(cfg.FetchBackoffBaseMs) * time.Millisecond,
	}
	fetchers := map[string]engagementFetcher{}
	for _, platform := range []string{orgmodels.PlatformInstagram, orgmodels.PlatformTiktok} {
		client := fetcher.NewHTTPPlatformClient(cfg.EngagementAPIBaseURL, platform)
		fetchers[platform] = fetcher.NewClient(client, policy, nil)
	}

	return NewRefreshService(resolver, contents, fetchers, cfg.FetchConcurrency, nil), nil
}

// RefreshUnit mengambil ulang engagement seluruh konten hari ini milik satuan,
// menggabungkan daftar pengecualian, dan menulis snapshot.
//
// Konten diproses paralel terbatas (pool seukuran concurrency); tiap konten
// menulis ke kunci snapshot berbeda sehingga aman tanpa locking aplikasi.
// Pembatalan ctx menghentikan penjadwalan konten berikutnya; fetch yang sedang
// berjalan dibiarkan selesai. Konten yang gagal di-fetch terdegradasi menjadi
// himpunan kosong tanpa menghentikan batch; error penyimpanan menghentikan run
// satuan ini saja.
func (s *RefreshService) RefreshUnit(ctx context.Context, unitID string, roleFlag string, now time.Time) (*RefreshResult, error) {
	pop, err := s.resolver.Resolve(ctx, unitID, roleFlag)
	if err != nil {
		return nil, err
	}

	scopeUnitID := orgmodels.CanonicalUnitID(unitID)
	if pop.Unit != nil {
		scopeUnitID = orgmodels.CanonicalUnitID(pop.Unit.UnitID)
	}

	exemptByPlatform := collectExemptHandles(pop.Members)

	contents, err := s.store.FindTodayContent(ctx, scopeUnitID, now)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{UnitID: scopeUnitID, ContentCount: len(contents)}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	sem := make(chan struct{}, s.concurrency)

	for _, item := range contents {
		// Stop menjadwalkan bila ctx batal atau storage sudah gagal
		mu.Lock()
		aborted := firstErr != nil
		mu.Unlock()
		if aborted || ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(item contentmodels.ContentItem) {
			defer wg.Done()
			defer func() { <-sem }()

			snapshots, failures, err := s.refreshContent(ctx, &item, exemptByPlatform, now)
			mu.Lock()
			defer mu.Unlock()
			result.SnapshotCount += snapshots
			result.FetchFailures += failures
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}(item)
	}

	wg.Wait()

	if firstErr != nil {
		return result, firstErr
	}
	return result, nil
}

// refreshContent mengambil dua jenis aksi untuk satu konten dan menulis
// snapshotnya. Mengembalikan jumlah snapshot tertulis dan jumlah fetch gagal.
func (s *RefreshService) refreshContent(ctx context.Context, item *contentmodels.ContentItem, exemptByPlatform map[string]handleset.Set, now time.Time) (int, int, error) {
	platform := item.Platform
	if platform == "" {
		platform = orgmodels.PlatformInstagram
	}

	fetcher, ok := s.fetchers[platform]
	if !ok {
		return 0, 0, common.NewError(
			common.ErrCodeConfiguration,
			"Tidak ada fetcher untuk platform "+platform,
			common.StatusInternalServerError,
			nil,
		)
	}

	exempt := exemptByPlatform[platform]
	if exempt == nil {
		exempt = handleset.New()
	}

	written := 0
	failures := 0
	actions := []struct {
		actionType string
		fetch      func(context.Context, string) (handleset.Set, error)
	}{
		{contentmodels.ActionLike, fetcher.FetchEngagementSet},
		{contentmodels.ActionComment, fetcher.FetchCommentSet},
	}

	for _, action := range actions {
		set, err := action.fetch(ctx, item.ContentID)
		fetchFailed := false
		if err != nil {
			if !common.IsFetchFailed(err) {
				return written, failures, err
			}
			// Retry habis: konten ini dihitung kosong, batch jalan terus
			failures++
			fetchFailed = true
			set = handleset.New()
			s.log.WithError(err).WithFields(logrus.Fields{
				"component":  "compliance",
				"contentId":  item.ContentID,
				"actionType": action.actionType,
			}).Warn("📊 [COMPLIANCE] Fetch gagal, snapshot kosong ditulis sebagai degradasi")
		}

		merged := handleset.MergeExceptions(set, exempt)
		if _, err := s.store.UpsertSnapshot(ctx, item.ContentID, action.actionType, merged, now, fetchFailed); err != nil {
			return written, failures, err
		}
		written++
	}

	return written, failures, nil
}

// collectExemptHandles mengelompokkan handle personel exempt per platform.
func collectExemptHandles(members []orgmodels.Personnel) map[string]handleset.Set {
	out := map[string]handleset.Set{}
	for _, m := range members {
		if !m.Exempt {
			continue
		}
		for platform, handle := range m.Handles {
			if handle == "" {
				continue
			}
			if out[platform] == nil {
				out[platform] = handleset.New()
			}
			out[platform].Add(handle)
		}
	}
	return out
}
