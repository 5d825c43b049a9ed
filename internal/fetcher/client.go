// Package fetcher membungkus pengambilan data engagement dari platform media
// sosial yang tidak stabil: retry terbatas dengan exponential backoff untuk
// kegagalan transient, gagal langsung untuk kegagalan terminal, dan event
// diagnostik terstruktur untuk setiap percobaan.
package fetcher

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/handleset"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// Page adalah satu halaman hasil fetch: daftar username pelaku aksi dan cursor
// halaman berikutnya ("" berarti halaman habis).
type Page struct {
	Handles    []string
	NextCursor string
}

// PlatformClient adalah kolaborator eksternal yang mengambil data mentah dari
// platform. Implementasi wajib mengembalikan error yang bisa diklasifikasikan
// lewat IsTransient.
type PlatformClient interface {
	// FetchEngagementPage mengambil satu halaman pelaku like/amplifikasi.
	FetchEngagementPage(ctx context.Context, contentID string, cursor string) (Page, error)
	// FetchCommentsPage mengambil satu halaman pelaku komentar.
	FetchCommentsPage(ctx context.Context, contentID string, cursor string) (Page, error)
}

// Policy adalah kebijakan retry yang dieksplisitkan sebagai konfigurasi bernama,
// bukan konstanta tersembunyi.
type Policy struct {
	MaxAttempts int           // Jumlah percobaan maksimal per halaman (default 2)
	BackoffBase time.Duration // Delay awal sebelum retry, dikali dua tiap percobaan (default 1 detik)
}

// DefaultPolicy mengembalikan kebijakan default yang diamati di produksi:
// 2 percobaan per halaman, backoff 1s lalu 2s, 4s, dst.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 2,
		BackoffBase: time.Second,
	}
}

// Client membungkus PlatformClient dengan kebijakan retry.
type Client struct {
	platform PlatformClient
	policy   Policy
	log      *logrus.Logger
}

// NewClient membuat Client baru. log boleh nil (memakai app logger).
func NewClient(platform PlatformClient, policy Policy, log *logrus.Logger) *Client {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy().MaxAttempts
	}
	if policy.BackoffBase <= 0 {
		policy.BackoffBase = DefaultPolicy().BackoffBase
	}
	if log == nil {
		log = logger.GetAppLogger()
	}
	return &Client{
		platform: platform,
		policy:   policy,
		log:      log,
	}
}

// FetchEngagementSet mengambil seluruh halaman pelaku like/amplifikasi untuk
// satu konten dan mengembalikannya sebagai himpunan username ternormalisasi.
// Mengembalikan common.ErrFetchFailed (dengan penyebab terakhir) bila retry
// habis; caller batch harus mencatat kegagalan dan melanjutkan dengan himpunan
// kosong, bukan menghentikan seluruh batch.
func (c *Client) FetchEngagementSet(ctx context.Context, contentID string) (handleset.Set, error) {
	return c.fetchAll(ctx, contentID, "likes", c.platform.FetchEngagementPage)
}

// FetchCommentSet mengambil seluruh halaman pelaku komentar untuk satu konten.
func (c *Client) FetchCommentSet(ctx context.Context, contentID string) (handleset.Set, error) {
	return c.fetchAll(ctx, contentID, "comments", c.platform.FetchCommentsPage)
}

// fetchAll mengikuti cursor sampai habis; setiap halaman melewati fetchPage
// (dengan retry per halaman).
func (c *Client) fetchAll(ctx context.Context, contentID string, action string, fetch func(context.Context, string, string) (Page, error)) (handleset.Set, error) {
	result := handleset.New()
	cursor := ""

	for {
		page, err := c.fetchPage(ctx, contentID, action, cursor, fetch)
		if err != nil {
			return nil, err
		}
		for _, h := range page.Handles {
			result.Add(h)
		}
		if page.NextCursor == "" {
			return result, nil
		}
		cursor = page.NextCursor
	}
}

// fetchPage adalah mesin retry per halaman:
// Attempt(n) -> Success | Transient -> backoff -> Attempt(n+1) | Terminal.
// Setiap percobaan dan kegagalan akhir memancarkan event diagnostik.
func (c *Client) fetchPage(ctx context.Context, contentID string, action string, cursor string, fetch func(context.Context, string, string) (Page, error)) (Page, error) {
	var lastErr error
	backoff := c.policy.BackoffBase

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		page, err := fetch(ctx, contentID, cursor)
		if err == nil {
			if attempt > 1 {
				c.log.WithFields(logrus.Fields{
					"component": "fetcher",
					"contentId": contentID,
					"action":    action,
					"attempt":   attempt,
					"outcome":   "success_after_retry",
				}).Debug("📡 [FETCH] Berhasil setelah retry")
			}
			return page, nil
		}

		lastErr = err

		if !IsTransient(err) {
			c.log.WithError(err).WithFields(logrus.Fields{
				"component": "fetcher",
				"contentId": contentID,
				"action":    action,
				"attempt":   attempt,
				"outcome":   "terminal",
			}).Warn("📡 [FETCH] Kegagalan terminal, tidak di-retry")
			return Page{}, common.NewFetchFailedError(contentID, err)
		}

		if attempt == c.policy.MaxAttempts {
			break
		}

		c.log.WithError(err).WithFields(logrus.Fields{
			"component": "fetcher",
			"contentId": contentID,
			"action":    action,
			"attempt":   attempt,
			"outcome":   "retry",
			"backoff":   backoff.String(),
		}).Warn("📡 [FETCH] Kegagalan transient, akan di-retry")

		select {
		case <-ctx.Done():
			return Page{}, common.NewFetchFailedError(contentID, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	c.log.WithError(lastErr).WithFields(logrus.Fields{
		"component": "fetcher",
		"contentId": contentID,
		"action":    action,
		"attempt":   c.policy.MaxAttempts,
		"outcome":   "exhausted",
	}).Error("📡 [FETCH] Retry habis, konten dihitung kosong oleh caller")

	return Page{}, common.NewFetchFailedError(contentID, lastErr)
}
