package fetcher

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicero78M/Update-User-sub004/internal/common"
)

// fakePlatform memutar skenario respons per halaman, urut sesuai pemanggilan.
type fakePlatform struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	page Page
	err  error
}

func (f *fakePlatform) next(_ context.Context) (Page, error) {
	if f.calls >= len(f.responses) {
		return Page{}, errors.New("fake: tidak ada respons tersisa")
	}
	r := f.responses[f.calls]
	f.calls++
	return r.page, r.err
}

func (f *fakePlatform) FetchEngagementPage(ctx context.Context, contentID string, cursor string) (Page, error) {
	return f.next(ctx)
}

func (f *fakePlatform) FetchCommentsPage(ctx context.Context, contentID string, cursor string) (Page, error) {
	return f.next(ctx)
}

func newTestClient(platform PlatformClient) (*Client, *logrustest.Hook) {
	log, hook := logrustest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	c := NewClient(platform, Policy{MaxAttempts: 2, BackoffBase: time.Millisecond}, log)
	return c, hook
}

func retryEvents(hook *logrustest.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Data["outcome"] == "retry" {
			out = append(out, e)
		}
	}
	return out
}

func TestFetchTransientThenSuccess(t *testing.T) {
	// Percobaan pertama gagal transient, percobaan kedua berhasil:
	// hasil akhir harus persis payload percobaan kedua, dengan satu event retry.
	platform := &fakePlatform{responses: []fakeResponse{
		{err: syscall.ECONNRESET},
		{page: Page{Handles: []string{"@Budi", "siti_99"}}},
	}}
	client, hook := newTestClient(platform)

	set, err := client.FetchEngagementSet(context.Background(), "vid2")
	require.NoError(t, err)

	assert.Equal(t, 2, platform.calls)
	assert.Equal(t, []string{"budi", "siti_99"}, set.Values())
	assert.Len(t, retryEvents(hook), 1)
}

func TestFetchTerminalNoRetry(t *testing.T) {
	platform := &fakePlatform{responses: []fakeResponse{
		{err: &StatusError{StatusCode: 404, Body: "not found"}},
		{page: Page{Handles: []string{"tidak_boleh_tercapai"}}},
	}}
	client, hook := newTestClient(platform)

	_, err := client.FetchEngagementSet(context.Background(), "vid404")
	require.Error(t, err)

	assert.True(t, common.IsFetchFailed(err))
	assert.Equal(t, 1, platform.calls, "kegagalan terminal tidak boleh di-retry")
	assert.Empty(t, retryEvents(hook))
}

func TestFetchRetryExhausted(t *testing.T) {
	platform := &fakePlatform{responses: []fakeResponse{
		{err: &StatusError{StatusCode: 503, Body: "unavailable"}},
		{err: &StatusError{StatusCode: 503, Body: "unavailable"}},
	}}
	client, _ := newTestClient(platform)

	_, err := client.FetchEngagementSet(context.Background(), "vid503")
	require.Error(t, err)

	assert.True(t, common.IsFetchFailed(err))
	assert.Equal(t, 2, platform.calls)
	var sErr *StatusError
	assert.True(t, errors.As(err, &sErr), "penyebab terakhir harus ikut terbungkus")
}

func TestFetchFollowsCursor(t *testing.T) {
	platform := &fakePlatform{responses: []fakeResponse{
		{page: Page{Handles: []string{"aji"}, NextCursor: "p2"}},
		{page: Page{Handles: []string{"rina", "aji"}}},
	}}
	client, _ := newTestClient(platform)

	set, err := client.FetchCommentSet(context.Background(), "vid1")
	require.NoError(t, err)

	assert.Equal(t, 2, platform.calls)
	assert.Equal(t, []string{"aji", "rina"}, set.Values())
}

func TestFetchContextCanceledIsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	platform := &fakePlatform{responses: []fakeResponse{
		{err: ctx.Err()},
	}}
	client, _ := newTestClient(platform)

	_, err := client.FetchEngagementSet(ctx, "vid9")
	require.Error(t, err)
	assert.Equal(t, 1, platform.calls)
}

func TestIsTransientClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil", nil, false},
		{"status 500", &StatusError{StatusCode: 500}, true},
		{"status 503", &StatusError{StatusCode: 503}, true},
		{"status 404", &StatusError{StatusCode: 404}, false},
		{"status 429", &StatusError{StatusCode: 429}, false},
		{"conn reset", syscall.ECONNRESET, true},
		{"conn refused", syscall.ECONNREFUSED, true},
		{"payload rusak", &MalformedPayloadError{Cause: errors.New("unexpected EOF")}, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.transient, IsTransient(tc.err))
		})
	}
}
