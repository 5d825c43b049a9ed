package delivery

import (
	"context"
	"errors"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicero78M/Update-User-sub004/internal/report"
)

type fakeHistoryStore struct {
	records []DispatchRecord
}

func (f *fakeHistoryStore) InsertOne(ctx context.Context, data DispatchRecord) (DispatchRecord, error) {
	f.records = append(f.records, data)
	return data, nil
}

func newTestDispatcher(history *fakeHistoryStore, chatIDs []string, send sendFunc) *Dispatcher {
	log, _ := logrustest.NewNullLogger()
	d := NewDispatcher(history, "token", chatIDs, log)
	d.send = send
	return d
}

func TestDispatchReportRecordsHistory(t *testing.T) {
	history := &fakeHistoryStore{}
	sentTo := []string{}
	d := newTestDispatcher(history, []string{"-100", "-200"}, func(ctx context.Context, botToken string, chatID string, text string) error {
		sentTo = append(sentTo, chatID)
		return nil
	})

	sent, err := d.DispatchReport(context.Background(), &report.Payload{UnitID: "DITBINMAS", Text: "laporan"})
	require.NoError(t, err)

	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"-100", "-200"}, sentTo)
	require.Len(t, history.records, 2)
	assert.Equal(t, DispatchStatusSent, history.records[0].Status)
	assert.Equal(t, "DITBINMAS", history.records[0].UnitID)
}

func TestDispatchReportContinuesAfterFailure(t *testing.T) {
	// Chat pertama gagal; chat kedua tetap dikirim dan keduanya tercatat
	history := &fakeHistoryStore{}
	d := newTestDispatcher(history, []string{"-100", "-200"}, func(ctx context.Context, botToken string, chatID string, text string) error {
		if chatID == "-100" {
			return errors.New("bot diblokir")
		}
		return nil
	})

	sent, err := d.DispatchReport(context.Background(), &report.Payload{UnitID: "DITBINMAS", Text: "laporan"})
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	require.Len(t, history.records, 2)
	assert.Equal(t, DispatchStatusFailed, history.records[0].Status)
	assert.Equal(t, "bot diblokir", history.records[0].Error)
	assert.Equal(t, DispatchStatusSent, history.records[1].Status)
}

func TestDispatchReportNilHistory(t *testing.T) {
	d := newTestDispatcher(nil, []string{"-100"}, func(ctx context.Context, botToken string, chatID string, text string) error {
		return nil
	})
	// history nil bukan error, hanya tidak dicatat
	d.history = nil

	sent, err := d.DispatchReport(context.Background(), &report.Payload{UnitID: "POLRES A", Text: "laporan"})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}
