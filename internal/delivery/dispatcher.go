// Package delivery mengirim laporan kepatuhan keluar dan mencatat riwayatnya.
package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	basesvc "github.com/cicero78M/Update-User-sub004/internal/api/base/service"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/delivery/channels"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/logger"
	"github.com/cicero78M/Update-User-sub004/internal/report"
)

// historyStore adalah irisan BaseServiceMongo yang dipakai pencatat riwayat.
type historyStore interface {
	InsertOne(ctx context.Context, data DispatchRecord) (DispatchRecord, error)
}

// sendFunc memungkinkan test mengganti kanal Telegram asli.
type sendFunc func(ctx context.Context, botToken string, chatID string, text string) error

// Dispatcher mengirim teks laporan ke daftar chat Telegram. Kegagalan satu
// chat dicatat dan tidak menghentikan pengiriman ke chat lainnya.
type Dispatcher struct {
	history  historyStore
	botToken string
	chatIDs  []string
	send     sendFunc
	log      *logrus.Logger
}

// NewDispatcher membuat dispatcher. history boleh nil (riwayat tidak dicatat,
// misalnya saat collection belum terdaftar). log boleh nil.
func NewDispatcher(history historyStore, botToken string, chatIDs []string, log *logrus.Logger) *Dispatcher {
	if log == nil {
		log = logger.GetAppLogger()
	}
	return &Dispatcher{
		history:  history,
		botToken: botToken,
		chatIDs:  chatIDs,
		send:     channels.SendTelegram,
		log:      log,
	}
}

// NewDispatcherFromRegistry merakit dispatcher dari konfigurasi server dan
// registry collection. Mengembalikan nil bila Telegram tidak dikonfigurasi.
func NewDispatcherFromRegistry() (*Dispatcher, error) {
	cfg := global.ServerConfig
	if cfg == nil {
		return nil, common.ErrConfiguration
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramChatIDs == "" {
		return nil, nil
	}

	chatIDs := []string{}
	for _, id := range strings.Split(cfg.TelegramChatIDs, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			chatIDs = append(chatIDs, trimmed)
		}
	}

	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.DispatchHistory)
	if !exist {
		return nil, fmt.Errorf("collection %s tidak ditemukan: %w", global.MongoDB_ColNames.DispatchHistory, common.ErrNotFound)
	}

	return NewDispatcher(
		basesvc.NewBaseServiceMongo[DispatchRecord](coll),
		cfg.TelegramBotToken,
		chatIDs,
		nil,
	), nil
}

// DispatchReport mengirim teks laporan ke semua chat terdaftar dan mencatat
// riwayat per chat. Mengembalikan jumlah pengiriman yang berhasil.
func (d *Dispatcher) DispatchReport(ctx context.Context, payload *report.Payload) (int, error) {
	sent := 0
	for _, chatID := range d.chatIDs {
		err := d.send(ctx, d.botToken, chatID, payload.Text)

		record := DispatchRecord{
			UnitID:  payload.UnitID,
			Channel: "telegram",
			ChatID:  chatID,
			Status:  DispatchStatusSent,
			SentAt:  time.Now().UnixMilli(),
		}
		if err != nil {
			record.Status = DispatchStatusFailed
			record.Error = err.Error()
			d.log.WithError(err).WithFields(logrus.Fields{
				"component": "delivery",
				"unitId":    payload.UnitID,
				"chatID":    chatID,
			}).Error("📨 [DELIVERY] Gagal mengirim laporan, lanjut ke chat berikutnya")
		} else {
			sent++
		}

		if d.history != nil {
			if _, histErr := d.history.InsertOne(ctx, record); histErr != nil {
				d.log.WithError(histErr).WithFields(logrus.Fields{
					"component": "delivery",
					"chatID":    chatID,
				}).Warn("📨 [DELIVERY] Gagal mencatat riwayat pengiriman")
			}
		}
	}

	d.log.WithFields(logrus.Fields{
		"component": "delivery",
		"unitId":    payload.UnitID,
		"sent":      sent,
		"total":     len(d.chatIDs),
	}).Info("📨 [DELIVERY] Pengiriman laporan selesai")
	return sent, nil
}
