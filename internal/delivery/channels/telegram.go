// Package channels berisi kanal pengiriman laporan keluar.
package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cicero78M/Update-User-sub004/internal/logger"
)

// SendTelegram mengirim satu pesan teks ke chat Telegram via Bot API.
// Teks laporan memakai format Markdown (bold bintang tunggal).
func SendTelegram(ctx context.Context, botToken string, chatID string, text string) error {
	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"chatID": chatID,
	}).Info("📱 [TELEGRAM] Mulai mengirim pesan Telegram")

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", botToken)

	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": true,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"chatID": chatID,
		}).Error("📱 [TELEGRAM] Gagal memanggil Telegram API")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.WithFields(map[string]interface{}{
			"chatID":     chatID,
			"statusCode": resp.StatusCode,
			"response":   string(bodyBytes),
		}).Error("📱 [TELEGRAM] Telegram API mengembalikan error")
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	log.WithFields(map[string]interface{}{
		"chatID": chatID,
	}).Info("📱 [TELEGRAM] Pesan terkirim")
	return nil
}
