// Package router mendaftarkan route domain content: konten harian dan snapshot.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	contenthdl "github.com/cicero78M/Update-User-sub004/internal/api/content/handler"
	apirouter "github.com/cicero78M/Update-User-sub004/internal/api/router"
)

// Register mendaftarkan seluruh route content pada v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	contentHandler, err := contenthdl.NewContentHandler()
	if err != nil {
		return fmt.Errorf("membuat ContentHandler: %w", err)
	}

	// POST /content/upsert-one — upsert konten berdasarkan contentId
	apirouter.RegisterRouteWithMiddleware(v1, "/content", "POST", "/upsert-one", nil, contentHandler.HandleUpsertContent)

	// POST /content/snapshot/upsert — tulis snapshot engagement (ganti penuh)
	apirouter.RegisterRouteWithMiddleware(v1, "/content", "POST", "/snapshot/upsert", nil, contentHandler.HandleUpsertSnapshot)

	// GET /content/today?unit= — konten hari ini milik satuan
	apirouter.RegisterRouteWithMiddleware(v1, "/content", "GET", "/today", nil, contentHandler.HandleTodayContent)

	// DELETE /content/:contentId — hapus konten + seluruh snapshot (berantai)
	apirouter.RegisterRouteWithMiddleware(v1, "/content", "DELETE", "/:contentId", nil, contentHandler.HandleDeleteContent)

	return nil
}
