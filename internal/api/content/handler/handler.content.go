// Package contenthdl - Handler konten harian dan snapshot engagement.
package contenthdl

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	basehdl "github.com/cicero78M/Update-User-sub004/internal/api/base/handler"
	contentdto "github.com/cicero78M/Update-User-sub004/internal/api/content/dto"
	contentmodels "github.com/cicero78M/Update-User-sub004/internal/api/content/models"
	contentsvc "github.com/cicero78M/Update-User-sub004/internal/api/content/service"
	orgsvc "github.com/cicero78M/Update-User-sub004/internal/api/org/service"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/handleset"
)

// ContentHandler menangani endpoint konten dan snapshot.
type ContentHandler struct {
	ContentService   *contentsvc.ContentService
	PersonnelService *orgsvc.PersonnelService
}

// NewContentHandler membuat ContentHandler baru.
func NewContentHandler() (*ContentHandler, error) {
	contentSvc, err := contentsvc.NewContentServiceFromRegistry()
	if err != nil {
		return nil, fmt.Errorf("membuat ContentService: %w", err)
	}
	personnelSvc, err := orgsvc.NewPersonnelService()
	if err != nil {
		return nil, fmt.Errorf("membuat PersonnelService: %w", err)
	}
	return &ContentHandler{
		ContentService:   contentSvc,
		PersonnelService: personnelSvc,
	}, nil
}

// HandleUpsertContent menangani POST /content/upsert-one
func (h *ContentHandler) HandleUpsertContent(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input contentdto.ContentItemCreateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err))
			return nil
		}

		item, err := h.ContentService.UpsertContentItem(c.Context(), &contentmodels.ContentItem{
			ContentID:   input.ContentID,
			UnitID:      input.UnitID,
			Platform:    input.Platform,
			Caption:     input.Caption,
			URL:         input.URL,
			PublishedAt: input.PublishedAt,
		})
		basehdl.HandleResponse(c, item, err)
		return nil
	})
}

// HandleUpsertSnapshot menangani POST /content/snapshot/upsert.
// Handle mentah dinormalisasi lalu digabung daftar pengecualian satuan pemilik
// konten sebelum disimpan, sehingga snapshot tersimpan sudah mencerminkan
// kebijakan pengecualian.
func (h *ContentHandler) HandleUpsertSnapshot(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input contentdto.SnapshotUpsertInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err))
			return nil
		}

		raw := handleset.New(input.Handles...)

		exempt, err := h.exemptHandlesForContent(c, input.ContentID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		merged := handleset.MergeExceptions(raw, exempt)

		capturedAt := time.Now()
		if input.CapturedAt > 0 {
			capturedAt = time.UnixMilli(input.CapturedAt)
		}

		snapshot, err := h.ContentService.UpsertSnapshot(c.Context(), input.ContentID, input.ActionType, merged, capturedAt, false)
		basehdl.HandleResponse(c, snapshot, err)
		return nil
	})
}

// exemptHandlesForContent mengumpulkan handle personel exempt dari satuan
// pemilik konten, pada platform konten tersebut.
func (h *ContentHandler) exemptHandlesForContent(c fiber.Ctx, contentID string) (handleset.Set, error) {
	exempt := handleset.New()

	contents, err := h.ContentService.FindByContentID(c.Context(), contentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Induk belum ditemukan: tanpa satuan, tidak ada pengecualian yang bisa digabung
			return exempt, nil
		}
		return nil, err
	}
	if contents.UnitID == "" {
		return exempt, nil
	}

	platform := contents.Platform
	if platform == "" {
		platform = "instagram"
	}

	members, err := h.PersonnelService.Find(c.Context(), bson.M{
		"unitId": contents.UnitID,
		"exempt": true,
	}, nil)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if handle := m.HandleFor(platform); handle != "" {
			exempt.Add(handle)
		}
	}
	return exempt, nil
}

// HandleDeleteContent menangani DELETE /content/:contentId — hapus berantai.
func (h *ContentHandler) HandleDeleteContent(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		contentID := c.Params("contentId")
		if contentID == "" {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, "contentId wajib diisi", common.StatusBadRequest, nil))
			return nil
		}

		err := h.ContentService.DeleteContentItem(c.Context(), contentID)
		basehdl.HandleResponse(c, fiber.Map{"deleted": err == nil}, err)
		return nil
	})
}

// HandleTodayContent menangani GET /content/today?unit=
func (h *ContentHandler) HandleTodayContent(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		unitID := c.Query("unit", "")
		if unitID == "" {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, "Parameter unit wajib diisi", common.StatusBadRequest, nil))
			return nil
		}

		items, err := h.ContentService.FindTodayContent(c.Context(), unitID, time.Now())
		basehdl.HandleResponse(c, items, err)
		return nil
	})
}
