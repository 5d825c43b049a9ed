// Package basehdl - base CRUD handler untuk Fiber.
// Menyediakan parsing request, validasi input, dan respons terstandar yang
// dipakai ulang oleh handler domain (org, content, compliance).
package basehdl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	basesvc "github.com/cicero78M/Update-User-sub004/internal/api/base/service"
	"github.com/cicero78M/Update-User-sub004/internal/common"
	"github.com/cicero78M/Update-User-sub004/internal/global"
	"github.com/cicero78M/Update-User-sub004/internal/utility"
)

// FilterOptions adalah konfigurasi validasi filter dari query string
type FilterOptions struct {
	DeniedFields     []string // Field yang tidak boleh difilter
	AllowedOperators []string // Operator MongoDB yang diizinkan
	MaxFields        int      // Jumlah field maksimal dalam satu filter
}

// BaseHandler adalah base handler untuk handler Fiber, menyediakan CRUD dasar.
// Type parameters:
// - T: Tipe data model
// - CreateInput: Tipe input saat membuat baru
// - UpdateInput: Tipe input saat update
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService   basesvc.BaseServiceMongo[T]
	filterOptions FilterOptions
}

// NewBaseHandler membuat BaseHandler baru dengan BaseService yang diberikan
func NewBaseHandler[T any, CreateInput any, UpdateInput any](baseService basesvc.BaseServiceMongo[T]) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		BaseService: baseService,
		filterOptions: FilterOptions{
			DeniedFields: []string{"password", "token", "secret"},
			AllowedOperators: []string{
				"$eq", "$gt", "$gte", "$lt", "$lte", "$in", "$nin", "$exists",
			},
			MaxFields: 10,
		},
	}
}

// ParseRequestBody mem-parse dan memvalidasi request body JSON.
// Memakai json.Decoder dengan UseNumber() supaya angka tidak kehilangan presisi.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}

	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}
	return nil
}

// processFilter mem-parse dan memvalidasi filter dari query string (?filter={...})
func (h *BaseHandler[T, CreateInput, UpdateInput]) processFilter(c fiber.Ctx) (map[string]interface{}, error) {
	var filter map[string]interface{}

	filterStr := c.Query("filter", "{}")
	if err := json.Unmarshal([]byte(filterStr), &filter); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter bukan JSON valid: %v", err),
			common.StatusBadRequest,
			err,
		)
	}

	if err := h.validateFilter(filter); err != nil {
		return nil, err
	}
	return filter, nil
}

// validateFilter menolak field terlarang, operator tak dikenal, dan filter yang terlalu lebar
func (h *BaseHandler[T, CreateInput, UpdateInput]) validateFilter(filter map[string]interface{}) error {
	if len(filter) > h.filterOptions.MaxFields {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Filter maksimal %d field", h.filterOptions.MaxFields),
			common.StatusBadRequest,
			nil,
		)
	}

	for key, value := range filter {
		if utility.Contains(h.filterOptions.DeniedFields, key) {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Field '%s' tidak boleh difilter", key),
				common.StatusBadRequest,
				nil,
			)
		}

		if nested, ok := value.(map[string]interface{}); ok {
			for op := range nested {
				if len(op) > 0 && op[0] == '$' && !utility.Contains(h.filterOptions.AllowedOperators, op) {
					return common.NewError(
						common.ErrCodeValidationInput,
						fmt.Sprintf("Operator '%s' tidak diizinkan", op),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
	}
	return nil
}

// parsePagination membaca page dan limit dari query string dengan default aman
func parsePagination(c fiber.Ctx) (int64, int64) {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// InsertOne menambahkan satu dokumen baru dari request body (DTO CreateInput)
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input CreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := transformInput[T](&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Gagal transform data: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		data, err := h.BaseService.InsertOne(c.Context(), *model)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// transformInput memetakan DTO ke model lewat round-trip JSON (tag json harus cocok)
func transformInput[T any](input interface{}) (*T, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	var model T
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// FindOne mencari satu dokumen berdasarkan filter dari query string
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.BaseService.FindOne(c.Context(), filter, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOneById mencari satu dokumen berdasarkan ID di URI params
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' bukan ObjectID MongoDB yang valid", id),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		oid, _ := primitive.ObjectIDFromHex(id)
		data, err := h.BaseService.FindOneById(c.Context(), oid)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindWithPagination mencari dokumen dengan paginasi (?page=&limit=&filter=)
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithPagination(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, limit := parsePagination(c)
		data, err := h.BaseService.FindWithPagination(c.Context(), filter, page, limit, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// UpdateById meng-update satu dokumen berdasarkan ID dengan body UpdateInput
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' bukan ObjectID MongoDB yang valid", id),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		var input UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		oid, _ := primitive.ObjectIDFromHex(id)
		data, err := h.BaseService.UpdateOne(c.Context(), map[string]interface{}{"_id": oid}, input, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// DeleteById menghapus satu dokumen berdasarkan ID
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' bukan ObjectID MongoDB yang valid", id),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		oid, _ := primitive.ObjectIDFromHex(id)
		err := h.BaseService.DeleteOne(c.Context(), map[string]interface{}{"_id": oid})
		h.HandleResponse(c, fiber.Map{"deleted": err == nil}, err)
		return nil
	})
}

// CountDocuments menghitung dokumen yang cocok dengan filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) CountDocuments(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		count, err := h.BaseService.CountDocuments(c.Context(), filter)
		h.HandleResponse(c, fiber.Map{"count": count}, err)
		return nil
	})
}

// processMongoOptions dipertahankan untuk handler domain yang butuh sort/projection
func (h *BaseHandler[T, CreateInput, UpdateInput]) processMongoOptions(c fiber.Ctx) (*mongoopts.FindOptions, error) {
	opts := mongoopts.Find()

	sortStr := c.Query("sort", "")
	if sortStr == "" {
		return opts, nil
	}

	var sort map[string]interface{}
	if err := json.Unmarshal([]byte(sortStr), &sort); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Sort bukan JSON valid: %v", err),
			common.StatusBadRequest,
			err,
		)
	}
	opts.SetSort(sort)
	return opts, nil
}
