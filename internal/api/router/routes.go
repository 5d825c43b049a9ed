// Package router mengelola pendaftaran route API dan helper CRUD per collection.
package router

import (
	"github.com/gofiber/fiber/v3"
)

// CRUDHandler mendefinisikan interface handler CRUD yang bisa didaftarkan massal
type CRUDHandler interface {
	InsertOne(c fiber.Ctx) error
	FindOne(c fiber.Ctx) error
	FindOneById(c fiber.Ctx) error
	FindWithPagination(c fiber.Ctx) error
	UpdateById(c fiber.Ctx) error
	DeleteById(c fiber.Ctx) error
	CountDocuments(c fiber.Ctx) error
}

// CRUDConfig mengatur operasi yang diizinkan per collection
type CRUDConfig struct {
	InsOne   bool // Insert One
	FindOne  bool // Find One
	FindById bool // Find By Id
	Paginate bool // Find With Pagination
	UpdById  bool // Update By Id
	DelById  bool // Delete By Id
	Count    bool // Count Documents
}

// Konfigurasi bersama antar domain.
var (
	// ReadOnlyConfig hanya mengizinkan baca.
	ReadOnlyConfig = CRUDConfig{
		FindOne: true, FindById: true, Paginate: true, Count: true,
	}

	// ReadWriteConfig mengizinkan CRUD penuh.
	ReadWriteConfig = CRUDConfig{
		InsOne: true, FindOne: true, FindById: true, Paginate: true,
		UpdById: true, DelById: true, Count: true,
	}
)

// RoutePrefix berisi prefix dasar untuk API
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix membuat RoutePrefix dengan nilai default
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{Base: base, V1: base + "/v1"}
}

// Router mengelola pendaftaran route aplikasi
type Router struct {
	app *fiber.App
}

// NewRouter membuat Router baru
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware mendaftarkan route dengan middleware lewat .Use()
// pada group. Fiber v3 tidak menjalankan middleware yang dioper langsung ke
// router.Get/Post, jadi pendaftaran harus lewat jalur ini.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// RegisterCRUDRoutes mendaftarkan route CRUD sebuah collection sesuai config.
func (r *Router) RegisterCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig) {
	if config.InsOne {
		RegisterRouteWithMiddleware(router, prefix, "POST", "/insert-one", nil, h.InsertOne)
	}
	if config.FindOne {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-one", nil, h.FindOne)
	}
	if config.FindById {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-by-id/:id", nil, h.FindOneById)
	}
	if config.Paginate {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-with-pagination", nil, h.FindWithPagination)
	}
	if config.UpdById {
		RegisterRouteWithMiddleware(router, prefix, "PUT", "/update-by-id/:id", nil, h.UpdateById)
	}
	if config.DelById {
		RegisterRouteWithMiddleware(router, prefix, "DELETE", "/delete-by-id/:id", nil, h.DeleteById)
	}
	if config.Count {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/count", nil, h.CountDocuments)
	}
}
