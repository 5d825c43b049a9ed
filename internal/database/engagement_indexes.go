// Package database - Index untuk domain engagement: kunci upsert konten/snapshot dan
// index lookup satuan/personel.
package database

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cicero78M/Update-User-sub004/internal/global"
)

// CreateEngagementIndexes membuat index yang menopang semantik upsert-by-key:
// unique index contentId dan compound unique (contentId, actionType) adalah
// kontrak "insert-or-replace" yang diandalkan layer store.
func CreateEngagementIndexes(ctx context.Context, db *mongo.Database) error {
	// content_items: contentId unique — kunci upsert konten
	contentItems := db.Collection(global.MongoDB_ColNames.ContentItems)
	if _, err := contentItems.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "contentId", Value: 1}},
		Options: options.Index().SetName("content_item_content_id").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// content_items: (unitId, publishedAt) — query "konten hari ini untuk satuan X"
	if _, err := contentItems.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "unitId", Value: 1},
			{Key: "publishedAt", Value: -1},
		},
		Options: options.Index().SetName("content_item_unit_published"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// engagement_snapshots: (contentId, actionType) unique — kunci upsert snapshot,
	// menjamin maksimal satu snapshot current per (konten, jenis aksi)
	snapshots := db.Collection(global.MongoDB_ColNames.EngagementSnapshots)
	if _, err := snapshots.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "contentId", Value: 1},
			{Key: "actionType", Value: 1},
		},
		Options: options.Index().SetName("engagement_snapshot_content_action").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// org_units: unitId unique (kode satuan kanonik upper-case)
	orgUnits := db.Collection(global.MongoDB_ColNames.OrgUnits)
	if _, err := orgUnits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "unitId", Value: 1}},
		Options: options.Index().SetName("org_unit_unit_id").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// org_units: parentUnitId — resolusi direktorat ke satuan anak
	if _, err := orgUnits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "parentUnitId", Value: 1}},
		Options: options.Index().SetName("org_unit_parent").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// org_personnel: (unitId, active) — resolusi populasi per satuan
	personnel := db.Collection(global.MongoDB_ColNames.OrgPersonnel)
	if _, err := personnel.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "unitId", Value: 1},
			{Key: "active", Value: 1},
		},
		Options: options.Index().SetName("org_personnel_unit_active"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// org_personnel: personnelId unique
	if _, err := personnel.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "personnelId", Value: 1}},
		Options: options.Index().SetName("org_personnel_personnel_id").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

// isIndexExistsError memeriksa error "index sudah ada" (aman diabaikan saat bootstrap)
func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "IndexOptionsConflict") ||
		strings.Contains(msg, "IndexKeySpecsConflict") ||
		strings.Contains(msg, "already exists")
}
