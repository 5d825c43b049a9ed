package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap mengubah struct menjadi map lewat round-trip BSON, supaya tag bson
// pada model (omitempty, nama field) ikut dihormati saat membangun dokumen
// update/insert.
func ToMap(s interface{}) (map[string]interface{}, error) {
	var out map[string]interface{}
	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal gagal: %w", err)
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal gagal: %w", err)
	}
	return out, nil
}
