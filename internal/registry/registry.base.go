// Package registry menyediakan implementasi registry pattern dengan generic type.
// Dipakai untuk mengelola singleton instances (collection MongoDB, database, service)
// secara thread-safe di seluruh aplikasi.
package registry

import (
	"fmt"
	"sync"

	"github.com/cicero78M/Update-User-sub004/internal/common"
)

// Registry adalah implementasi generic registry yang thread-safe.
// Type parameter T menentukan jenis objek yang dikelola.
type Registry[T any] struct {
	items map[string]T // Map penyimpanan item berdasarkan key
	mu    sync.RWMutex // Mutex untuk menjamin thread-safety
}

// NewRegistry membuat registry baru yang sudah terinisialisasi.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register mendaftarkan item baru ke registry.
// Item dengan name yang sama akan ditimpa.
//
// Returns:
//   - isNew: true bila item baru, false bila menimpa item lama
//   - err: error bila name kosong
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get mengambil item berdasarkan nama.
// Mengembalikan zero value dari T bila item tidak ada.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// GetOrCreate mengambil item berdasarkan nama, membuat lewat creator bila belum ada.
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existingItem, exists := r.items[name]; exists {
		return existingItem, nil
	}

	newItem, err := creator()
	if err != nil {
		return item, fmt.Errorf("failed to create item: %w", err)
	}

	r.items[name] = newItem
	return newItem, nil
}

// Clear menghapus satu item dari registry.
// Bila cleanup diberikan, dipanggil sebelum penghapusan untuk melepas resource.
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[name]
	if !exists {
		return false, nil
	}

	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("failed to cleanup item %s: %w", name, err)
		}
	}

	delete(r.items, name)
	return true, nil
}

// ClearAll menghapus seluruh item dalam registry.
// Bila cleanup diberikan, dipanggil untuk setiap item sebelum penghapusan.
func (r *Registry[T]) ClearAll(cleanup func(T) error) (count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count = len(r.items)
	if count == 0 {
		return 0, nil
	}

	if cleanup != nil {
		var errs []error
		for name, item := range r.items {
			if err := cleanup(item); err != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup %s: %w", name, err))
			}
		}
		if len(errs) > 0 {
			return 0, fmt.Errorf("cleanup errors occurred: %v", errs)
		}
	}

	r.items = make(map[string]T)
	return count, nil
}
