package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/repository/contract"
)

// ErrCorruptStorage is returned by Get when the storage document cannot be
// parsed. Writes replace such a document instead of failing.
var ErrCorruptStorage = errors.New("corrupt storage file")

// fileStorageRepository persists every key in one JSON document on disk.
// Writes go to a temp file first and are renamed into place.
type fileStorageRepository struct {
	mu     sync.Mutex
	path   string
	prefix string
	log    logger.ILogger
}

func NewFileStorageRepository(path, prefix string, log logger.ILogger) (contract.IStorageRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &fileStorageRepository{path: path, prefix: prefix, log: log}, nil
}

func (r *fileStorageRepository) Get(_ context.Context, key contract.StorageKey) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[r.prefix+string(key)]
	return v, ok, nil
}

func (r *fileStorageRepository) Set(_ context.Context, key contract.StorageKey, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, _, err := r.loadForWrite()
	if err != nil {
		return err
	}
	values[r.prefix+string(key)] = value
	return r.save(values)
}

func (r *fileStorageRepository) Delete(_ context.Context, keys ...contract.StorageKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, corrupt, err := r.loadForWrite()
	if err != nil {
		return err
	}
	changed := false
	for _, key := range keys {
		if _, ok := values[r.prefix+string(key)]; ok {
			delete(values, r.prefix+string(key))
			changed = true
		}
	}
	if !changed && !corrupt {
		return nil
	}
	return r.save(values)
}

func (r *fileStorageRepository) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStorage, err)
	}
	return values, nil
}

// loadForWrite treats a corrupt document as empty so the next save replaces it.
func (r *fileStorageRepository) loadForWrite() (map[string]string, bool, error) {
	values, err := r.load()
	if errors.Is(err, ErrCorruptStorage) {
		r.log.Warn("FileStorageRepository", "Discarding corrupt storage file", map[string]interface{}{"path": r.path, "error": err.Error()})
		return make(map[string]string), true, nil
	}
	return values, false, err
}

func (r *fileStorageRepository) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage file: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
