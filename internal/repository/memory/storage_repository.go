package memory

import (
	"context"

	"talentify-client/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// StorageRepository keeps the session keys in process memory. Values never expire;
// nothing survives a restart, which suits tests and throwaway kiosk sessions.
type StorageRepository struct {
	cache  *cache.Cache
	prefix string
}

var _ contract.IStorageRepository = (*StorageRepository)(nil)

func NewStorageRepository(prefix string) *StorageRepository {
	return &StorageRepository{
		cache:  cache.New(cache.NoExpiration, 0),
		prefix: prefix,
	}
}

func (r *StorageRepository) Get(_ context.Context, key contract.StorageKey) (string, bool, error) {
	x, found := r.cache.Get(r.prefix + string(key))
	if !found {
		return "", false, nil
	}
	return x.(string), true, nil
}

func (r *StorageRepository) Set(_ context.Context, key contract.StorageKey, value string) error {
	r.cache.Set(r.prefix+string(key), value, cache.NoExpiration)
	return nil
}

func (r *StorageRepository) Delete(_ context.Context, keys ...contract.StorageKey) error {
	for _, key := range keys {
		r.cache.Delete(r.prefix + string(key))
	}
	return nil
}
