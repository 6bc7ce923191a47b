package contract

import "context"

// StorageKey names one independently persisted value of the client session.
type StorageKey string

const (
	KeyUser       StorageKey = "user"
	KeyToken      StorageKey = "token"
	KeyJob        StorageKey = "job"
	KeyCandidates StorageKey = "candidates"
	KeyTheme      StorageKey = "theme"
)

// SessionKeys is every key written by the session store.
var SessionKeys = []StorageKey{KeyUser, KeyToken, KeyJob, KeyCandidates, KeyTheme}

// IStorageRepository is the durable client-side key/value storage.
// A missing key is reported as found == false with a nil error.
type IStorageRepository interface {
	Get(ctx context.Context, key StorageKey) (value string, found bool, err error)
	Set(ctx context.Context, key StorageKey, value string) error
	Delete(ctx context.Context, keys ...StorageKey) error
}
