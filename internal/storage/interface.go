package storage

import "errors"

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue is the minimal persistence capability the offline queue and the
// review dismissal gate depend on. Implementations must survive process
// restarts; the in-memory one exists for tests and degraded operation.
type KeyValue interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
