package storage

import (
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore backs KeyValue with one file per key under a base directory.
// Useful where a database file is unwanted, e.g. state synced via dotfiles.
type DiskvStore struct {
	d *diskv.Diskv
}

func NewDiskvStore(basePath string) (*DiskvStore, error) {
	if err := os.MkdirAll(basePath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(s string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (s *DiskvStore) Get(key string) (string, error) {
	val, err := s.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "not found") {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return string(val), nil
}

func (s *DiskvStore) Set(key, value string) error {
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *DiskvStore) Delete(key string) error {
	err := s.d.Erase(key)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (s *DiskvStore) Close() error { return nil }
