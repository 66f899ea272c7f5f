package storage

import (
	gocache "github.com/patrickmn/go-cache"
)

// Compile-time interface check.
var _ Storage = (*Memory)(nil)

// Memory is an in-process Storage. Values never expire.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{store: gocache.New(gocache.NoExpiration, 0)}
}

// Get implements Storage.
func (m *Memory) Get(key string) (string, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set implements Storage.
func (m *Memory) Set(key, value string) error {
	m.store.Set(key, value, gocache.NoExpiration)
	return nil
}

// Remove implements Storage.
func (m *Memory) Remove(key string) error {
	m.store.Delete(key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	return m.store.ItemCount()
}
