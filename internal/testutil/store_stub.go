// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"

	"even/internal/storage"
)

// StoreStub is an in-memory storage.Store.
type StoreStub struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	// PutErr, when set, is returned by every Put.
	PutErr error
}

var _ storage.Store = (*StoreStub)(nil)

// NewStoreStub creates an empty in-memory store.
func NewStoreStub() *StoreStub {
	return &StoreStub{objects: map[string][]byte{}, types: map[string]string{}}
}

// Put records data under key and returns a fake URL.
func (s *StoreStub) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	s.types[key] = contentType
	return "http://store.test/" + key, nil
}

// Delete removes key.
func (s *StoreStub) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.objects, key)
	delete(s.types, key)
	return nil
}

// Object returns the stored bytes and content type for key.
func (s *StoreStub) Object(key string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, "", errors.New("no such object")
	}
	return data, s.types[key], nil
}

// Keys lists every stored key.
func (s *StoreStub) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t interface {
	Helper()
	Fatalf(string, ...any)
}, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
