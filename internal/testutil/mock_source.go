// Package testutil provides fixtures for connector authentication tests
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// MockSource is an in-memory auth document source that counts reads.
// It satisfies connectorauth.Source.
type MockSource struct {
	mu    sync.Mutex
	name  string
	data  []byte
	err   error
	reads int
}

// NewMockSource creates a mock source serving doc
func NewMockSource(doc string) *MockSource {
	return &MockSource{name: "mock", data: []byte(doc)}
}

// WithName sets the name reported by Name
func (m *MockSource) WithName(name string) *MockSource {
	m.name = name
	return m
}

// WithError makes every read fail with err
func (m *MockSource) WithError(err error) *MockSource {
	m.err = err
	return m
}

// SetDocument replaces the served document
func (m *MockSource) SetDocument(doc string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = []byte(doc)
}

// Name implements connectorauth.Source
func (m *MockSource) Name() string {
	return m.name
}

// Read implements connectorauth.Source
func (m *MockSource) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	return append([]byte(nil), m.data...), nil
}

// Reads returns how many times Read was called
func (m *MockSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// WriteAuthFile writes doc to a temporary auth file and returns its path
func WriteAuthFile(t testing.TB, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample_auth.toml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("failed to write auth file: %v", err)
	}
	return path
}
