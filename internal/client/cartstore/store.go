// Package cartstore persists the guest cart between sessions. It is
// the equivalent of the browser's local-storage slot: one fixed file,
// read on startup, rewritten after every change.
package cartstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

const fileName = "guest-cart.json"

// Line is one product entry in the guest cart, with enough of a
// product snapshot to price and clamp it offline.
type Line struct {
	ProductID     int64   `json:"productId"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	Quantity      int     `json:"quantity"`
	Image         string  `json:"image,omitempty"`
}

type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store rooted at dir. The file is created lazily on
// first save.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, fileName)}
}

// Load returns the saved lines. A missing or corrupt file reads as an
// empty cart; a stale snapshot must never block the storefront.
func (s *Store) Load() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil
	}
	return lines
}

func (s *Store) Save(lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// Clear removes the file. Called after a successful merge into the
// server cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
