package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/models"
)

const jsonStoreVersion = 1

type jsonDocument struct {
	Version  int                     `json:"version"`
	Products map[string][]models.Day `json:"products"`
	Changes  []models.ChangeEntry    `json:"changes"`
}

// JSONStore keeps every product's unavailable dates in a single JSON file.
// Writes go to a temporary file that is renamed over the original.
type JSONStore struct {
	path string

	mu  sync.Mutex
	doc *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &jsonDocument{Version: jsonStoreVersion, Products: map[string][]models.Day{}}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage file version (%d) is newer than supported version (%d)", doc.Version, jsonStoreVersion)
	}
	if doc.Products == nil {
		doc.Products = map[string][]models.Day{}
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) GetConfigPath() string { return s.path }

func (s *JSONStore) FetchUnavailableDates(_ context.Context, productID string) ([]models.Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return slices.Clone(s.doc.Products[productID]), nil
}

func (s *JSONStore) PersistUnavailableDates(_ context.Context, productID string, dates []models.Day, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	previous, hadPrevious := s.doc.Products[productID]
	prevChanges := s.doc.Changes

	s.doc.Products[productID] = models.NewDaySet(dates...).Sorted()
	s.doc.Changes = append(slices.Clone(s.doc.Changes), models.ChangeEntry{
		ID:        uuid.New().String(),
		ProductID: productID,
		Reason:    reason,
		DayCount:  len(s.doc.Products[productID]),
		CreatedAt: time.Now().UTC(),
	})

	if err := s.save(); err != nil {
		// keep memory consistent with what is on disk
		if hadPrevious {
			s.doc.Products[productID] = previous
		} else {
			delete(s.doc.Products, productID)
		}
		s.doc.Changes = prevChanges
		return err
	}
	return nil
}

func (s *JSONStore) GetChangeLog(_ context.Context, productID string, limit int) ([]models.ChangeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var out []models.ChangeEntry
	for i := len(s.doc.Changes) - 1; i >= 0; i-- {
		if s.doc.Changes[i].ProductID != productID {
			continue
		}
		out = append(out, s.doc.Changes[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
