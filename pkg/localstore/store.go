// Package localstore persists user-authored species in a flat JSON file
// next to the application data. These records carry no taxon id, never go
// through enrichment, and are the only species the user may delete.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/species"
)

// Store reads and writes the user-species file. All operations rewrite the
// whole file; the data set is tiny.
type Store struct {
	mu     sync.Mutex
	path   string
	logger zerolog.Logger
}

// ErrNoTitle rejects records that cannot be addressed for later deletion.
var ErrNoTitle = errors.New("localstore: record has no title")

// New creates a store over the given file path. The file need not exist
// yet.
func New(path string) *Store {
	return &Store{
		path:   path,
		logger: logging.NewLogger("localstore"),
	}
}

// Load returns all user-authored records. A missing file is an empty
// store, not an error. Every returned record is tagged with the local
// provenance regardless of what the file says.
func (s *Store) Load() ([]*species.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]*species.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localstore: read %s: %w", s.path, err)
	}

	var records []*species.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("localstore: parse %s: %w", s.path, err)
	}
	for _, r := range records {
		r.Provenance = species.ProvenanceLocal
	}
	return records, nil
}

func (s *Store) save(records []*species.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("localstore: write %s: %w", s.path, err)
	}
	return nil
}

// Add appends one user-authored record. The record is forced to local
// provenance and must carry a title.
func (s *Store) Add(record *species.Record) error {
	if record == nil || record.Title == "" {
		return ErrNoTitle
	}
	record.Provenance = species.ProvenanceLocal
	record.AphiaID = 0

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, record)
	if err := s.save(records); err != nil {
		return err
	}

	s.logger.Info().Str("title", record.Title).Msg("Added user species")
	return nil
}

// Remove deletes the user-authored records with the given title. It
// reports whether anything was removed.
func (s *Store) Remove(title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return false, err
	}

	kept := records[:0]
	for _, r := range records {
		if r.Title != title {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	if err := s.save(kept); err != nil {
		return false, err
	}
	s.logger.Info().Str("title", title).Msg("Removed user species")
	return true, nil
}
