// Package store persists named option presets in a Badger database.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"submerge/internal/domain/merge"
	"submerge/internal/errors"
)

const (
	presetPrefix = "preset:"
	namePrefix   = "preset_name:"
)

// Preset is a named, reusable options record.
type Preset struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Options     merge.Options `json:"options"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Store wraps a Badger database holding presets. Preset names are unique
// case-insensitively, enforced through an index key per name.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the database in dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	return open(opts, logger)
}

// OpenInMemory opens a throwaway database for tests.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preset database: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Info("preset database opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreatePreset stores a new preset. The ID and timestamps are assigned
// here; the name must not collide with an existing preset.
func (s *Store) CreatePreset(p Preset) (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Preset{}, errors.Config("preset name must not be empty")
	}
	if err := p.Options.Validate(); err != nil {
		return Preset{}, err
	}

	id, err := newID()
	if err != nil {
		return Preset{}, err
	}
	p.ID = id
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nameKey(p.Name)); err == nil {
			return errors.Configf("preset name already in use: %s", p.Name)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return writePreset(txn, p)
	})
	if err != nil {
		return Preset{}, err
	}
	s.logger.Info("preset created", "id", p.ID, "name", p.Name)
	return p, nil
}

// GetPreset loads one preset by ID.
func (s *Store) GetPreset(id string) (Preset, error) {
	var p Preset
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		p, err = readPreset(txn, id)
		return err
	})
	if err != nil {
		return Preset{}, err
	}
	return p, nil
}

// GetPresetByName loads one preset by its case-insensitive name.
func (s *Store) GetPresetByName(name string) (Preset, error) {
	var p Preset
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nameKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.NotFoundf("preset not found: %s", strings.TrimSpace(name))
		} else if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			p, err = readPreset(txn, string(val))
			return err
		})
	})
	if err != nil {
		return Preset{}, err
	}
	return p, nil
}

// ListPresets returns all presets ordered by name.
func (s *Store) ListPresets() ([]Preset, error) {
	var out []Preset
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(presetPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek([]byte(presetPrefix)); it.ValidForPrefix([]byte(presetPrefix)); it.Next() {
			var p Preset
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			})
			if err != nil {
				return fmt.Errorf("decode preset: %w", err)
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// UpdatePreset replaces the stored preset with the same ID. Renames keep
// the name index consistent.
func (s *Store) UpdatePreset(p Preset) (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Preset{}, errors.Config("preset name must not be empty")
	}
	if err := p.Options.Validate(); err != nil {
		return Preset{}, err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		old, err := readPreset(txn, p.ID)
		if err != nil {
			return err
		}
		if item, err := txn.Get(nameKey(p.Name)); err == nil {
			var ownerID string
			if err := item.Value(func(val []byte) error {
				ownerID = string(val)
				return nil
			}); err != nil {
				return err
			}
			if ownerID != p.ID {
				return errors.Configf("preset name already in use: %s", p.Name)
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if !strings.EqualFold(old.Name, p.Name) {
			if err := txn.Delete(nameKey(old.Name)); err != nil {
				return err
			}
		}
		p.CreatedAt = old.CreatedAt
		p.UpdatedAt = time.Now().UTC()
		return writePreset(txn, p)
	})
	if err != nil {
		return Preset{}, err
	}
	s.logger.Info("preset updated", "id", p.ID, "name", p.Name)
	return p, nil
}

// DeletePreset removes a preset and its name index entry.
func (s *Store) DeletePreset(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		p, err := readPreset(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(nameKey(p.Name)); err != nil {
			return err
		}
		return txn.Delete(presetKey(id))
	})
	if err != nil {
		return err
	}
	s.logger.Info("preset deleted", "id", id)
	return nil
}

func writePreset(txn *badger.Txn, p Preset) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if err := txn.Set(presetKey(p.ID), raw); err != nil {
		return err
	}
	return txn.Set(nameKey(p.Name), []byte(p.ID))
}

func readPreset(txn *badger.Txn, id string) (Preset, error) {
	item, err := txn.Get(presetKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Preset{}, errors.NotFoundf("preset not found: %s", id)
	} else if err != nil {
		return Preset{}, err
	}
	var p Preset
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &p)
	})
	if err != nil {
		return Preset{}, fmt.Errorf("decode preset: %w", err)
	}
	return p, nil
}

func presetKey(id string) []byte { return []byte(presetPrefix + id) }

func nameKey(name string) []byte {
	return []byte(namePrefix + strings.ToLower(strings.TrimSpace(name)))
}

func newID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate preset id: %w", err)
	}
	return "pre_" + id, nil
}
