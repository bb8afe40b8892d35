// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state exposes read-only views of world state keyed by state root,
// and a tolerant settings accessor on top of them. Consensus only reads
// state; writes happen through the host's execution path, or through
// WriteSettings when seeding genesis configuration.
package state

import (
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/ids"
)

// Reader is the read surface of a state view.
type Reader interface {
	// Get returns the raw value stored under key. Missing keys report
	// database.ErrNotFound.
	Get(key string) ([]byte, error)
}

// View reads the keyspace of a single state root.
type View struct {
	db database.Database
}

var _ Reader = (*View)(nil)

func (v *View) Get(key string) ([]byte, error) {
	return v.db.Get([]byte(key))
}

// Factory opens views of world state. Each root owns a disjoint prefix of
// the shared database, so views of different roots never observe each
// other's keys.
type Factory struct {
	db database.Database
}

func NewFactory(db database.Database) *Factory {
	return &Factory{db: db}
}

// NewView opens the view rooted at root. Opening never fails for an unknown
// root; such a view is simply empty and every read reports
// database.ErrNotFound.
func (f *Factory) NewView(root ids.ID) (Reader, error) {
	return &View{db: prefixdb.New(root[:], f.db)}, nil
}

// WriteSettings stores raw setting values under root. Hosts use it to seed
// the configuration a chain starts from.
func WriteSettings(db database.Database, root ids.ID, values map[string]string) error {
	store := prefixdb.New(root[:], db)
	for key, value := range values {
		if err := store.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("writing setting %q: %w", key, err)
		}
	}
	return nil
}
