// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devchain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/luxfi/devchain/chain/state"
)

const (
	// DefaultMode is the consensus mode assumed when state carries no
	// algorithm setting.
	DefaultMode = "devmode"

	// KeyAlgorithm is the chain setting that selects the consensus mode.
	KeyAlgorithm = "devchain.consensus.algorithm"
)

var (
	ErrDuplicateMode = errors.New("consensus mode already registered")
	ErrUnknownMode   = errors.New("unknown consensus mode")
)

// Registry maps consensus mode names to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register installs a mode under its name. Names are claimed once per
// registry; a second registration fails with ErrDuplicateMode.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMode, name)
	}
	r.factories[name] = factory
	return nil
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return factory, nil
}

// Modes returns the registered mode names in lexical order.
func (r *Registry) Modes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modes := slices.Collect(maps.Keys(r.factories))
	slices.Sort(modes)
	return modes
}

// Resolve returns the factory selected by the devchain.consensus.algorithm
// setting, falling back to DefaultMode when the setting is absent or
// malformed.
func (r *Registry) Resolve(settings *state.Settings) (Factory, error) {
	return r.Get(settings.String(KeyAlgorithm, DefaultMode))
}

// DefaultRegistry is the registry used by the package-level helpers. Hosts
// that manage multiple isolated chains can build their own.
var DefaultRegistry = NewRegistry()

// RegisterFactory installs a mode in the default registry.
func RegisterFactory(name string, factory Factory) error {
	return DefaultRegistry.Register(name, factory)
}

// GetFactory fetches a mode from the default registry.
func GetFactory(name string) (Factory, error) {
	return DefaultRegistry.Get(name)
}

// ResolveFactory resolves the active mode from the default registry.
func ResolveFactory(settings *state.Settings) (Factory, error) {
	return DefaultRegistry.Resolve(settings)
}
