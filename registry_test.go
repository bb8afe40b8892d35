// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devchain_test

import (
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain/state"
	"github.com/luxfi/devchain/devmode"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	require := require.New(t)

	registry := devchain.NewRegistry()
	require.NoError(registry.Register(devmode.Name, devmode.Factory{}))

	factory, err := registry.Get(devmode.Name)
	require.NoError(err)
	require.Equal(devmode.Factory{}, factory)

	err = registry.Register(devmode.Name, devmode.Factory{})
	require.ErrorIs(err, devchain.ErrDuplicateMode)

	_, err = registry.Get("poet")
	require.ErrorIs(err, devchain.ErrUnknownMode)
}

func TestRegistryModesSorted(t *testing.T) {
	require := require.New(t)

	registry := devchain.NewRegistry()
	require.NoError(registry.Register("raft", devmode.Factory{}))
	require.NoError(registry.Register(devmode.Name, devmode.Factory{}))
	require.NoError(registry.Register("poet", devmode.Factory{}))

	require.Equal([]string{"devmode", "poet", "raft"}, registry.Modes())
}

func TestRegistryResolve(t *testing.T) {
	require := require.New(t)

	registry := devchain.NewRegistry()
	require.NoError(registry.Register(devmode.Name, devmode.Factory{}))

	db := memdb.New()
	views := state.NewFactory(db)

	configured := ids.GenerateTestID()
	require.NoError(state.WriteSettings(db, configured, map[string]string{
		devchain.KeyAlgorithm: devmode.Name,
	}))

	view, err := views.NewView(configured)
	require.NoError(err)
	factory, err := registry.Resolve(state.NewSettings(view))
	require.NoError(err)
	require.Equal(devmode.Factory{}, factory)

	// An unconfigured root falls back to the default mode.
	view, err = views.NewView(ids.GenerateTestID())
	require.NoError(err)
	factory, err = registry.Resolve(state.NewSettings(view))
	require.NoError(err)
	require.Equal(devmode.Factory{}, factory)

	// A configured but unregistered mode is an error.
	foreign := ids.GenerateTestID()
	require.NoError(state.WriteSettings(db, foreign, map[string]string{
		devchain.KeyAlgorithm: "pbft",
	}))
	view, err = views.NewView(foreign)
	require.NoError(err)
	_, err = registry.Resolve(state.NewSettings(view))
	require.ErrorIs(err, devchain.ErrUnknownMode)
}
