// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func newTestSettings(t *testing.T, values map[string]string) *Settings {
	require := require.New(t)

	db := memdb.New()
	root := ids.GenerateTestID()
	require.NoError(WriteSettings(db, root, values))

	view, err := NewFactory(db).NewView(root)
	require.NoError(err)
	return NewSettings(view)
}

func TestSettingsInt64(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   int64
		want  int64
	}{
		{name: "parses", value: "12", def: 3, want: 12},
		{name: "trims whitespace", value: " 7\n", def: 3, want: 7},
		{name: "negative", value: "-4", def: 3, want: -4},
		{name: "malformed", value: "12s", def: 3, want: 3},
		{name: "empty", value: "", def: 3, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := newTestSettings(t, map[string]string{"k": tt.value})
			require.Equal(t, tt.want, settings.Int64("k", tt.def))
		})
	}
}

func TestSettingsString(t *testing.T) {
	require := require.New(t)

	settings := newTestSettings(t, map[string]string{
		"algorithm": " devmode\n",
	})

	require.Equal("devmode", settings.String("algorithm", "other"))
	require.Equal("fallback", settings.String("missing", "fallback"))
}

func TestSettingsMissingKeysUseDefaults(t *testing.T) {
	require := require.New(t)

	settings := newTestSettings(t, nil)

	require.Equal(int64(9), settings.Int64("missing", 9))
	require.Equal("fallback", settings.String("missing", "fallback"))

	def := []ids.NodeID{ids.GenerateTestNodeID()}
	require.Equal(def, settings.NodeIDs("missing", def))
}

func TestSettingsNodeIDs(t *testing.T) {
	require := require.New(t)

	a := ids.GenerateTestNodeID()
	b := ids.GenerateTestNodeID()

	settings := newTestSettings(t, map[string]string{
		"list":  a.String() + ", " + b.String(),
		"dirty": a.String() + ",not-a-node-id, ," + b.String(),
		"empty": "",
	})

	require.Equal([]ids.NodeID{a, b}, settings.NodeIDs("list", nil))
	require.Equal([]ids.NodeID{a, b}, settings.NodeIDs("dirty", nil))

	// A present-but-empty value is an explicitly empty list, not a missing
	// setting.
	require.Empty(settings.NodeIDs("empty", []ids.NodeID{a}))
}
