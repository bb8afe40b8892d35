// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"strconv"
	"strings"

	"github.com/luxfi/ids"
)

// Settings reads typed configuration values from a state view. Lookups are
// tolerant: a missing or malformed value yields the caller's default, never
// an error.
type Settings struct {
	view Reader
}

func NewSettings(view Reader) *Settings {
	return &Settings{view: view}
}

// Int64 returns the integer setting under key, or def when the setting is
// missing or does not parse as a base-10 integer.
func (s *Settings) Int64(key string, def int64) int64 {
	raw, err := s.view.Get(key)
	if err != nil {
		return def
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return def
	}
	return v
}

// String returns the setting under key with surrounding whitespace trimmed,
// or def when the setting is missing.
func (s *Settings) String(key, def string) string {
	raw, err := s.view.Get(key)
	if err != nil {
		return def
	}
	return strings.TrimSpace(string(raw))
}

// NodeIDs returns the comma-separated node ID list stored under key. A
// missing setting yields def. Entries that do not parse as node IDs are
// skipped, so a present-but-empty value means an explicitly empty list.
func (s *Settings) NodeIDs(key string, def []ids.NodeID) []ids.NodeID {
	raw, err := s.view.Get(key)
	if err != nil {
		return def
	}

	parts := strings.Split(string(raw), ",")
	nodeIDs := make([]ids.NodeID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		nodeID, err := ids.NodeIDFromString(part)
		if err != nil {
			continue
		}
		nodeIDs = append(nodeIDs, nodeID)
	}
	return nodeIDs
}
