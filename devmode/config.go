// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devmode

import (
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"

	"github.com/luxfi/devchain/chain/state"
)

// Chain settings devmode reads at every claim initialization.
const (
	// KeyMinWaitTime is the minimum delay, in seconds, before a claim
	// attempt may publish.
	KeyMinWaitTime = "devchain.consensus.min_wait_time"

	// KeyMaxWaitTime is the upper bound, in seconds, of the random claim
	// delay. Zero or unset makes the delay exactly the minimum.
	KeyMaxWaitTime = "devchain.consensus.max_wait_time"

	// KeyValidPublishers restricts claiming to a comma-separated list of
	// node IDs. Unset allows every node.
	KeyValidPublishers = "devchain.consensus.valid_publishers"
)

// config holds the devmode settings as last read from chain state. A value
// missing from state keeps its previous reading, so a chain that drops a
// setting key behaves as if the old value were still set.
type config struct {
	minWaitTime     time.Duration
	maxWaitTime     time.Duration
	validPublishers set.Set[ids.NodeID]
}

// refresh re-reads the settings from view with the current values as
// defaults.
func (c *config) refresh(view state.Reader) {
	settings := state.NewSettings(view)

	c.minWaitTime = secondsSetting(settings, KeyMinWaitTime, c.minWaitTime)
	c.maxWaitTime = secondsSetting(settings, KeyMaxWaitTime, c.maxWaitTime)

	nodeIDs := settings.NodeIDs(KeyValidPublishers, c.validPublishers.List())
	c.validPublishers = set.Of(nodeIDs...)
}

func secondsSetting(settings *state.Settings, key string, def time.Duration) time.Duration {
	secs := settings.Int64(key, int64(def/time.Second))
	return time.Duration(secs) * time.Second
}
