// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package manager

import (
	"math/rand"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain"
	"github.com/luxfi/devchain/utils/timer/mockable"
)

// DefaultPollInterval is the claim-eligibility polling cadence used when the
// config does not set one.
const DefaultPollInterval = 100 * time.Millisecond

// BatchSource supplies the transaction batches a claimed block carries.
type BatchSource interface {
	PendingBatches() []chain.Batch
}

// BatchSourceFunc adapts a function to the BatchSource interface.
type BatchSourceFunc func() []chain.Batch

func (f BatchSourceFunc) PendingBatches() []chain.Batch {
	return f()
}

// Config collects the parameters of a chain manager.
type Config struct {
	// Log receives lifecycle and per-claim events. Defaults to no-op.
	Log log.Logger

	// NodeID signs blocks claimed by this manager. Required.
	NodeID ids.NodeID

	// GenesisStateRoot is the state root the chain starts from while the
	// store is empty. Consensus settings are read from under it.
	GenesisStateRoot ids.ID

	// PollInterval is the cadence of claim-eligibility checks. Defaults to
	// DefaultPollInterval.
	PollInterval time.Duration

	// BatchSource supplies the payload of claimed blocks. A nil source
	// claims empty blocks.
	BatchSource BatchSource

	// Batches is handed to the consensus mode so it can submit its own
	// batches. Optional; devmode never uses it.
	Batches devchain.BatchPublisher

	// Registry resolves the consensus mode named in chain state. Defaults
	// to devchain.DefaultRegistry.
	Registry *devchain.Registry

	// Registerer collects manager metrics. Defaults to a fresh registry.
	Registerer metric.Registerer

	// Clock times claim attempts and stamps candidate headers. Defaults to
	// the wall clock.
	Clock *mockable.Clock

	// Rand drives the publisher's wait sampling. Hosts pass a fixed seed
	// for reproducible timing.
	Rand *rand.Rand
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = log.NewNoOpLogger()
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Registry == nil {
		c.Registry = devchain.DefaultRegistry
	}
	if c.Registerer == nil {
		c.Registerer = metric.NewRegistry()
	}
	if c.Clock == nil {
		c.Clock = &mockable.Clock{}
	}
	return c
}
