// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devchain

import (
	"math/rand"

	"github.com/luxfi/log"

	"github.com/luxfi/devchain/utils/timer/mockable"
)

// Options carries the host-owned collaborators a consensus mode is built
// from. Store and Views are required by every mode; the rest default inside
// the factory when left nil.
type Options struct {
	Log log.Logger

	// Store is the host's block store.
	Store HeaderStore

	// Views opens world-state views for setting reads.
	Views ViewFactory

	// Batches is the host's pending-batch queue.
	Batches BatchPublisher

	// Clock is the time source consulted by timing-sensitive modes. A nil
	// clock means wall-clock time.
	Clock *mockable.Clock

	// Rand seeds any randomized behavior of the mode. Hosts pass a fixed
	// seed to make claim timing reproducible.
	Rand *rand.Rand
}

// Factory assembles the consensus capabilities of a single mode.
type Factory interface {
	// NewPublisher creates the mode's block publisher.
	NewPublisher(opts Options) (BlockPublisher, error)

	// NewVerifier creates the mode's block verifier.
	NewVerifier(opts Options) (BlockVerifier, error)

	// NewForkResolver creates the mode's fork resolver.
	NewForkResolver(opts Options) (ForkResolver, error)
}
