// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devchain

import (
	"context"

	"github.com/luxfi/ids"

	"github.com/luxfi/devchain/chain"
	"github.com/luxfi/devchain/chain/state"
)

// BlockPublisher decides when the local node may claim a block. The host
// serializes the lifecycle per candidate: InitializeBlock once, then
// CheckPublishBlock polls until it reports true or the candidate is
// abandoned, then FinalizeBlock exactly once for a claimed candidate.
// Implementations may keep state between those calls and are not required
// to tolerate concurrent use.
type BlockPublisher interface {
	// InitializeBlock prepares a claim attempt for the candidate header.
	// The publisher reads its configuration from the state root of the
	// current chain head, or from the candidate's own state root when no
	// head exists yet, and stamps the candidate with the mode's consensus
	// marker.
	InitializeBlock(ctx context.Context, candidate *chain.Header) error

	// CheckPublishBlock reports whether the candidate may be claimed now.
	// It must stay cheap; hosts call it at their polling cadence.
	CheckPublishBlock(candidate *chain.Header) bool

	// FinalizeBlock applies any consensus data the candidate still needs
	// before the host seals and broadcasts it.
	FinalizeBlock(candidate *chain.Header) error
}

// BlockVerifier checks that a received block was produced under this
// consensus mode. It is stateless and safe for concurrent use.
type BlockVerifier interface {
	VerifyBlock(blk *chain.Block) bool
}

// ForkResolver orders two competing chain heads. CompareForks returns true
// when the node should switch to newHead. The comparison is a pure function
// of the two headers: every node comparing the same pair reaches the same
// answer, in either argument order.
type ForkResolver interface {
	CompareForks(curHead, newHead *chain.Header) bool
}

// HeaderStore is the read surface consensus has on the locally accepted
// chain. The host owns writes.
type HeaderStore interface {
	// ChainHead returns the header of the current canonical head, or nil
	// before the first block is accepted.
	ChainHead() *chain.Header

	// GetHeader returns the header sealed into the block with the given ID.
	// It returns database.ErrNotFound when the block is unknown.
	GetHeader(blkID ids.ID) (*chain.Header, error)
}

// ViewFactory opens read-only views of world state at a given root.
type ViewFactory interface {
	NewView(root ids.ID) (state.Reader, error)
}

// BatchPublisher lets consensus inject transaction batches into the pending
// queue. The development mode never uses it; the handle exists so modes that
// produce consensus-originated batches can be built against the same factory
// surface.
type BatchPublisher interface {
	Send(batches []chain.Batch) error
}
