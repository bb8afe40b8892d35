// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chaintest provides block builders and collaborator stubs for
// exercising consensus code against real sealed blocks.
package chaintest

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/devchain/chain"
)

// BuildBlock seals header and the given payloads into a block, failing the
// test on any sealing error.
func BuildBlock(tb testing.TB, header *chain.Header, payloads ...[]byte) *chain.Block {
	tb.Helper()

	batches := make([]chain.Batch, len(payloads))
	for i, payload := range payloads {
		batches[i] = chain.Batch{Payload: payload}
	}
	header.BatchRoot = chain.BatchRoot(batches)

	blk, err := chain.NewBlock(header, batches)
	require.NoError(tb, err)
	return blk
}

// Genesis seals an untagged height-0 block carrying root as its state root.
func Genesis(tb testing.TB, root ids.ID, signer ids.NodeID) *chain.Block {
	tb.Helper()

	return BuildBlock(tb, &chain.Header{
		ParentID:  ids.Empty,
		Height:    0,
		StateRoot: root,
		Signer:    signer,
	})
}

// Child seals an untagged empty block extending parent.
func Child(tb testing.TB, parent *chain.Block, signer ids.NodeID) *chain.Block {
	tb.Helper()

	return BuildBlock(tb, &chain.Header{
		ParentID:  parent.ID(),
		Height:    parent.Header.Height + 1,
		Timestamp: parent.Header.Timestamp + 1,
		StateRoot: parent.Header.StateRoot,
		Signer:    signer,
	})
}
