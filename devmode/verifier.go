// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devmode

import (
	"bytes"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain"
)

var _ devchain.BlockVerifier = Verifier{}

// Verifier accepts exactly the blocks that carry the devmode marker.
type Verifier struct{}

func (Verifier) VerifyBlock(blk *chain.Block) bool {
	return bytes.Equal(blk.Header.ConsensusTag, Tag)
}
