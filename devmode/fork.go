// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devmode

import (
	"github.com/luxfi/ids"
	"github.com/spaolacci/murmur3"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain"
)

var _ devchain.ForkResolver = ForkResolver{}

// ForkResolver prefers the longer chain and breaks equal-height ties with a
// digest of the heads' signer and parent linkage, so every node comparing
// the same pair picks the same winner.
type ForkResolver struct{}

// CompareForks returns true when newHead should replace curHead: at strictly
// greater height, or at equal height with the strictly smaller tie-break
// digest. Equal digests keep the current head.
func (ForkResolver) CompareForks(curHead, newHead *chain.Header) bool {
	if newHead.Height != curHead.Height {
		return newHead.Height > curHead.Height
	}

	curHi, curLo := tieBreakDigest(curHead)
	newHi, newLo := tieBreakDigest(newHead)
	if newHi != curHi {
		return newHi < curHi
	}
	return newLo < curLo
}

// tieBreakDigest hashes the head's signer and parent block ID into a 128-bit
// value, returned as (high, low) words.
func tieBreakDigest(header *chain.Header) (uint64, uint64) {
	data := make([]byte, 0, ids.NodeIDLen+ids.IDLen)
	data = append(data, header.Signer.Bytes()...)
	data = append(data, header.ParentID[:]...)
	return murmur3.Sum128(data)
}
