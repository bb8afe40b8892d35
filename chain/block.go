// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"

	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"
)

var (
	errNilHeader         = errors.New("nil header")
	errWrongCodecVersion = errors.New("unsupported codec version")
)

// Header carries the consensus-visible fields of a block. A candidate header
// stays mutable while a claim attempt runs; sealing it into a block fixes the
// canonical bytes and the block ID.
type Header struct {
	ParentID  ids.ID     `serialize:"true" json:"parentID"`
	Height    uint64     `serialize:"true" json:"height"`
	Timestamp int64      `serialize:"true" json:"timestamp"`
	StateRoot ids.ID     `serialize:"true" json:"stateRoot"`
	BatchRoot ids.ID     `serialize:"true" json:"batchRoot"`
	Signer    ids.NodeID `serialize:"true" json:"signer"`

	// ConsensusTag is stamped by the active consensus mode when the header
	// is initialized for publishing and checked by verifiers on receipt.
	ConsensusTag []byte `serialize:"true" json:"consensusTag"`

	// id of the block this header was sealed into. Zero for an unsealed
	// candidate.
	id ids.ID
}

// ID returns the ID of the block carrying this header, or ids.Empty until
// the header has been sealed by NewBlock or ParseBlock.
func (h *Header) ID() ids.ID {
	return h.id
}

// Batch is an opaque group of transactions. Execution is the host's concern;
// consensus only moves batches around.
type Batch struct {
	Payload []byte `serialize:"true" json:"payload"`
}

// ID is the content hash of the batch payload.
func (b *Batch) ID() ids.ID {
	return hash.ComputeHash256Array(b.Payload)
}

// BatchRoot commits to an ordered batch list. An empty list commits to
// ids.Empty.
func BatchRoot(batches []Batch) ids.ID {
	if len(batches) == 0 {
		return ids.Empty
	}
	data := make([]byte, 0, len(batches)*ids.IDLen)
	for i := range batches {
		id := batches[i].ID()
		data = append(data, id[:]...)
	}
	return hash.ComputeHash256Array(data)
}

// Block binds a sealed header to the batches it commits.
type Block struct {
	Header  *Header `serialize:"true" json:"header"`
	Batches []Batch `serialize:"true" json:"batches"`

	id    ids.ID
	bytes []byte
}

// NewBlock seals header and batches into a block, computing the canonical
// bytes and the block ID. The header must not be modified afterwards.
func NewBlock(header *Header, batches []Batch) (*Block, error) {
	if header == nil {
		return nil, errNilHeader
	}

	blk := &Block{
		Header:  header,
		Batches: batches,
	}
	b, err := Codec.Marshal(CodecVersion, blk)
	if err != nil {
		return nil, fmt.Errorf("sealing block: %w", err)
	}

	blk.bytes = b
	blk.id = hash.ComputeHash256Array(b)
	header.id = blk.id
	return blk, nil
}

// ParseBlock decodes a block from its canonical bytes.
func ParseBlock(b []byte) (*Block, error) {
	blk := &Block{}
	version, err := Codec.Unmarshal(b, blk)
	if err != nil {
		return nil, fmt.Errorf("parsing block: %w", err)
	}
	if version != CodecVersion {
		return nil, fmt.Errorf("%w: %d", errWrongCodecVersion, version)
	}

	blk.bytes = b
	blk.id = hash.ComputeHash256Array(b)
	blk.Header.id = blk.id
	return blk, nil
}

// ID returns the block ID.
func (b *Block) ID() ids.ID {
	return b.id
}

// Bytes returns the canonical encoding the block was sealed or parsed with.
func (b *Block) Bytes() []byte {
	return b.bytes
}
