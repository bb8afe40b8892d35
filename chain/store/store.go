// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store keeps blocks and the canonical chain head pointer. It serves
// the read surface consensus needs; all writes stay with the host.
package store

import (
	"fmt"
	"sync"

	"github.com/luxfi/cache"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain"
)

var _ devchain.HeaderStore = (*Store)(nil)

const blockCacheSize = 512

var (
	blockPrefix  = []byte("block")
	heightPrefix = []byte("height")
	chainPrefix  = []byte("chain")

	headKey = []byte("head")
)

// Store is a database-backed block store. Blocks from losing forks stay
// stored so fork choice can revisit them; only the head pointer and the
// height index track the canonical chain.
type Store struct {
	log log.Logger

	blockDB  database.Database
	heightDB database.Database
	chainDB  database.Database

	// blockCache holds recently touched blocks; a nil entry records that
	// the block is not in the database.
	blockCache *cache.LRU[ids.ID, *chain.Block]

	mu   sync.RWMutex
	head *chain.Block
}

// New opens a store over db, reloading the canonical head if one was
// committed before.
func New(db database.Database, log log.Logger) (*Store, error) {
	s := &Store{
		log:        log,
		blockDB:    prefixdb.New(blockPrefix, db),
		heightDB:   prefixdb.New(heightPrefix, db),
		chainDB:    prefixdb.New(chainPrefix, db),
		blockCache: &cache.LRU[ids.ID, *chain.Block]{Size: blockCacheSize},
	}

	headID, err := database.GetID(s.chainDB, headKey)
	if err == database.ErrNotFound {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading chain head pointer: %w", err)
	}

	head, err := s.GetBlock(headID)
	if err != nil {
		return nil, fmt.Errorf("loading chain head %s: %w", headID, err)
	}
	s.head = head
	return s, nil
}

// ChainHead returns the header of the canonical head, or nil before the
// first block is accepted.
func (s *Store) ChainHead() *chain.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.head == nil {
		return nil
	}
	return s.head.Header
}

// HeadBlock returns the canonical head block, or nil before the first block
// is accepted.
func (s *Store) HeadBlock() *chain.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.head
}

// PutBlock stores blk without touching the canonical head. Competing fork
// heads go through here before fork choice decides on them.
func (s *Store) PutBlock(blk *chain.Block) error {
	blkID := blk.ID()
	if err := s.blockDB.Put(blkID[:], blk.Bytes()); err != nil {
		return fmt.Errorf("storing block %s: %w", blkID, err)
	}
	s.blockCache.Put(blkID, blk)
	return nil
}

// GetBlock returns the stored block with the given ID, or
// database.ErrNotFound.
func (s *Store) GetBlock(blkID ids.ID) (*chain.Block, error) {
	if blk, cached := s.blockCache.Get(blkID); cached {
		if blk == nil {
			return nil, database.ErrNotFound
		}
		return blk, nil
	}

	b, err := s.blockDB.Get(blkID[:])
	if err == database.ErrNotFound {
		s.blockCache.Put(blkID, nil)
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	blk, err := chain.ParseBlock(b)
	if err != nil {
		return nil, fmt.Errorf("parsing stored block %s: %w", blkID, err)
	}
	s.blockCache.Put(blkID, blk)
	return blk, nil
}

// GetHeader returns the header sealed into the block with the given ID.
func (s *Store) GetHeader(blkID ids.ID) (*chain.Header, error) {
	blk, err := s.GetBlock(blkID)
	if err != nil {
		return nil, err
	}
	return blk.Header, nil
}

// Accept stores blk and makes it the canonical head.
func (s *Store) Accept(blk *chain.Block) error {
	if err := s.PutBlock(blk); err != nil {
		return err
	}
	return s.setHead(blk)
}

// SetChainHead switches the canonical head to an already stored block. Fork
// choice uses it when a competing head wins.
func (s *Store) SetChainHead(blkID ids.ID) error {
	blk, err := s.GetBlock(blkID)
	if err != nil {
		return fmt.Errorf("switching chain head to %s: %w", blkID, err)
	}
	return s.setHead(blk)
}

// GetBlockIDAtHeight returns the ID of the canonical block at height, or
// database.ErrNotFound when the canonical chain has no block there yet.
func (s *Store) GetBlockIDAtHeight(height uint64) (ids.ID, error) {
	return database.GetID(s.heightDB, database.PackUInt64(height))
}

func (s *Store) setHead(blk *chain.Block) error {
	blkID := blk.ID()
	if err := database.PutID(s.chainDB, headKey, blkID); err != nil {
		return fmt.Errorf("persisting chain head pointer: %w", err)
	}
	if err := database.PutID(s.heightDB, database.PackUInt64(blk.Header.Height), blkID); err != nil {
		return fmt.Errorf("indexing height %d: %w", blk.Header.Height, err)
	}

	s.mu.Lock()
	s.head = blk
	s.mu.Unlock()

	s.log.Debug("chain head updated",
		log.Stringer("blkID", blkID),
		log.Uint64("height", blk.Header.Height),
	)
	return nil
}
