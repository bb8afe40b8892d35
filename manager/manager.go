// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package manager wires a consensus mode to the block store and world state
// and drives the chain: it claims new blocks on top of the head under the
// mode's timing policy and folds received blocks in under the mode's fork
// choice.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain"
	"github.com/luxfi/devchain/chain/state"
	"github.com/luxfi/devchain/chain/store"
)

var errMissingNodeID = errors.New("manager requires a node ID")

// Manager drives a single chain with the consensus mode named in its state.
type Manager struct {
	cfg     Config
	store   *store.Store
	views   *state.Factory
	metrics *managerMetrics

	publisher devchain.BlockPublisher
	verifier  devchain.BlockVerifier
	resolver  devchain.ForkResolver

	// mu serializes head transitions between the claim path and
	// SubmitBlock.
	mu sync.Mutex
}

// New builds a manager over db. The consensus mode is resolved once: from the
// chain head's state root when a head exists, from GenesisStateRoot
// otherwise.
func New(db database.Database, cfg Config) (*Manager, error) {
	cfg = cfg.withDefaults()
	if cfg.NodeID == ids.EmptyNodeID {
		return nil, errMissingNodeID
	}

	st, err := store.New(db, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("opening block store: %w", err)
	}
	views := state.NewFactory(db)

	factory, err := resolveFactory(cfg.Registry, st, views, cfg.GenesisStateRoot)
	if err != nil {
		return nil, err
	}

	opts := devchain.Options{
		Log:     cfg.Log,
		Store:   st,
		Views:   views,
		Batches: cfg.Batches,
		Clock:   cfg.Clock,
		Rand:    cfg.Rand,
	}
	publisher, err := factory.NewPublisher(opts)
	if err != nil {
		return nil, fmt.Errorf("building publisher: %w", err)
	}
	verifier, err := factory.NewVerifier(opts)
	if err != nil {
		return nil, fmt.Errorf("building verifier: %w", err)
	}
	resolver, err := factory.NewForkResolver(opts)
	if err != nil {
		return nil, fmt.Errorf("building fork resolver: %w", err)
	}

	metrics, err := newMetrics(cfg.Registerer)
	if err != nil {
		return nil, err
	}

	return &Manager{
		cfg:       cfg,
		store:     st,
		views:     views,
		metrics:   metrics,
		publisher: publisher,
		verifier:  verifier,
		resolver:  resolver,
	}, nil
}

func resolveFactory(
	registry *devchain.Registry,
	st *store.Store,
	views *state.Factory,
	genesisRoot ids.ID,
) (devchain.Factory, error) {
	root := genesisRoot
	if head := st.ChainHead(); head != nil {
		root = head.StateRoot
	}
	view, err := views.NewView(root)
	if err != nil {
		return nil, fmt.Errorf("opening state view for mode resolution: %w", err)
	}
	return registry.Resolve(state.NewSettings(view))
}

// Run drives claim attempts back to back until ctx is canceled.
func (m *Manager) Run(ctx context.Context) error {
	m.cfg.Log.Info("starting claim loop",
		log.Stringer("nodeID", m.cfg.NodeID),
		log.Duration("pollInterval", m.cfg.PollInterval),
	)
	for {
		if _, err := m.ClaimBlock(ctx); err != nil {
			return err
		}
	}
}

// ClaimBlock runs one claim attempt: build a candidate on the current head,
// wait out the publisher's timing policy, then seal and commit the block. A
// nil block without error means the attempt was abandoned because the chain
// head moved while waiting.
func (m *Manager) ClaimBlock(ctx context.Context) (*chain.Block, error) {
	candidate, parentID := m.nextCandidate()

	if err := m.publisher.InitializeBlock(ctx, candidate); err != nil {
		return nil, fmt.Errorf("initializing claim attempt: %w", err)
	}

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for !m.publisher.CheckPublishBlock(candidate) {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if m.headID() != parentID {
			m.metrics.claimsAbandoned.Inc()
			m.cfg.Log.Debug("abandoned claim attempt",
				log.Stringer("parentID", parentID),
			)
			return nil, nil
		}
	}

	if err := m.publisher.FinalizeBlock(candidate); err != nil {
		return nil, fmt.Errorf("finalizing claim attempt: %w", err)
	}

	var batches []chain.Batch
	if m.cfg.BatchSource != nil {
		batches = m.cfg.BatchSource.PendingBatches()
	}
	candidate.BatchRoot = chain.BatchRoot(batches)

	blk, err := chain.NewBlock(candidate, batches)
	if err != nil {
		return nil, fmt.Errorf("sealing claimed block: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// The head may have moved between the last eligibility check and here.
	if m.headID() != parentID {
		m.metrics.claimsAbandoned.Inc()
		return nil, nil
	}
	if err := m.store.Accept(blk); err != nil {
		return nil, fmt.Errorf("committing claimed block: %w", err)
	}

	m.metrics.blocksPublished.Inc()
	m.cfg.Log.Info("published block",
		log.Stringer("blkID", blk.ID()),
		log.Uint64("height", blk.Header.Height),
		log.Int("batches", len(blk.Batches)),
	)
	return blk, nil
}

// SubmitBlock folds a block received from a peer into the chain. Blocks
// without this consensus's marker are rejected outright; the rest are stored,
// and the chain head moves only when the fork resolver prefers the new head.
func (m *Manager) SubmitBlock(blk *chain.Block) (Decision, error) {
	if !m.verifier.VerifyBlock(blk) {
		m.metrics.blocksRejected.Inc()
		m.cfg.Log.Debug("rejected block without marker",
			log.Stringer("blkID", blk.ID()),
			log.Uint64("height", blk.Header.Height),
		)
		return Rejected, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.PutBlock(blk); err != nil {
		return Unknown, fmt.Errorf("storing received block: %w", err)
	}

	head := m.store.HeadBlock()
	if head == nil {
		if err := m.store.SetChainHead(blk.ID()); err != nil {
			return Unknown, fmt.Errorf("adopting first chain head: %w", err)
		}
		m.cfg.Log.Info("adopted first chain head",
			log.Stringer("blkID", blk.ID()),
			log.Uint64("height", blk.Header.Height),
		)
		return Switched, nil
	}

	if !m.resolver.CompareForks(head.Header, blk.Header) {
		return Kept, nil
	}

	if err := m.store.SetChainHead(blk.ID()); err != nil {
		return Unknown, fmt.Errorf("switching chain head: %w", err)
	}
	m.metrics.forkSwitches.Inc()
	m.cfg.Log.Info("switched chain head",
		log.Stringer("blkID", blk.ID()),
		log.Uint64("height", blk.Header.Height),
	)
	return Switched, nil
}

// ChainHead returns the current head's header, or nil before the first
// block.
func (m *Manager) ChainHead() *chain.Header {
	return m.store.ChainHead()
}

// HeadBlock returns the current head block, or nil before the first block.
func (m *Manager) HeadBlock() *chain.Block {
	return m.store.HeadBlock()
}

// nextCandidate builds an unsealed header extending the current head, or a
// genesis candidate when the store is empty. It also returns the head's ID at
// the time of the build so the claim path can detect head movement.
func (m *Manager) nextCandidate() (*chain.Header, ids.ID) {
	head := m.store.HeadBlock()
	if head == nil {
		return &chain.Header{
			ParentID:  ids.Empty,
			Height:    0,
			Timestamp: m.cfg.Clock.Time().Unix(),
			StateRoot: m.cfg.GenesisStateRoot,
			Signer:    m.cfg.NodeID,
		}, ids.Empty
	}
	return &chain.Header{
		ParentID:  head.ID(),
		Height:    head.Header.Height + 1,
		Timestamp: m.cfg.Clock.Time().Unix(),
		// Without an executor the state root carries forward unchanged.
		StateRoot: head.Header.StateRoot,
		Signer:    m.cfg.NodeID,
	}, head.ID()
}

func (m *Manager) headID() ids.ID {
	if head := m.store.HeadBlock(); head != nil {
		return head.ID()
	}
	return ids.Empty
}
