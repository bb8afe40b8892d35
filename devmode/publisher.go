// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devmode

import (
	"context"
	"math/rand"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain"
	"github.com/luxfi/devchain/utils/timer/mockable"
)

var _ devchain.BlockPublisher = (*Publisher)(nil)

// Publisher claims blocks after a configurable random delay. The host
// serializes the claim lifecycle, so attempt state is kept without locking.
type Publisher struct {
	log     log.Logger
	store   devchain.HeaderStore
	views   devchain.ViewFactory
	batches devchain.BatchPublisher
	clock   *mockable.Clock
	rng     *rand.Rand

	cfg config

	// State of the running claim attempt, armed by InitializeBlock.
	startTime time.Time
	waitTime  time.Duration
}

// InitializeBlock starts a claim attempt for candidate: it refreshes the
// devmode settings, stamps the consensus marker, and arms the claim timer.
// Settings are read at the chain head's state root; before genesis the
// candidate's own root carries the initial configuration.
func (p *Publisher) InitializeBlock(_ context.Context, candidate *chain.Header) error {
	root := candidate.StateRoot
	if head := p.store.ChainHead(); head != nil {
		root = head.StateRoot
	}

	view, err := p.views.NewView(root)
	if err != nil {
		p.log.Warn("claim attempt keeps previous consensus settings",
			log.Stringer("stateRoot", root),
			log.Err(err),
		)
	} else {
		p.cfg.refresh(view)
	}

	candidate.ConsensusTag = append([]byte(nil), Tag...)

	p.startTime = p.clock.Time()
	p.waitTime = p.sampleWaitTime()

	p.log.Debug("initialized block claim",
		log.Uint64("height", candidate.Height),
		log.Stringer("stateRoot", root),
		log.Duration("minWaitTime", p.cfg.minWaitTime),
		log.Duration("maxWaitTime", p.cfg.maxWaitTime),
		log.Duration("waitTime", p.waitTime),
		log.Int("validPublishers", p.cfg.validPublishers.Len()),
	)
	return nil
}

// CheckPublishBlock reports whether the candidate may be claimed now. The
// publisher allow-list is enforced first. A zero minimum publishes
// immediately; a positive minimum with no maximum publishes once the minimum
// has elapsed; a maximum above the minimum publishes once the sampled delay
// has elapsed. A positive minimum with a maximum at or below it never
// publishes until the chain is reconfigured.
func (p *Publisher) CheckPublishBlock(candidate *chain.Header) bool {
	if p.cfg.validPublishers.Len() > 0 && !p.cfg.validPublishers.Contains(candidate.Signer) {
		return false
	}

	now := p.clock.Time()
	switch {
	case p.cfg.minWaitTime == 0:
		return true
	case p.cfg.minWaitTime > 0 && p.cfg.maxWaitTime <= 0:
		return !now.Before(p.startTime.Add(p.cfg.minWaitTime))
	case p.cfg.minWaitTime > 0 && p.cfg.maxWaitTime > p.cfg.minWaitTime:
		return !now.Before(p.startTime.Add(p.waitTime))
	default:
		return false
	}
}

// FinalizeBlock ends a successful claim attempt. Devmode adds no consensus
// payload beyond the marker stamped at initialization.
func (p *Publisher) FinalizeBlock(*chain.Header) error {
	return nil
}

// sampleWaitTime draws the delay for this attempt, uniform in
// [minWaitTime, maxWaitTime). The sample degrades to the minimum when the
// maximum does not exceed it; that value only gates publishing in the
// sampled branch of CheckPublishBlock.
func (p *Publisher) sampleWaitTime() time.Duration {
	minWait, maxWait := p.cfg.minWaitTime, p.cfg.maxWaitTime
	if maxWait <= minWait {
		return minWait
	}
	return minWait + time.Duration(p.rng.Float64()*float64(maxWait-minWait))
}
