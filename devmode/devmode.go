// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package devmode implements the development consensus mode: block claims
// gated by a configurable random delay, a fixed consensus marker on every
// published block, and a deterministic hash tie-break between equal-height
// forks. It provides no security and exists so multi-node development
// networks produce and converge on blocks without real lottery or stake
// machinery.
package devmode

import (
	"errors"
	"math/rand"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/utils/timer/mockable"
)

// Name is the mode name devmode registers under and the value the
// devchain.consensus.algorithm setting selects it by.
const Name = "devmode"

// Tag marks every block published under this mode. Verifiers reject blocks
// that carry anything else.
var Tag = []byte("devmode")

var (
	errMissingStore = errors.New("missing header store")
	errMissingViews = errors.New("missing view factory")
)

var _ devchain.Factory = Factory{}

// Factory assembles the devmode capabilities.
type Factory struct{}

func (Factory) NewPublisher(opts devchain.Options) (devchain.BlockPublisher, error) {
	if opts.Store == nil {
		return nil, errMissingStore
	}
	if opts.Views == nil {
		return nil, errMissingViews
	}
	return &Publisher{
		log:     loggerOrNoop(opts.Log),
		store:   opts.Store,
		views:   opts.Views,
		batches: opts.Batches,
		clock:   clockOrWall(opts.Clock),
		rng:     rngOrSeeded(opts.Rand),
	}, nil
}

func (Factory) NewVerifier(devchain.Options) (devchain.BlockVerifier, error) {
	return Verifier{}, nil
}

func (Factory) NewForkResolver(devchain.Options) (devchain.ForkResolver, error) {
	return ForkResolver{}, nil
}

func loggerOrNoop(l log.Logger) log.Logger {
	if l == nil {
		return log.NewNoOpLogger()
	}
	return l
}

func clockOrWall(c *mockable.Clock) *mockable.Clock {
	if c == nil {
		return &mockable.Clock{}
	}
	return c
}

func rngOrSeeded(r *rand.Rand) *rand.Rand {
	if r == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return r
}
