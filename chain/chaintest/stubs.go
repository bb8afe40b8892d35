// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain"
	"github.com/luxfi/devchain/chain/state"
)

var (
	_ devchain.ViewFactory    = (*ViewFactory)(nil)
	_ devchain.BatchPublisher = (*BatchPublisher)(nil)
	_ state.Reader            = emptyReader{}
)

// ViewFactory is a test view factory. Its behavior is overridden by setting
// NewViewF; the zero value serves empty views.
type ViewFactory struct {
	NewViewF func(root ids.ID) (state.Reader, error)
}

func (f *ViewFactory) NewView(root ids.ID) (state.Reader, error) {
	if f.NewViewF != nil {
		return f.NewViewF(root)
	}
	return emptyReader{}, nil
}

type emptyReader struct{}

func (emptyReader) Get(string) ([]byte, error) {
	return nil, database.ErrNotFound
}

// BatchPublisher records every batch list sent through it. Setting SendF
// overrides the recording behavior.
type BatchPublisher struct {
	SendF func(batches []chain.Batch) error
	Sent  [][]chain.Batch
}

func (p *BatchPublisher) Send(batches []chain.Batch) error {
	if p.SendF != nil {
		return p.SendF(batches)
	}
	p.Sent = append(p.Sent, batches)
	return nil
}
