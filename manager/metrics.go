// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package manager

import (
	"fmt"

	"github.com/luxfi/metric"
)

type managerMetrics struct {
	blocksPublished metric.Counter
	claimsAbandoned metric.Counter
	blocksRejected  metric.Counter
	forkSwitches    metric.Counter
}

func newMetrics(registerer metric.Registerer) (*managerMetrics, error) {
	m := &managerMetrics{
		blocksPublished: metric.NewCounter(metric.CounterOpts{
			Name: "blocks_published",
			Help: "Number of blocks claimed and committed by this node",
		}),
		claimsAbandoned: metric.NewCounter(metric.CounterOpts{
			Name: "claims_abandoned",
			Help: "Number of claim attempts abandoned because the chain head moved",
		}),
		blocksRejected: metric.NewCounter(metric.CounterOpts{
			Name: "blocks_rejected",
			Help: "Number of received blocks rejected by the marker check",
		}),
		forkSwitches: metric.NewCounter(metric.CounterOpts{
			Name: "fork_switches",
			Help: "Number of times a received block replaced the chain head",
		}),
	}

	for _, counter := range []metric.Counter{
		m.blocksPublished,
		m.claimsAbandoned,
		m.blocksRejected,
		m.forkSwitches,
	} {
		if err := registerer.Register(metric.AsCollector(counter)); err != nil {
			return nil, fmt.Errorf("failed to register manager metric: %w", err)
		}
	}
	return m, nil
}
