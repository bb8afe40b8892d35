// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/luxfi/ids"

	"github.com/luxfi/devchain/manager"
)

const (
	NodeIDKey          = "node-id"
	MinWaitKey         = "min-wait"
	MaxWaitKey         = "max-wait"
	ValidPublishersKey = "valid-publishers"
	SeedKey            = "seed"
	BlocksKey          = "blocks"
	PollIntervalKey    = "poll-interval"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(NodeIDKey, "", "Node ID to publish blocks as (random when empty)")
	flags.Int64(MinWaitKey, 0, "Minimum delay in seconds before a claimed block may publish")
	flags.Int64(MaxWaitKey, 0, "Upper bound in seconds for the sampled claim delay (0 publishes at the minimum)")
	flags.String(ValidPublishersKey, "", "Comma-separated node IDs allowed to publish (empty allows every node)")
	flags.Int64(SeedKey, 0, "Seed for the claim-delay sampler and node identity (time-seeded when 0)")
	flags.Uint64(BlocksKey, 10, "Number of blocks to publish before exiting (0 runs until interrupted)")
	flags.Duration(PollIntervalKey, manager.DefaultPollInterval, "Claim-eligibility polling cadence")
}

type Config struct {
	NodeID          ids.NodeID
	MinWait         int64
	MaxWait         int64
	ValidPublishers []ids.NodeID
	Seed            int64
	Blocks          uint64
	PollInterval    time.Duration
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	nodeIDStr, err := flags.GetString(NodeIDKey)
	if err != nil {
		return nil, err
	}
	nodeID := ids.EmptyNodeID
	if nodeIDStr != "" {
		nodeID, err = ids.NodeIDFromString(nodeIDStr)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", NodeIDKey, err)
		}
	}

	minWait, err := flags.GetInt64(MinWaitKey)
	if err != nil {
		return nil, err
	}

	maxWait, err := flags.GetInt64(MaxWaitKey)
	if err != nil {
		return nil, err
	}

	publishersStr, err := flags.GetString(ValidPublishersKey)
	if err != nil {
		return nil, err
	}
	var publishers []ids.NodeID
	for _, part := range strings.Split(publishersStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		publisher, err := ids.NodeIDFromString(part)
		if err != nil {
			return nil, fmt.Errorf("parsing %s entry %q: %w", ValidPublishersKey, part, err)
		}
		publishers = append(publishers, publisher)
	}

	seed, err := flags.GetInt64(SeedKey)
	if err != nil {
		return nil, err
	}

	blocks, err := flags.GetUint64(BlocksKey)
	if err != nil {
		return nil, err
	}

	pollInterval, err := flags.GetDuration(PollIntervalKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		NodeID:          nodeID,
		MinWait:         minWait,
		MaxWait:         maxWait,
		ValidPublishers: publishers,
		Seed:            seed,
		Blocks:          blocks,
		PollInterval:    pollInterval,
	}, nil
}
