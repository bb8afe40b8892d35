// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/binary"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain/state"
	"github.com/luxfi/devchain/devmode"
	"github.com/luxfi/devchain/manager"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "devchain",
		Short: "Runs a single-process devchain node publishing blocks in memory",
		RunE:  runFunc,
	}
	AddFlags(c.Flags())
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	config, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}
	ctx := c.Context()

	logger := log.NewLogger("devchain")

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	nodeID := config.NodeID
	if nodeID == ids.EmptyNodeID {
		var b [ids.NodeIDLen]byte
		if _, err := rng.Read(b[:]); err != nil {
			return err
		}
		nodeID, err = ids.ToNodeID(b[:])
		if err != nil {
			return err
		}
	}

	// The genesis state root derives from the seed, so a seeded run
	// reproduces the same chain.
	genesisRoot := hash.ComputeHash256Array(binary.BigEndian.AppendUint64(nil, uint64(seed)))

	settings := map[string]string{
		devmode.KeyMinWaitTime: strconv.FormatInt(config.MinWait, 10),
		devmode.KeyMaxWaitTime: strconv.FormatInt(config.MaxWait, 10),
	}
	if len(config.ValidPublishers) > 0 {
		publishers := make([]string, len(config.ValidPublishers))
		for i, publisher := range config.ValidPublishers {
			publishers[i] = publisher.String()
		}
		settings[devmode.KeyValidPublishers] = strings.Join(publishers, ",")
	}

	db := memdb.New()
	if err := state.WriteSettings(db, genesisRoot, settings); err != nil {
		return err
	}

	if err := devchain.RegisterFactory(devmode.Name, devmode.Factory{}); err != nil {
		return err
	}

	mgr, err := manager.New(db, manager.Config{
		Log:              logger,
		NodeID:           nodeID,
		GenesisStateRoot: genesisRoot,
		PollInterval:     config.PollInterval,
		Rand:             rng,
	})
	if err != nil {
		return err
	}

	logger.Info("starting devchain node",
		log.Stringer("nodeID", nodeID),
		log.String("seed", strconv.FormatInt(seed, 10)),
		log.Duration("minWait", time.Duration(config.MinWait)*time.Second),
		log.Duration("maxWait", time.Duration(config.MaxWait)*time.Second),
	)

	if config.Blocks == 0 {
		if err := mgr.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	for published := uint64(0); published < config.Blocks; {
		blk, err := mgr.ClaimBlock(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		if blk != nil {
			published++
		}
	}

	logger.Info("finished publishing",
		log.Uint64("blocks", config.Blocks),
		log.Stringer("head", mgr.ChainHead().ID()),
	)
	return nil
}
