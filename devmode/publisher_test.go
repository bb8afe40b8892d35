// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package devmode

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/devchain"
	"github.com/luxfi/devchain/chain"
	"github.com/luxfi/devchain/chain/chaintest"
	"github.com/luxfi/devchain/chain/state"
	"github.com/luxfi/devchain/chain/store"
	"github.com/luxfi/devchain/utils/timer/mockable"
)

const testSeed = 1337

type publisherTest struct {
	db    database.Database
	store *store.Store
	clock *mockable.Clock
	pub   *Publisher
}

func newPublisherTest(t *testing.T, seed int64) *publisherTest {
	require := require.New(t)

	db := memdb.New()
	st, err := store.New(db, log.NoLog{})
	require.NoError(err)

	clock := &mockable.Clock{}
	clock.Set(time.Unix(1700000000, 0))

	pub, err := Factory{}.NewPublisher(devchain.Options{
		Log:   log.NoLog{},
		Store: st,
		Views: state.NewFactory(db),
		Clock: clock,
		Rand:  rand.New(rand.NewSource(seed)),
	})
	require.NoError(err)

	return &publisherTest{
		db:    db,
		store: st,
		clock: clock,
		pub:   pub.(*Publisher),
	}
}

// settingsRoot writes settings under a fresh state root and returns it.
func (pt *publisherTest) settingsRoot(t *testing.T, settings map[string]string) ids.ID {
	root := ids.GenerateTestID()
	require.NoError(t, state.WriteSettings(pt.db, root, settings))
	return root
}

// acceptGenesis accepts a genesis block rooted at root and returns it.
func (pt *publisherTest) acceptGenesis(t *testing.T, root ids.ID) *chain.Block {
	genesis := chaintest.Genesis(t, root, ids.GenerateTestNodeID())
	require.NoError(t, pt.store.Accept(genesis))
	return genesis
}

func candidateOn(parent *chain.Block, signer ids.NodeID) *chain.Header {
	return &chain.Header{
		ParentID:  parent.ID(),
		Height:    parent.Header.Height + 1,
		StateRoot: parent.Header.StateRoot,
		Signer:    signer,
	}
}

func TestInitializeStampsMarker(t *testing.T) {
	require := require.New(t)

	pt := newPublisherTest(t, testSeed)
	genesis := pt.acceptGenesis(t, pt.settingsRoot(t, nil))

	candidate := candidateOn(genesis, ids.GenerateTestNodeID())
	require.Empty(candidate.ConsensusTag)
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))
	require.Equal(Tag, candidate.ConsensusTag)
}

func TestPublishImmediatelyByDefault(t *testing.T) {
	require := require.New(t)

	pt := newPublisherTest(t, testSeed)
	genesis := pt.acceptGenesis(t, pt.settingsRoot(t, nil))

	candidate := candidateOn(genesis, ids.GenerateTestNodeID())
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))
	require.True(pt.pub.CheckPublishBlock(candidate))
	require.NoError(pt.pub.FinalizeBlock(candidate))
}

func TestMinWaitGatesPublishing(t *testing.T) {
	require := require.New(t)

	pt := newPublisherTest(t, testSeed)
	genesis := pt.acceptGenesis(t, pt.settingsRoot(t, map[string]string{
		KeyMinWaitTime: "5",
	}))

	candidate := candidateOn(genesis, ids.GenerateTestNodeID())
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))

	require.False(pt.pub.CheckPublishBlock(candidate))

	pt.clock.Advance(5*time.Second - time.Nanosecond)
	require.False(pt.pub.CheckPublishBlock(candidate))

	pt.clock.Advance(time.Nanosecond)
	require.True(pt.pub.CheckPublishBlock(candidate))
}

func TestSampledWaitIsReproducible(t *testing.T) {
	require := require.New(t)

	// The delay is the seeded generator's next uniform draw scaled into
	// [min, max).
	want := 2*time.Second + time.Duration(rand.New(rand.NewSource(testSeed)).Float64()*float64(4*time.Second))

	pt := newPublisherTest(t, testSeed)
	genesis := pt.acceptGenesis(t, pt.settingsRoot(t, map[string]string{
		KeyMinWaitTime: "2",
		KeyMaxWaitTime: "6",
	}))

	candidate := candidateOn(genesis, ids.GenerateTestNodeID())
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))
	require.Equal(want, pt.pub.waitTime)
	require.GreaterOrEqual(pt.pub.waitTime, 2*time.Second)
	require.Less(pt.pub.waitTime, 6*time.Second)

	require.False(pt.pub.CheckPublishBlock(candidate))

	pt.clock.Advance(want - time.Nanosecond)
	require.False(pt.pub.CheckPublishBlock(candidate))

	pt.clock.Advance(time.Nanosecond)
	require.True(pt.pub.CheckPublishBlock(candidate))
}

func TestDegenerateBoundsNeverPublish(t *testing.T) {
	tests := []struct {
		name string
		min  string
		max  string
	}{
		{name: "equal bounds", min: "5", max: "5"},
		{name: "max below min", min: "5", max: "3"},
		{name: "negative min", min: "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			settings := map[string]string{KeyMinWaitTime: tt.min}
			if tt.max != "" {
				settings[KeyMaxWaitTime] = tt.max
			}

			pt := newPublisherTest(t, testSeed)
			genesis := pt.acceptGenesis(t, pt.settingsRoot(t, settings))

			candidate := candidateOn(genesis, ids.GenerateTestNodeID())
			require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))

			require.False(pt.pub.CheckPublishBlock(candidate))
			for _, step := range []time.Duration{time.Second, 4 * time.Second, time.Hour} {
				pt.clock.Advance(step)
				require.False(pt.pub.CheckPublishBlock(candidate))
			}
		})
	}
}

func TestValidPublishersGate(t *testing.T) {
	require := require.New(t)

	allowed := ids.GenerateTestNodeID()
	outsider := ids.GenerateTestNodeID()

	pt := newPublisherTest(t, testSeed)
	genesis := pt.acceptGenesis(t, pt.settingsRoot(t, map[string]string{
		KeyValidPublishers: allowed.String(),
	}))

	candidate := candidateOn(genesis, outsider)
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))
	require.False(pt.pub.CheckPublishBlock(candidate))

	// The allow-listed signer publishes under the same configuration.
	candidate = candidateOn(genesis, allowed)
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))
	require.True(pt.pub.CheckPublishBlock(candidate))
}

func TestAllowedSignerStillWaits(t *testing.T) {
	require := require.New(t)

	allowed := ids.GenerateTestNodeID()

	pt := newPublisherTest(t, testSeed)
	genesis := pt.acceptGenesis(t, pt.settingsRoot(t, map[string]string{
		KeyMinWaitTime:     "3",
		KeyValidPublishers: allowed.String(),
	}))

	candidate := candidateOn(genesis, allowed)
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))

	require.False(pt.pub.CheckPublishBlock(candidate))
	pt.clock.Advance(3 * time.Second)
	require.True(pt.pub.CheckPublishBlock(candidate))
}

func TestSettingsComeFromHeadRoot(t *testing.T) {
	require := require.New(t)

	pt := newPublisherTest(t, testSeed)

	headRoot := pt.settingsRoot(t, nil)
	slowRoot := pt.settingsRoot(t, map[string]string{KeyMinWaitTime: "100"})

	genesis := pt.acceptGenesis(t, headRoot)

	// With a chain head present its state root wins over the candidate's.
	candidate := candidateOn(genesis, ids.GenerateTestNodeID())
	candidate.StateRoot = slowRoot

	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))
	require.True(pt.pub.CheckPublishBlock(candidate))
}

func TestGenesisCandidateUsesOwnRoot(t *testing.T) {
	require := require.New(t)

	pt := newPublisherTest(t, testSeed)
	root := pt.settingsRoot(t, map[string]string{KeyMinWaitTime: "100"})

	// No chain head yet: the candidate's own state root configures the
	// attempt.
	candidate := &chain.Header{
		ParentID:  ids.Empty,
		Height:    0,
		StateRoot: root,
		Signer:    ids.GenerateTestNodeID(),
	}
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))
	require.False(pt.pub.CheckPublishBlock(candidate))

	pt.clock.Advance(100 * time.Second)
	require.True(pt.pub.CheckPublishBlock(candidate))
}

func TestMissingSettingsKeepPreviousValues(t *testing.T) {
	require := require.New(t)

	pt := newPublisherTest(t, testSeed)
	genesis := pt.acceptGenesis(t, pt.settingsRoot(t, map[string]string{
		KeyMinWaitTime: "5",
	}))

	candidate := candidateOn(genesis, ids.GenerateTestNodeID())
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))
	pt.clock.Advance(5 * time.Second)
	require.True(pt.pub.CheckPublishBlock(candidate))

	// Advance the chain onto a root that carries no settings at all: the
	// previous reading stays in force.
	child := chaintest.BuildBlock(t, &chain.Header{
		ParentID:  genesis.ID(),
		Height:    1,
		StateRoot: ids.GenerateTestID(),
		Signer:    ids.GenerateTestNodeID(),
	})
	require.NoError(pt.store.Accept(child))

	candidate = candidateOn(child, ids.GenerateTestNodeID())
	require.NoError(pt.pub.InitializeBlock(context.Background(), candidate))

	require.False(pt.pub.CheckPublishBlock(candidate))
	pt.clock.Advance(5 * time.Second)
	require.True(pt.pub.CheckPublishBlock(candidate))
}

func TestViewFactoryErrorKeepsSettings(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	st, err := store.New(db, log.NoLog{})
	require.NoError(err)

	clock := &mockable.Clock{}
	clock.Set(time.Unix(1700000000, 0))

	viewErr := errors.New("state pruned")
	pub, err := Factory{}.NewPublisher(devchain.Options{
		Log:   log.NoLog{},
		Store: st,
		Views: &chaintest.ViewFactory{
			NewViewF: func(ids.ID) (state.Reader, error) {
				return nil, viewErr
			},
		},
		Clock: clock,
		Rand:  rand.New(rand.NewSource(testSeed)),
	})
	require.NoError(err)

	genesis := chaintest.Genesis(t, ids.GenerateTestID(), ids.GenerateTestNodeID())
	require.NoError(st.Accept(genesis))

	// A failed settings read is tolerated: the attempt still initializes
	// and runs on the defaults already in force.
	candidate := candidateOn(genesis, ids.GenerateTestNodeID())
	require.NoError(pub.InitializeBlock(context.Background(), candidate))
	require.Equal(Tag, candidate.ConsensusTag)
	require.True(pub.CheckPublishBlock(candidate))
}
