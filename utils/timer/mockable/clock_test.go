// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockSet(t *testing.T) {
	require := require.New(t)

	clock := Clock{}
	pinned := time.Unix(1700000000, 0)
	clock.Set(pinned)
	require.Equal(pinned, clock.Time())
	require.Equal(uint64(1700000000), clock.Unix())
}

func TestClockAdvance(t *testing.T) {
	require := require.New(t)

	clock := Clock{}
	pinned := time.Unix(1700000000, 0)
	clock.Set(pinned)

	clock.Advance(5 * time.Second)
	require.Equal(pinned.Add(5*time.Second), clock.Time())

	clock.Advance(-time.Second)
	require.Equal(pinned.Add(4*time.Second), clock.Time())
}

func TestClockSync(t *testing.T) {
	require := require.New(t)

	clock := Clock{}
	clock.Set(time.Unix(0, 0))
	clock.Sync()

	// A synced clock tracks wall-clock time again.
	require.WithinDuration(time.Now(), clock.Time(), time.Minute)
}

func TestClockUnixClampsAtZero(t *testing.T) {
	clock := Clock{}
	clock.Set(time.Unix(-1234, 0))
	require.Zero(t, clock.Unix())
}
