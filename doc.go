// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

/*
Package devchain defines the pluggable consensus surface of a development
chain node.

A consensus mode supplies three independent capabilities:

Publisher: decides when the local node may claim the next block. The host
drives a strict per-candidate lifecycle of InitializeBlock, a CheckPublishBlock
polling phase, and FinalizeBlock.

Verifier: checks that a received block carries the mode's consensus marker.

Fork resolver: deterministically orders two competing chain heads so every
node that sees the same pair reaches the same preference.

Modes register a Factory under their name. Hosts resolve the active mode
from the devchain.consensus.algorithm chain setting and build the three
capabilities through the factory, handing in the collaborators they own:
the header store, the state view factory, and the batch publisher.

The devmode subpackage implements the development mode: uniform random
claim delays, a fixed marker, and a murmur3 tie-break between equal-height
heads. The manager subpackage is a host-side harness that runs the claim
loop and applies fork choice to incoming blocks.
*/
package devchain
