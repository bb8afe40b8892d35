// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package manager

// Decision is the outcome of submitting a received block.
type Decision uint8

const (
	Unknown Decision = iota
	// Rejected means the block does not carry this consensus's validity
	// marker and was discarded.
	Rejected
	// Kept means the block is a valid fork head but lost the comparison:
	// the current chain head stays.
	Kept
	// Switched means the block won the comparison and is now the chain
	// head.
	Switched
)

// String returns the string representation of the decision
func (d Decision) String() string {
	switch d {
	case Rejected:
		return "Rejected"
	case Kept:
		return "Kept"
	case Switched:
		return "Switched"
	default:
		return "Unknown"
	}
}
