package record

import "fmt"

// ID identifies a record within a table file by the number of the block it
// lives in and the slot it occupies within that block.
type ID struct {
	blockNumber int
	slot        int
}

// NewID creates an ID for the record having the specified location in the
// specified block.
func NewID(blockNumber, slot int) *ID {
	return &ID{blockNumber: blockNumber, slot: slot}
}

// BlockNumber returns the block number associated with this ID.
func (id *ID) BlockNumber() int {
	return id.blockNumber
}

// Slot returns the slot associated with this ID.
func (id *ID) Slot() int {
	return id.slot
}

// Equals returns true if the two IDs identify the same record.
func (id *ID) Equals(other *ID) bool {
	return id.blockNumber == other.blockNumber && id.slot == other.slot
}

func (id *ID) String() string {
	return fmt.Sprintf("[%d, %d]", id.blockNumber, id.slot)
}
