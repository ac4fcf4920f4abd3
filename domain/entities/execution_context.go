package entities

import "time"

// BlockContext describes the ledger state a call executes against
type BlockContext struct {
	// Height is the latest ledger sequence number (highest balance history id)
	Height    int64
	Timestamp time.Time
}

// ExecutionContext carries the caller identity, the value sent with the call
// and the block context. It is passed explicitly into every mutating pool operation.
type ExecutionContext struct {
	Caller Address
	Value  int64
	Block  BlockContext
}
