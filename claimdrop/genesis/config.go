// Package genesis defines the initial state of a claimdrop deployment.
//
// At genesis the whole supply is minted to the distribution pool and the LP
// allocation is immediately moved to the owner. Everything else stays in the
// pool until it is claimed and settled, or paid out on drop completion.
//
// Usage:
//
//	gen := genesis.New(owner, inter.FromUnix(1700000000))
//	if err := gen.Validate(); err != nil { ... }
package genesis

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-claimdrop/claimdrop"
	"github.com/rony4d/go-claimdrop/inter"
)

var (
	ErrNoOwner     = errors.New("genesis owner is the zero address")
	ErrNoPool      = errors.New("genesis pool is the zero address")
	ErrOwnerIsPool = errors.New("genesis owner must differ from the pool")
)

// Genesis names the accounts that exist before the first phase.
type Genesis struct {
	// Owner receives the LP allocation and, later, the future-growth payout.
	// It is also the only account allowed to run admin operations.
	Owner common.Address

	// Pool holds the undistributed supply.
	Pool common.Address

	// Time is the genesis timestamp, reported with the state root.
	Time inter.Timestamp
}

// New returns a genesis using the default pool account.
func New(owner common.Address, time inter.Timestamp) Genesis {
	return Genesis{
		Owner: owner,
		Pool:  claimdrop.ContractAddress,
		Time:  time,
	}
}

// Validate checks that the accounts are usable.
func (g Genesis) Validate() error {
	switch {
	case g.Owner == (common.Address{}):
		return ErrNoOwner
	case g.Pool == (common.Address{}):
		return ErrNoPool
	case g.Owner == g.Pool:
		return ErrOwnerIsPool
	}
	return nil
}
