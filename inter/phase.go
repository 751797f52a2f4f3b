// Package inter defines the shared data structures of the claimdrop ledger:
// timestamps, read-only views of the phase and per-account records, and the
// events the ledger emits for off-chain indexing.
//
// Key concepts:
//   - Phase: one of three sequential minting windows with a fixed budget
//   - Account: the per-address claim record (pending claim and markers)
//   - Timing: the global gates for self-service and proxy settlement
//   - Event/Record: notifications emitted by committed ledger operations
//
// The structures in this package are plain values. They are produced by the
// ledger package from its state and never mutate it.
package inter

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MaxPhase is the last phase ordinal. There is no phase 4.
const MaxPhase uint8 = 3

// Phase is a snapshot of the phase record.
type Phase struct {
	// Ordinal is 0 before the first activation, then 1..MaxPhase.
	Ordinal uint8

	// Active is true between activation and the (manual or automatic) end.
	Active bool

	// StartTime is the activation time of the current ordinal.
	StartTime Timestamp

	// Allocation is the fixed budget for this ordinal, in base units.
	Allocation *big.Int

	// Remaining is the part of Allocation not yet handed out to claims.
	Remaining *big.Int
}

// Ended reports whether the current ordinal was activated and has ended.
func (p Phase) Ended() bool {
	return p.Ordinal > 0 && !p.Active
}

// Account is a snapshot of a claimant's record.
type Account struct {
	Address common.Address

	// ClaimCount counts balance-scaled claims and drives the reduction curve.
	ClaimCount uint64

	// PendingClaim is owed to the account but not yet settled.
	PendingClaim *big.Int

	// LastProxyClaimTime is the last time the account settled for someone else.
	LastProxyClaimTime Timestamp

	// TransferAmountUsed is balance already counted toward a settlement.
	TransferAmountUsed *big.Int
}

// Timing holds the settlement gates. Both are zero until a phase ends.
type Timing struct {
	ClaimActivationTime      Timestamp
	ProxyClaimActivationTime Timestamp
}

// Thresholds are the owner-tunable fast-claim windows measured from phase start.
type Thresholds struct {
	First  time.Duration
	Second time.Duration
}
