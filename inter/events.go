package inter

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EventKind identifies the concrete type behind an Event.
type EventKind uint8

const (
	KindClaimMade EventKind = iota + 1
	KindPhaseActivated
	KindPhaseEnded
	KindClaimSettled
	KindProxyClaimSettled
	KindDropCompleted
	KindDexExcluded
	KindDexIncluded
	KindThresholdsUpdated
)

var kindNames = map[EventKind]string{
	KindClaimMade:         "ClaimMade",
	KindPhaseActivated:    "PhaseActivated",
	KindPhaseEnded:        "PhaseEnded",
	KindClaimSettled:      "ClaimSettled",
	KindProxyClaimSettled: "ProxyClaimSettled",
	KindDropCompleted:     "DropCompleted",
	KindDexExcluded:       "DexExcluded",
	KindDexIncluded:       "DexIncluded",
	KindThresholdsUpdated: "ThresholdsUpdated",
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is a notification emitted by a committed ledger operation.
type Event interface {
	Kind() EventKind
}

// ClaimMade is emitted for every claim, including zero-amount claims made
// against an exhausted budget.
type ClaimMade struct {
	Account common.Address
	Amount  *big.Int
}

// PhaseActivated is emitted when a new phase ordinal starts.
type PhaseActivated struct {
	Phase      uint8
	Allocation *big.Int
}

// PhaseEnded is emitted on manual and automatic phase ends.
type PhaseEnded struct {
	Phase uint8
	Time  Timestamp
}

// ClaimSettled is emitted when an account settles its own pending claim.
type ClaimSettled struct {
	Account common.Address
	Amount  *big.Int
}

// ProxyClaimSettled is emitted when Proxy settles the pending claim of Wallet.
type ProxyClaimSettled struct {
	Proxy  common.Address
	Wallet common.Address
	Amount *big.Int
}

// DropCompleted is emitted once, when the future-growth allocation is paid out.
type DropCompleted struct {
	Owner  common.Address
	Amount *big.Int
}

// DexExcluded is emitted when an address joins the exclusion set.
type DexExcluded struct {
	Dex common.Address
}

// DexIncluded is emitted when an address leaves the exclusion set.
type DexIncluded struct {
	Dex common.Address
}

// ThresholdsUpdated carries the new fast-claim windows in nanoseconds.
type ThresholdsUpdated struct {
	First  uint64
	Second uint64
}

func (ClaimMade) Kind() EventKind         { return KindClaimMade }
func (PhaseActivated) Kind() EventKind    { return KindPhaseActivated }
func (PhaseEnded) Kind() EventKind        { return KindPhaseEnded }
func (ClaimSettled) Kind() EventKind      { return KindClaimSettled }
func (ProxyClaimSettled) Kind() EventKind { return KindProxyClaimSettled }
func (DropCompleted) Kind() EventKind     { return KindDropCompleted }
func (DexExcluded) Kind() EventKind       { return KindDexExcluded }
func (DexIncluded) Kind() EventKind       { return KindDexIncluded }
func (ThresholdsUpdated) Kind() EventKind { return KindThresholdsUpdated }

// Record is an event together with its position in the ledger's journal.
// Seq is strictly increasing across all committed events.
type Record struct {
	Seq   uint64
	Time  Timestamp
	Event Event
}
