// Package claimdrop defines the deployment rules of the claimdrop ledger.
//
// This package provides:
//   - Profile names (standard, reduced)
//   - Supply rules: max supply, LP and future-growth allocations
//   - Phase rules: the fixed budget of each of the three phases
//   - Timing rules: settlement delays, proxy cooldown, fast-claim windows
//   - Claim rules: the allocation bounds used by the claim engine
//
// The Rules type is the single source of every tunable constant. Two
// deployment variants exist; they are profiles of one design, selected with
// RulesByName.
package claimdrop

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// StandardProfile distributes phase budgets in the millions of tokens.
	StandardProfile = "standard"

	// ReducedProfile scales phase budgets down to tens of tokens and uses a
	// shorter proxy cooldown. It is meant for rehearsals of the full flow.
	ReducedProfile = "reduced"

	// DefaultDecimals is the number of decimals of the distributed token.
	DefaultDecimals uint8 = 18
)

// ContractAddress is the system account that holds the distribution pool and
// the claimdrop storage slots.
// Address: 0xc1a1d00000000000000000000000000000000000
var ContractAddress = common.HexToAddress("0xc1a1d00000000000000000000000000000000000")

var (
	ErrUnknownProfile     = errors.New("unknown claimdrop profile")
	ErrSupplyOverAllotted = errors.New("allocations exceed max supply")
	ErrBadThresholds      = errors.New("first threshold must be lower than second threshold")
	ErrBadClaimBounds     = errors.New("claim bounds are inconsistent")
)

// SupplyRules fix the token supply and the non-phase allocations.
// All amounts are whole tokens; Rules.Tokens scales them to base units.
type SupplyRules struct {
	// MaxSupply is minted once, at genesis, to the distribution pool.
	MaxSupply uint64

	// LPAllocation is moved from the pool to the owner at genesis.
	LPAllocation uint64

	// FutureGrowthAllocation is paid to the owner when the drop completes.
	FutureGrowthAllocation uint64
}

// PhaseRules hold the fixed budget of phases 1..3 (index 0 is phase 1).
type PhaseRules struct {
	Allocations [3]uint64
}

// TimingRules hold every duration the ledger gates on.
type TimingRules struct {
	// ClaimDelay separates a phase end from self-service settlement.
	ClaimDelay time.Duration

	// ProxyClaimDelay separates a phase end from proxy settlement.
	ProxyClaimDelay time.Duration

	// ProxyCooldown is the minimum gap between two settlements by one proxy.
	ProxyCooldown time.Duration

	// FirstThreshold and SecondThreshold are the initial fast-claim windows.
	// The owner can retune them at runtime.
	FirstThreshold  time.Duration
	SecondThreshold time.Duration
}

// ClaimRules bound the allocation of a single claim, in whole tokens.
type ClaimRules struct {
	// FastAllocation is granted inside the first window.
	FastAllocation uint64

	// WindowMin and WindowMax bound the random draw inside the second window.
	WindowMin uint64
	WindowMax uint64

	// MinAllocation is the floor of a balance-scaled claim and the cap used
	// for claimants without any balance.
	MinAllocation uint64

	// MaxAllocation caps the balance-scaled claim before the reduction curve.
	MaxAllocation uint64
}

// Rules describes one claimdrop deployment. It only holds value types, so a
// plain assignment is a deep copy.
type Rules struct {
	Name     string
	Decimals uint8

	Supply SupplyRules
	Phases PhaseRules
	Timing TimingRules
	Claims ClaimRules
}

// StandardRules returns the production profile.
func StandardRules() Rules {
	return Rules{
		Name:     StandardProfile,
		Decimals: DefaultDecimals,
		Supply:   DefaultSupplyRules(),
		Phases: PhaseRules{
			Allocations: [3]uint64{1_000_000, 2_000_000, 4_000_000},
		},
		Timing: DefaultTimingRules(),
		Claims: DefaultClaimRules(),
	}
}

// ReducedRules returns the reduced-scale profile:
//   - Phase budgets of 10, 20 and 40 tokens
//   - A 10 minute proxy cooldown instead of 30 minutes
func ReducedRules() Rules {
	rules := StandardRules()
	rules.Name = ReducedProfile
	rules.Phases.Allocations = [3]uint64{10, 20, 40}
	rules.Timing.ProxyCooldown = 10 * time.Minute
	return rules
}

// RulesByName resolves a profile name.
func RulesByName(name string) (Rules, error) {
	switch name {
	case StandardProfile, "":
		return StandardRules(), nil
	case ReducedProfile:
		return ReducedRules(), nil
	}
	return Rules{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// DefaultSupplyRules returns the fixed supply split shared by both profiles.
func DefaultSupplyRules() SupplyRules {
	return SupplyRules{
		MaxSupply:              10_000_000,
		LPAllocation:           1_000_000,
		FutureGrowthAllocation: 2_000_000,
	}
}

// DefaultTimingRules returns the standard delays and windows.
func DefaultTimingRules() TimingRules {
	return TimingRules{
		ClaimDelay:      30 * time.Minute,
		ProxyClaimDelay: 60 * time.Minute,
		ProxyCooldown:   30 * time.Minute,
		FirstThreshold:  5 * time.Second,
		SecondThreshold: 10 * time.Second,
	}
}

// DefaultClaimRules returns the allocation bounds of a claim.
func DefaultClaimRules() ClaimRules {
	return ClaimRules{
		FastAllocation: 1,
		WindowMin:      1,
		WindowMax:      10,
		MinAllocation:  10,
		MaxAllocation:  1000,
	}
}

// Unit returns one whole token in base units (10^Decimals).
func (r Rules) Unit() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(r.Decimals)), nil)
}

// Tokens scales a whole-token amount to base units.
func (r Rules) Tokens(n uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(n), r.Unit())
}

// PhaseAllocation returns the budget of the given ordinal in base units, or
// zero for ordinals outside 1..3.
func (r Rules) PhaseAllocation(ordinal uint8) *big.Int {
	if ordinal == 0 || int(ordinal) > len(r.Phases.Allocations) {
		return new(big.Int)
	}
	return r.Tokens(r.Phases.Allocations[ordinal-1])
}

// Validate checks the internal consistency of the rules.
func (r Rules) Validate() error {
	var allotted uint64
	for _, a := range r.Phases.Allocations {
		allotted += a
	}
	allotted += r.Supply.LPAllocation + r.Supply.FutureGrowthAllocation
	if allotted > r.Supply.MaxSupply {
		return fmt.Errorf("%w: %d > %d", ErrSupplyOverAllotted, allotted, r.Supply.MaxSupply)
	}
	if r.Timing.FirstThreshold >= r.Timing.SecondThreshold {
		return fmt.Errorf("%w: %v >= %v", ErrBadThresholds, r.Timing.FirstThreshold, r.Timing.SecondThreshold)
	}
	c := r.Claims
	if c.WindowMin > c.WindowMax || c.MinAllocation > c.MaxAllocation || c.MinAllocation == 0 {
		return ErrBadClaimBounds
	}
	return nil
}

// String returns a JSON representation of Rules for logs and config dumps.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
