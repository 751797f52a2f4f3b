// Package integration assembles a claimdrop deployment: an in-memory StateDB,
// the token ledger bound to it, the claimdrop ledger and the genesis state.
//
// Usage:
//
//	rules, _ := claimdrop.RulesByName("reduced")
//	integration.ApplyOverrides(&rules, integration.Overrides{ProxyCooldown: time.Minute})
//	a, err := integration.New(rules, genesis.New(owner, now), integration.Options{})
//	a.Ledger.ActivatePhase(owner)
//
// Overrides let operators retune individual timing rules on top of a named
// profile without defining a new profile.
package integration

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/rony4d/go-claimdrop/claimdrop"
	"github.com/rony4d/go-claimdrop/claimdrop/genesis"
	"github.com/rony4d/go-claimdrop/evmcore"
	"github.com/rony4d/go-claimdrop/ledger"
)

// Overrides are timing rules that replace the profile values when non-zero.
type Overrides struct {
	FirstThreshold  time.Duration
	SecondThreshold time.Duration
	ProxyCooldown   time.Duration
}

// ApplyOverrides merges o into rules. Zero fields keep the profile value.
func ApplyOverrides(rules *claimdrop.Rules, o Overrides) {
	if o.FirstThreshold > 0 {
		rules.Timing.FirstThreshold = o.FirstThreshold
	}
	if o.SecondThreshold > 0 {
		rules.Timing.SecondThreshold = o.SecondThreshold
	}
	if o.ProxyCooldown > 0 {
		rules.Timing.ProxyCooldown = o.ProxyCooldown
	}
}

// Options tune the assembly. Zero values select production defaults.
type Options struct {
	// Exclude lists DEX addresses added to the exclusion set right after
	// genesis, by the owner.
	Exclude []common.Address

	// Journal keeps committed events in the state database.
	Journal bool

	Clock      ledger.Clock
	Randomness ledger.RandomnessSource
}

// Assembly is a running claimdrop deployment.
type Assembly struct {
	StateDB *state.StateDB
	DB      ethdb.Database
	Ledger  *ledger.Ledger
	Journal *ledger.Journal

	Rules   claimdrop.Rules
	Genesis genesis.Genesis

	// Root is the state root right after genesis.
	Root common.Hash

	// token is reachable only through Ledger, whose Transfer runs the
	// marker hook under the ledger lock and snapshot.
	token *evmcore.TokenLedger
}

// New validates the inputs, builds the components and applies genesis.
func New(rules claimdrop.Rules, gen genesis.Genesis, opts Options) (*Assembly, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules %s: %w", rules.Name, err)
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}

	statedb, db, err := evmcore.NewMemoryState()
	if err != nil {
		return nil, err
	}
	a := &Assembly{
		StateDB: statedb,
		DB:      db,
		token:   evmcore.NewTokenLedger(statedb, claimdrop.ContractAddress),
		Rules:   rules,
		Genesis: gen,
	}
	if opts.Journal {
		a.Journal = ledger.NewJournal(db)
	}

	a.Ledger, err = ledger.New(statedb, a.token, ledger.Config{
		Rules:      rules,
		Owner:      gen.Owner,
		Pool:       gen.Pool,
		Clock:      opts.Clock,
		Randomness: opts.Randomness,
		Journal:    a.Journal,
	})
	if err != nil {
		return nil, err
	}

	a.Root, err = evmcore.ApplyGenesis(statedb, a.token, rules, gen)
	if err != nil {
		return nil, err
	}

	for _, dex := range opts.Exclude {
		if err := a.Ledger.ExcludeDex(gen.Owner, dex); err != nil {
			return nil, fmt.Errorf("exclude %s: %w", dex.Hex(), err)
		}
	}
	log.Info("Claimdrop assembled", "profile", rules.Name, "root", a.Root, "excluded", len(opts.Exclude))
	return a, nil
}

// TotalSupply returns the minted token supply.
func (a *Assembly) TotalSupply() *big.Int {
	return a.token.TotalSupply()
}

// Close releases the ledger's subscriptions and the database.
func (a *Assembly) Close() error {
	a.Ledger.Close()
	return a.DB.Close()
}
