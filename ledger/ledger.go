// Package ledger implements the claimdrop: three sequential distribution
// phases, randomized claims, deferred settlement and proxy settlement.
//
// Key concepts:
//   - Phase: ordinal 1..3 with a fixed budget, activated and ended by the owner
//     or ended automatically when a claim exhausts the budget
//   - Claim: sized from the time elapsed since phase start and the caller's
//     balance, credited to a pending claim
//   - Settlement: moves a pending claim from the pool to the claimant, either
//     by the claimant itself or by a proxy subject to a cooldown
//   - Markers: the used-balance total and the proxy cooldown follow tokens
//     across ordinary transfers, except through excluded DEX addresses
//
// All state lives in storage slots of claimdrop.ContractAddress in a StateDB,
// next to the token balances. Each public operation runs under the ledger
// mutex inside a StateDB snapshot: it either commits all of its writes,
// token moves and events, or reverts them all.
//
// Usage:
//
//	l, err := ledger.New(statedb, token, ledger.Config{Rules: rules, Owner: owner, Pool: pool})
//	err = l.ActivatePhase(owner)
//	amount, err := l.Claim(alice)
package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/rony4d/go-claimdrop/claimdrop"
	"github.com/rony4d/go-claimdrop/evmcore"
	"github.com/rony4d/go-claimdrop/inter"
)

// Token is the token-ledger collaborator. *evmcore.TokenLedger implements it.
type Token interface {
	BalanceOf(addr common.Address) *big.Int
	Move(from, to common.Address, amount *big.Int) error
	Transfer(from, to common.Address, amount *big.Int) error
	OnMove(hook evmcore.MoveHook) (detach func())
}

// Config assembles a Ledger.
type Config struct {
	Rules claimdrop.Rules

	// Owner is the only account allowed to run admin operations.
	Owner common.Address

	// Pool holds the undistributed supply. Defaults to claimdrop.ContractAddress.
	Pool common.Address

	// Clock defaults to SystemClock.
	Clock Clock

	// Randomness defaults to a SaltedSource over CryptoEntropy.
	Randomness RandomnessSource

	// Journal, if set, receives every committed event.
	Journal *Journal
}

// Ledger is the claimdrop service. It is safe for concurrent use; operations
// are serialized.
type Ledger struct {
	mu sync.Mutex

	rules claimdrop.Rules
	unit  *big.Int
	owner common.Address
	pool  common.Address

	db      StateDB
	token   Token
	clock   Clock
	rand    RandomnessSource
	journal *Journal

	feed    event.Feed
	scope   event.SubscriptionScope
	pending []inter.Event
	seq     uint64

	detach func() // removes onTransfer from the token; nil once closed

	log log.Logger
}

// New creates a ledger over db and registers its transfer hook with token.
// The token ledger must be bound to the same StateDB, so that a reverted
// operation also reverts its token moves. A token serves one open ledger at a
// time: Close the previous ledger before reopening over the same record.
//
// On first use New pins the contract account and stores the initial
// fast-claim thresholds from the rules; an existing record is left as is.
func New(db StateDB, token Token, cfg Config) (*Ledger, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	if cfg.Owner == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if cfg.Pool == (common.Address{}) {
		cfg.Pool = claimdrop.ContractAddress
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Randomness == nil {
		cfg.Randomness = NewSaltedSource(nil)
	}

	l := &Ledger{
		rules:   cfg.Rules,
		unit:    cfg.Rules.Unit(),
		owner:   cfg.Owner,
		pool:    cfg.Pool,
		db:      db,
		token:   token,
		clock:   cfg.Clock,
		rand:    cfg.Randomness,
		journal: cfg.Journal,
		log:     log.New("module", "claimdrop"),
	}

	if l.journal != nil {
		last, err := l.journal.Last()
		if err != nil {
			return nil, err
		}
		l.seq = last
	}

	if db.GetNonce(claimdrop.ContractAddress) == 0 {
		db.SetNonce(claimdrop.ContractAddress, 1)
	}
	if _, second := getThresholds(db); second == 0 {
		setThresholds(db, uint64(cfg.Rules.Timing.FirstThreshold), uint64(cfg.Rules.Timing.SecondThreshold))
	}

	l.detach = token.OnMove(l.onTransfer)

	l.log.Info("Claimdrop ledger ready", "profile", cfg.Rules.Name, "owner", l.owner, "pool", l.pool,
		"phase", getPhaseOrdinal(db), "seq", l.seq)
	return l, nil
}

// atomic runs fn as one all-or-nothing operation. Events emitted by fn are
// journaled and published only if fn and the journal write both succeed.
func (l *Ledger) atomic(op string, fn func(now inter.Timestamp) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	snap := l.db.Snapshot()
	l.pending = l.pending[:0]

	if err := fn(now); err != nil {
		l.db.RevertToSnapshot(snap)
		l.pending = l.pending[:0]
		revertedOps.Inc(1)
		l.log.Debug("Claimdrop operation reverted", "op", op, "err", err)
		return err
	}

	records := make([]inter.Record, len(l.pending))
	for i, ev := range l.pending {
		records[i] = inter.Record{Seq: l.seq + uint64(i) + 1, Time: now, Event: ev}
	}
	l.pending = l.pending[:0]

	if l.journal != nil && len(records) > 0 {
		if err := l.journal.Append(records); err != nil {
			l.db.RevertToSnapshot(snap)
			l.log.Error("Failed to journal claimdrop events", "op", op, "err", err)
			return err
		}
	}
	l.seq += uint64(len(records))

	for _, r := range records {
		l.feed.Send(r)
	}
	return nil
}

// emit queues an event of the running operation.
func (l *Ledger) emit(ev inter.Event) {
	l.pending = append(l.pending, ev)
}

func (l *Ledger) requireOwner(caller common.Address) error {
	if caller != l.owner {
		return ErrNotOwner
	}
	return nil
}

// SubscribeEvents delivers a Record for every committed event. Sends block
// until the subscriber receives, so ch should be buffered and must not be
// drained by a goroutine that calls back into the ledger.
func (l *Ledger) SubscribeEvents(ch chan<- inter.Record) event.Subscription {
	return l.scope.Track(l.feed.Subscribe(ch))
}

// Close detaches the transfer hook from the token and ends all event
// subscriptions. Operations after Close still run but no longer observe
// transfers made on the token directly.
func (l *Ledger) Close() {
	l.mu.Lock()
	if l.detach != nil {
		l.detach()
		l.detach = nil
	}
	l.mu.Unlock()
	l.scope.Close()
}

// Transfer is the ordinary token transfer. It runs the transfer hook inside
// the ledger's atomic boundary.
func (l *Ledger) Transfer(from, to common.Address, amount *big.Int) error {
	return l.atomic("transfer", func(inter.Timestamp) error {
		return l.token.Transfer(from, to, amount)
	})
}

// --- views ---

// Owner returns the admin account.
func (l *Ledger) Owner() common.Address { return l.owner }

// Pool returns the distribution pool account.
func (l *Ledger) Pool() common.Address { return l.pool }

// Rules returns the deployment rules.
func (l *Ledger) Rules() claimdrop.Rules { return l.rules }

// Seq returns the sequence number of the last committed event.
func (l *Ledger) Seq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

// Phase returns the current phase record.
func (l *Ledger) Phase() inter.Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	ordinal := getPhaseOrdinal(l.db)
	return inter.Phase{
		Ordinal:    ordinal,
		Active:     isPhaseActive(l.db),
		StartTime:  getPhaseStart(l.db),
		Allocation: l.rules.PhaseAllocation(ordinal),
		Remaining:  getRemainingBudget(l.db),
	}
}

// Account returns the claim record of addr. Unknown accounts read as zero.
func (l *Ledger) Account(addr common.Address) inter.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return inter.Account{
		Address:            addr,
		ClaimCount:         getClaimCount(l.db, addr),
		PendingClaim:       getPendingClaim(l.db, addr),
		LastProxyClaimTime: getLastProxyClaimTime(l.db, addr),
		TransferAmountUsed: getTransferAmountUsed(l.db, addr),
	}
}

// Timing returns the settlement gates.
func (l *Ledger) Timing() inter.Timing {
	l.mu.Lock()
	defer l.mu.Unlock()
	return inter.Timing{
		ClaimActivationTime:      getClaimActivationTime(l.db),
		ProxyClaimActivationTime: getProxyClaimActivationTime(l.db),
	}
}

// Thresholds returns the current fast-claim windows.
func (l *Ledger) Thresholds() inter.Thresholds {
	l.mu.Lock()
	defer l.mu.Unlock()
	first, second := getThresholds(l.db)
	return inter.Thresholds{First: time.Duration(first), Second: time.Duration(second)}
}

// IsExcluded reports whether addr is in the DEX exclusion set.
func (l *Ledger) IsExcluded(addr common.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return isExcluded(l.db, addr)
}

// ExcludedDexes lists the exclusion set. The order is not stable across
// removals.
func (l *Ledger) ExcludedDexes() []common.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	return listExcluded(l.db)
}

// DropCompleted reports whether the future-growth payout has happened.
func (l *Ledger) DropCompleted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return isDropCompleted(l.db)
}

// BalanceOf returns the token balance of addr.
func (l *Ledger) BalanceOf(addr common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token.BalanceOf(addr)
}
