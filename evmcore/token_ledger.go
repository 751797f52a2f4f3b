// Package evmcore provides the token ledger the claimdrop runs against.
//
// Balances live in a go-ethereum StateDB as native account balances, so every
// token movement shares the StateDB journal with the claimdrop storage slots.
// A caller that snapshots the StateDB before an operation and reverts on
// failure rolls back balances and claim state together.
//
// Key concepts:
//   - Mint: genesis-only supply creation, no hooks
//   - Move: unconditional internal transfer used by settlement and payouts
//   - Transfer: the user-facing transfer, rejecting the zero address
//   - Move hooks: observers called after every Move, including transfers the
//     claimdrop did not initiate
package evmcore

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
)

var (
	ErrInsufficientFunds = errors.New("transfer amount exceeds balance")
	ErrZeroAddress       = errors.New("transfer to the zero address")
	ErrNegativeAmount    = errors.New("negative token amount")
)

// supplySlot stores the total supply in the token account's storage.
var supplySlot = common.BytesToHash(crypto.Keccak256([]byte("totalSupply")))

// BalanceDB is the subset of *state.StateDB the token ledger needs.
type BalanceDB interface {
	GetBalance(addr common.Address) *big.Int
	AddBalance(addr common.Address, amount *big.Int)
	SubBalance(addr common.Address, amount *big.Int)
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)
}

// MoveHook observes a completed token movement. It runs synchronously, after
// the balances have been updated.
type MoveHook func(from, to common.Address, amount *big.Int)

type moveHook struct {
	id uint64
	fn MoveHook
}

// TokenLedger is a fixed-supply fungible token over a StateDB.
//
// TokenLedger does not lock. The host serializes calls; the claimdrop ledger
// does so with its own mutex.
type TokenLedger struct {
	db      BalanceDB
	account common.Address
	hooks   []moveHook
	lastID  uint64
	log     log.Logger
}

// NewTokenLedger creates a token ledger. account is where the total supply
// is recorded; it is normally the claimdrop contract account.
func NewTokenLedger(db BalanceDB, account common.Address) *TokenLedger {
	return &TokenLedger{
		db:      db,
		account: account,
		log:     log.New("module", "token"),
	}
}

// OnMove registers a hook called after every Move and Transfer. The returned
// func removes it again; calling it more than once is a no-op.
func (t *TokenLedger) OnMove(hook MoveHook) (detach func()) {
	t.lastID++
	id := t.lastID
	t.hooks = append(t.hooks, moveHook{id: id, fn: hook})
	return func() {
		for i, h := range t.hooks {
			if h.id == id {
				t.hooks = append(t.hooks[:i:i], t.hooks[i+1:]...)
				return
			}
		}
	}
}

// Hooks returns the number of registered move hooks.
func (t *TokenLedger) Hooks() int {
	return len(t.hooks)
}

// BalanceOf returns a copy of the balance of addr.
func (t *TokenLedger) BalanceOf(addr common.Address) *big.Int {
	return new(big.Int).Set(t.db.GetBalance(addr))
}

// TotalSupply returns the amount minted so far.
func (t *TokenLedger) TotalSupply() *big.Int {
	return t.db.GetState(t.account, supplySlot).Big()
}

// Mint creates amount new tokens at to. Hooks are not called: minting is a
// genesis operation and never carries transfer markers.
func (t *TokenLedger) Mint(to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	supply := new(big.Int).Add(t.TotalSupply(), amount)
	t.db.SetState(t.account, supplySlot, common.BigToHash(supply))
	t.db.AddBalance(to, amount)
	t.log.Debug("Minted tokens", "to", to, "amount", amount, "supply", supply)
	return nil
}

// Move transfers amount from one account to another without any policy
// check beyond balance sufficiency. The total supply is unchanged.
func (t *TokenLedger) Move(from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if bal := t.db.GetBalance(from); bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: have %v, want %v", ErrInsufficientFunds, bal, amount)
	}
	t.db.SubBalance(from, amount)
	t.db.AddBalance(to, amount)

	for _, hook := range t.hooks {
		hook.fn(from, to, amount)
	}
	t.log.Trace("Moved tokens", "from", from, "to", to, "amount", amount)
	return nil
}

// Transfer is the user-facing transfer. It rejects the zero address as
// recipient, since burns are not supported.
func (t *TokenLedger) Transfer(from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	return t.Move(from, to, amount)
}
