// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package evmcore

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/rony4d/go-claimdrop/claimdrop"
	"github.com/rony4d/go-claimdrop/claimdrop/genesis"
)

// NewMemoryState creates an empty StateDB over an in-memory database and
// returns the database too, so callers can keep other records next to it.
func NewMemoryState() (*state.StateDB, ethdb.Database, error) {
	db := rawdb.NewMemoryDatabase()
	statedb, err := state.New(common.Hash{}, state.NewDatabase(db), nil)
	if err != nil {
		return nil, nil, err
	}
	return statedb, db, nil
}

// ApplyGenesis mints the supply and pays the LP allocation.
//
// Process:
//  1. Mints Supply.MaxSupply to the pool
//  2. Moves Supply.LPAllocation from the pool to the owner
//  3. Pins the claimdrop contract account so its storage survives commits
//  4. Commits the state and returns the genesis state root
//
// The token ledger must be bound to statedb.
func ApplyGenesis(statedb *state.StateDB, token *TokenLedger, rules claimdrop.Rules, gen genesis.Genesis) (common.Hash, error) {
	if err := gen.Validate(); err != nil {
		return common.Hash{}, err
	}
	if token.TotalSupply().Sign() != 0 {
		return common.Hash{}, fmt.Errorf("genesis already applied: supply %v", token.TotalSupply())
	}

	if err := token.Mint(gen.Pool, rules.Tokens(rules.Supply.MaxSupply)); err != nil {
		return common.Hash{}, fmt.Errorf("mint supply: %w", err)
	}
	if err := token.Move(gen.Pool, gen.Owner, rules.Tokens(rules.Supply.LPAllocation)); err != nil {
		return common.Hash{}, fmt.Errorf("pay LP allocation: %w", err)
	}

	// An account without nonce, balance and code counts as empty and is
	// deleted on commit together with its storage.
	if statedb.GetNonce(claimdrop.ContractAddress) == 0 {
		statedb.SetNonce(claimdrop.ContractAddress, 1)
	}

	root, err := flush(statedb, true)
	if err != nil {
		return common.Hash{}, err
	}
	log.Info("Applied claimdrop genesis", "profile", rules.Name, "owner", gen.Owner,
		"pool", gen.Pool, "time", gen.Time, "root", root)
	return root, nil
}

// MustApplyGenesis is ApplyGenesis for tests and tooling; it logs a critical
// error and exits on failure.
func MustApplyGenesis(statedb *state.StateDB, token *TokenLedger, rules claimdrop.Rules, gen genesis.Genesis) common.Hash {
	root, err := ApplyGenesis(statedb, token, rules, gen)
	if err != nil {
		log.Crit("ApplyGenesis", "err", err)
	}
	return root
}

// flush commits state changes to the database and returns the state root.
// clean=false additionally caps the trie cache.
func flush(statedb *state.StateDB, clean bool) (root common.Hash, err error) {
	root, err = statedb.Commit(clean)
	if err != nil {
		return
	}
	err = statedb.Database().TrieDB().Commit(root, false, nil)
	if err != nil {
		return
	}
	if !clean {
		err = statedb.Database().TrieDB().Cap(0)
	}
	return
}

// FakeKey generates a deterministic private key for tests: the same n always
// yields the same key.
func FakeKey(n int) *ecdsa.PrivateKey {
	seed := crypto.Keccak256([]byte("claimdrop fake key"), bigendian.Uint64ToBytes(uint64(n)))

	key, err := crypto.ToECDSA(seed)
	if err != nil {
		panic(err)
	}
	return key
}

// FakeAddress is the account address of FakeKey(n).
func FakeAddress(n int) common.Address {
	return crypto.PubkeyToAddress(FakeKey(n).PublicKey)
}
