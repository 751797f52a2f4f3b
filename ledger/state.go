package ledger

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rony4d/go-claimdrop/claimdrop"
	"github.com/rony4d/go-claimdrop/inter"
)

// StateDB is the subset of *state.StateDB that holds the claimdrop record.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)
	GetNonce(addr common.Address) uint64
	SetNonce(addr common.Address, nonce uint64)
	Snapshot() int
	RevertToSnapshot(revid int)
}

// --- slot derivation ---

func globalSlot(field string) common.Hash {
	return crypto.Keccak256Hash([]byte("claimdrop\x00" + field))
}

func accountSlot(addr common.Address, field string) common.Hash {
	key := append(addr.Bytes(), []byte(field)...)
	return common.BytesToHash(crypto.Keccak256(key))
}

func dexListSlot(i uint64) common.Hash {
	return crypto.Keccak256Hash([]byte("claimdrop\x00dexList\x00"), bigendian.Uint64ToBytes(i))
}

var (
	phaseOrdinalSlot   = globalSlot("phase.ordinal")
	phaseActiveSlot    = globalSlot("phase.active")
	phaseStartSlot     = globalSlot("phase.start")
	phaseRemainingSlot = globalSlot("phase.remaining")
	claimGateSlot      = globalSlot("timing.claim")
	proxyGateSlot      = globalSlot("timing.proxy")
	firstWindowSlot    = globalSlot("threshold.first")
	secondWindowSlot   = globalSlot("threshold.second")
	dropCompletedSlot  = globalSlot("drop.completed")
	dexCountSlot       = globalSlot("dexCount")
)

// --- value codecs ---

func getUint64(db StateDB, slot common.Hash) uint64 {
	h := db.GetState(claimdrop.ContractAddress, slot)
	return bigendian.BytesToUint64(h[common.HashLength-8:])
}

func setUint64(db StateDB, slot common.Hash, v uint64) {
	db.SetState(claimdrop.ContractAddress, slot, common.BytesToHash(bigendian.Uint64ToBytes(v)))
}

func getTimestamp(db StateDB, slot common.Hash) inter.Timestamp {
	h := db.GetState(claimdrop.ContractAddress, slot)
	return inter.BytesToTimestamp(h[common.HashLength-8:])
}

func setTimestamp(db StateDB, slot common.Hash, t inter.Timestamp) {
	db.SetState(claimdrop.ContractAddress, slot, common.BytesToHash(t.Bytes()))
}

func getBig(db StateDB, slot common.Hash) *big.Int {
	return db.GetState(claimdrop.ContractAddress, slot).Big()
}

func setBig(db StateDB, slot common.Hash, v *big.Int) {
	db.SetState(claimdrop.ContractAddress, slot, common.BigToHash(v))
}

func getBool(db StateDB, slot common.Hash) bool {
	return getUint64(db, slot) != 0
}

func setBool(db StateDB, slot common.Hash, v bool) {
	if v {
		setUint64(db, slot, 1)
	} else {
		db.SetState(claimdrop.ContractAddress, slot, common.Hash{})
	}
}

// --- phase record ---

func getPhaseOrdinal(db StateDB) uint8 {
	return uint8(getUint64(db, phaseOrdinalSlot))
}

func setPhaseOrdinal(db StateDB, ordinal uint8) {
	setUint64(db, phaseOrdinalSlot, uint64(ordinal))
}

func isPhaseActive(db StateDB) bool {
	return getBool(db, phaseActiveSlot)
}

func setPhaseActive(db StateDB, active bool) {
	setBool(db, phaseActiveSlot, active)
}

func getPhaseStart(db StateDB) inter.Timestamp {
	return getTimestamp(db, phaseStartSlot)
}

func setPhaseStart(db StateDB, t inter.Timestamp) {
	setTimestamp(db, phaseStartSlot, t)
}

func getRemainingBudget(db StateDB) *big.Int {
	return getBig(db, phaseRemainingSlot)
}

func setRemainingBudget(db StateDB, v *big.Int) {
	setBig(db, phaseRemainingSlot, v)
}

// --- settlement gates ---

func getClaimActivationTime(db StateDB) inter.Timestamp {
	return getTimestamp(db, claimGateSlot)
}

func getProxyClaimActivationTime(db StateDB) inter.Timestamp {
	return getTimestamp(db, proxyGateSlot)
}

func setActivationTimes(db StateDB, claim, proxy inter.Timestamp) {
	setTimestamp(db, claimGateSlot, claim)
	setTimestamp(db, proxyGateSlot, proxy)
}

// --- fast-claim windows, stored in nanoseconds ---

func getThresholds(db StateDB) (first, second uint64) {
	return getUint64(db, firstWindowSlot), getUint64(db, secondWindowSlot)
}

func setThresholds(db StateDB, first, second uint64) {
	setUint64(db, firstWindowSlot, first)
	setUint64(db, secondWindowSlot, second)
}

// --- drop completion ---

func isDropCompleted(db StateDB) bool {
	return getBool(db, dropCompletedSlot)
}

func markDropCompleted(db StateDB) {
	setBool(db, dropCompletedSlot, true)
}

// --- claim accounts ---

func getClaimCount(db StateDB, addr common.Address) uint64 {
	return getUint64(db, accountSlot(addr, "claimCount"))
}

func incClaimCount(db StateDB, addr common.Address) {
	slot := accountSlot(addr, "claimCount")
	setUint64(db, slot, getUint64(db, slot)+1)
}

func getPendingClaim(db StateDB, addr common.Address) *big.Int {
	return getBig(db, accountSlot(addr, "pendingClaim"))
}

func addPendingClaim(db StateDB, addr common.Address, delta *big.Int) {
	cur := getPendingClaim(db, addr)
	setBig(db, accountSlot(addr, "pendingClaim"), cur.Add(cur, delta))
}

func clearPendingClaim(db StateDB, addr common.Address) {
	db.SetState(claimdrop.ContractAddress, accountSlot(addr, "pendingClaim"), common.Hash{})
}

func getLastProxyClaimTime(db StateDB, addr common.Address) inter.Timestamp {
	return getTimestamp(db, accountSlot(addr, "lastProxyClaimTime"))
}

func setLastProxyClaimTime(db StateDB, addr common.Address, t inter.Timestamp) {
	setTimestamp(db, accountSlot(addr, "lastProxyClaimTime"), t)
}

func getTransferAmountUsed(db StateDB, addr common.Address) *big.Int {
	return getBig(db, accountSlot(addr, "transferAmountUsed"))
}

func addTransferAmountUsed(db StateDB, addr common.Address, delta *big.Int) {
	cur := getTransferAmountUsed(db, addr)
	setBig(db, accountSlot(addr, "transferAmountUsed"), cur.Add(cur, delta))
}

// --- exclusion set ---
//
// Members are kept in a dense list (dexList[0..dexCount)) so the set can be
// enumerated; dexIndex holds the 1-based list position of a member and zero
// for non-members.

func getDexIndex(db StateDB, addr common.Address) uint64 {
	return getUint64(db, accountSlot(addr, "dexIndex"))
}

func isExcluded(db StateDB, addr common.Address) bool {
	return getDexIndex(db, addr) != 0
}

func getDexAt(db StateDB, i uint64) common.Address {
	return common.BytesToAddress(db.GetState(claimdrop.ContractAddress, dexListSlot(i)).Bytes())
}

func setDexAt(db StateDB, i uint64, addr common.Address) {
	db.SetState(claimdrop.ContractAddress, dexListSlot(i), common.BytesToHash(addr.Bytes()))
}

func addExcluded(db StateDB, addr common.Address) {
	n := getUint64(db, dexCountSlot)
	setDexAt(db, n, addr)
	setUint64(db, accountSlot(addr, "dexIndex"), n+1)
	setUint64(db, dexCountSlot, n+1)
}

// removeExcluded swaps the last member into the freed position.
func removeExcluded(db StateDB, addr common.Address) {
	idx := getDexIndex(db, addr)
	if idx == 0 {
		return
	}
	last := getUint64(db, dexCountSlot) - 1
	if pos := idx - 1; pos != last {
		moved := getDexAt(db, last)
		setDexAt(db, pos, moved)
		setUint64(db, accountSlot(moved, "dexIndex"), idx)
	}
	db.SetState(claimdrop.ContractAddress, dexListSlot(last), common.Hash{})
	db.SetState(claimdrop.ContractAddress, accountSlot(addr, "dexIndex"), common.Hash{})
	setUint64(db, dexCountSlot, last)
}

func listExcluded(db StateDB) []common.Address {
	n := getUint64(db, dexCountSlot)
	out := make([]common.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		out = append(out, getDexAt(db, i))
	}
	return out
}
