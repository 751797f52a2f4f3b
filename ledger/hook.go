package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// onTransfer carries the anti-abuse markers of the sender over to the
// receiver of every token move: the proxy cooldown is copied and the used
// balance is accumulated. Mints and burns, moves touching the pool or an
// excluded DEX, self-transfers and everything after drop completion are
// ignored.
//
// The hook runs inside the caller's operation, so a reverted operation also
// reverts the propagation.
func (l *Ledger) onTransfer(from, to common.Address, _ *big.Int) {
	if from == to || from == (common.Address{}) || to == (common.Address{}) {
		return
	}
	if from == l.pool || to == l.pool {
		return
	}
	if isDropCompleted(l.db) {
		return
	}
	if isExcluded(l.db, from) || isExcluded(l.db, to) {
		return
	}

	if last := getLastProxyClaimTime(l.db, from); !last.IsZero() {
		setLastProxyClaimTime(l.db, to, last)
	}
	if used := getTransferAmountUsed(l.db, from); used.Sign() > 0 {
		addTransferAmountUsed(l.db, to, used)
	}
}
