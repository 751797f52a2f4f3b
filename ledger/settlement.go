package ledger

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-claimdrop/inter"
)

// SettleOwn pays caller's pending claim out of the pool.
//
// The caller must hold at least the pending amount on top of the balance
// already counted toward earlier settlements; the settled amount is added to
// that used total. Returns the settled amount.
func (l *Ledger) SettleOwn(caller common.Address) (*big.Int, error) {
	var amount *big.Int
	err := l.atomic("settleOwn", func(now inter.Timestamp) error {
		gate := getClaimActivationTime(l.db)
		if gate.IsZero() || now < gate {
			return ErrTransferNotActive
		}
		pending := getPendingClaim(l.db, caller)
		if pending.Sign() == 0 {
			return ErrNoPendingClaim
		}
		if free := l.freeBalance(caller); free.Cmp(pending) < 0 {
			return fmt.Errorf("%w: free %v, pending %v", ErrInsufficientBalance, free, pending)
		}

		// Effects before the token move.
		clearPendingClaim(l.db, caller)
		addTransferAmountUsed(l.db, caller, pending)

		if err := l.token.Move(l.pool, caller, pending); err != nil {
			return err
		}
		amount = pending
		l.emit(inter.ClaimSettled{Account: caller, Amount: new(big.Int).Set(pending)})
		settleCounter.Inc(1)
		l.log.Debug("Claim settled", "account", caller, "amount", pending)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}

// SettleFor lets proxy pay wallet's pending claim out of the pool.
//
// The proxy must hold at least the pending amount net of its own used total,
// and may act once per proxy cooldown. Settling starts the proxy's cooldown
// regardless of the amount. The wallet's used total is not touched.
func (l *Ledger) SettleFor(proxy, wallet common.Address) (*big.Int, error) {
	var amount *big.Int
	err := l.atomic("settleFor", func(now inter.Timestamp) error {
		gate := getProxyClaimActivationTime(l.db)
		if gate.IsZero() || now < gate {
			return ErrProxyNotActive
		}
		pending := getPendingClaim(l.db, wallet)
		if pending.Sign() == 0 {
			return ErrNoPendingClaimForWallet
		}
		if free := l.freeBalance(proxy); free.Cmp(pending) < 0 {
			return fmt.Errorf("%w: free %v, pending %v", ErrInsufficientProxyBalance, free, pending)
		}
		if last := getLastProxyClaimTime(l.db, proxy); !last.IsZero() {
			if next := last.Add(l.rules.Timing.ProxyCooldown); now < next {
				return fmt.Errorf("%w: next proxy claim at %v", ErrCooldownActive, next)
			}
		}

		setLastProxyClaimTime(l.db, proxy, now)
		clearPendingClaim(l.db, wallet)

		if err := l.token.Move(l.pool, wallet, pending); err != nil {
			return err
		}
		amount = pending
		l.emit(inter.ProxyClaimSettled{Proxy: proxy, Wallet: wallet, Amount: new(big.Int).Set(pending)})
		proxySettleCounter.Inc(1)
		l.log.Debug("Proxy claim settled", "proxy", proxy, "wallet", wallet, "amount", pending)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}

// freeBalance is the balance of addr not yet counted toward a settlement.
// It can be negative after tokens have left the account.
func (l *Ledger) freeBalance(addr common.Address) *big.Int {
	free := l.token.BalanceOf(addr)
	return free.Sub(free, getTransferAmountUsed(l.db, addr))
}
