package ledger

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-claimdrop/inter"
)

// Claim credits a pending claim to caller and returns its amount in base
// units. The amount depends on how long the phase has been running:
//
//   - up to the first threshold: a fixed fast allocation
//   - up to the second threshold: a random draw in the window range
//   - afterwards: a random draw up to a cap scaled by the caller's balance and
//     reduced by the number of such claims the caller has made before
//
// A claim larger than the remaining budget is clamped to it and ends the
// phase. The amount can be zero once the budget is exhausted.
func (l *Ledger) Claim(caller common.Address) (*big.Int, error) {
	var amount *big.Int
	err := l.atomic("claim", func(now inter.Timestamp) error {
		var err error
		amount, err = l.claim(caller, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}

func (l *Ledger) claim(caller common.Address, now inter.Timestamp) (*big.Int, error) {
	start := getPhaseStart(l.db)
	if !isPhaseActive(l.db) || now < start {
		return nil, ErrClaimdropInactive
	}

	tokens := l.claimSize(caller, now.Sub(start), now)
	amount := new(big.Int).Mul(new(big.Int).SetUint64(tokens), l.unit)

	remaining := getRemainingBudget(l.db)
	if amount.Cmp(remaining) > 0 {
		amount.Set(remaining)
		if isPhaseActive(l.db) {
			if err := l.endPhase(now); err != nil {
				return nil, err
			}
		}
	}

	addPendingClaim(l.db, caller, amount)
	setRemainingBudget(l.db, remaining.Sub(remaining, amount))

	l.emit(inter.ClaimMade{Account: caller, Amount: new(big.Int).Set(amount)})
	claimCounter.Inc(1)
	l.log.Debug("Claim made", "account", caller, "amount", amount, "remaining", remaining)
	return amount, nil
}

// claimSize returns the claim in whole tokens and bumps the caller's claim
// count for balance-scaled claims.
func (l *Ledger) claimSize(caller common.Address, elapsed time.Duration, now inter.Timestamp) uint64 {
	first, second := getThresholds(l.db)
	rules := l.rules.Claims

	switch {
	case elapsed <= time.Duration(first):
		return rules.FastAllocation
	case elapsed <= time.Duration(second):
		return l.rand.Draw(caller, now, rules.WindowMin, rules.WindowMax)
	}

	limit := rules.MinAllocation
	if balance := l.token.BalanceOf(caller); balance.Sign() > 0 {
		whole := new(big.Int).Div(balance, l.unit)
		limit = rules.MaxAllocation
		if whole.IsUint64() && whole.Uint64() < limit {
			limit = whole.Uint64()
		}
	}
	limit = applyMultiplier(limit, getClaimCount(l.db, caller))
	if limit < rules.MinAllocation {
		limit = rules.MinAllocation
	}

	tokens := l.rand.Draw(caller, now, rules.MinAllocation, limit)
	incClaimCount(l.db, caller)
	return tokens
}
