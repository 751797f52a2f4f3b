package ledger

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-claimdrop/inter"
)

// ActivatePhase starts the next phase. Owner only.
func (l *Ledger) ActivatePhase(caller common.Address) error {
	return l.atomic("activatePhase", func(now inter.Timestamp) error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		return l.activatePhase(caller, now)
	})
}

// EndPhaseManually ends the active phase before its budget runs out. Owner only.
func (l *Ledger) EndPhaseManually(caller common.Address) error {
	return l.atomic("endPhase", func(now inter.Timestamp) error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		return l.endPhase(now)
	})
}

// CompleteClaimDrop pays the future-growth allocation to the owner and stops
// marker propagation for good. It is only available once the third phase has
// ended, and only once. Owner only.
func (l *Ledger) CompleteClaimDrop(caller common.Address) error {
	return l.atomic("completeClaimDrop", func(inter.Timestamp) error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		if isDropCompleted(l.db) {
			return ErrDropAlreadyCompleted
		}
		if getPhaseOrdinal(l.db) != inter.MaxPhase || isPhaseActive(l.db) {
			return ErrNotReady
		}
		markDropCompleted(l.db)

		amount := l.rules.Tokens(l.rules.Supply.FutureGrowthAllocation)
		if err := l.token.Move(l.pool, l.owner, amount); err != nil {
			return err
		}
		l.emit(inter.DropCompleted{Owner: l.owner, Amount: amount})
		l.log.Info("Claimdrop completed", "owner", l.owner, "payout", amount)
		return nil
	})
}

// ExcludeDex adds dex to the exclusion set. Owner only.
func (l *Ledger) ExcludeDex(caller, dex common.Address) error {
	return l.atomic("excludeDex", func(inter.Timestamp) error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		if dex == (common.Address{}) {
			return ErrZeroAddress
		}
		if isExcluded(l.db, dex) {
			return ErrAlreadyExcluded
		}
		addExcluded(l.db, dex)
		l.emit(inter.DexExcluded{Dex: dex})
		l.log.Info("DEX excluded", "dex", dex)
		return nil
	})
}

// IncludeDex removes dex from the exclusion set. Owner only.
func (l *Ledger) IncludeDex(caller, dex common.Address) error {
	return l.atomic("includeDex", func(inter.Timestamp) error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		if !isExcluded(l.db, dex) {
			return ErrNotExcluded
		}
		removeExcluded(l.db, dex)
		l.emit(inter.DexIncluded{Dex: dex})
		l.log.Info("DEX included", "dex", dex)
		return nil
	})
}

// UpdateTimeThresholds retunes the fast-claim windows. first must be
// non-negative and lower than second. Owner only.
func (l *Ledger) UpdateTimeThresholds(caller common.Address, first, second time.Duration) error {
	return l.atomic("updateTimeThresholds", func(inter.Timestamp) error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		if first < 0 || first >= second {
			return fmt.Errorf("%w: %v, %v", ErrInvalidThresholds, first, second)
		}
		setThresholds(l.db, uint64(first), uint64(second))
		l.emit(inter.ThresholdsUpdated{First: uint64(first), Second: uint64(second)})
		l.log.Info("Claim thresholds updated", "first", first, "second", second)
		return nil
	})
}
