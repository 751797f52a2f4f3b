package ledger

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-claimdrop/inter"
)

// activatePhase starts the next ordinal with a fresh budget and a fresh
// randomness salt.
func (l *Ledger) activatePhase(caller common.Address, now inter.Timestamp) error {
	ordinal := getPhaseOrdinal(l.db)
	if ordinal >= inter.MaxPhase {
		return ErrPhaseLimitExceeded
	}
	l.rand.Reseed(caller, now)

	ordinal++
	allocation := l.rules.PhaseAllocation(ordinal)
	setPhaseOrdinal(l.db, ordinal)
	setPhaseStart(l.db, now)
	setPhaseActive(l.db, true)
	setRemainingBudget(l.db, allocation)

	l.emit(inter.PhaseActivated{Phase: ordinal, Allocation: allocation})
	phaseGauge.Update(int64(ordinal))
	l.log.Info("Phase activated", "phase", ordinal, "allocation", allocation, "start", now)
	return nil
}

// endPhase closes the active phase and opens the settlement gates relative
// to now. It is shared by the manual admin path and budget exhaustion.
func (l *Ledger) endPhase(now inter.Timestamp) error {
	ordinal := getPhaseOrdinal(l.db)
	if ordinal == 0 {
		return ErrNoActivePhase
	}
	if !isPhaseActive(l.db) {
		return ErrPhaseAlreadyEnded
	}
	setPhaseActive(l.db, false)

	timing := l.rules.Timing
	setActivationTimes(l.db, now.Add(timing.ClaimDelay), now.Add(timing.ProxyClaimDelay))

	l.emit(inter.PhaseEnded{Phase: ordinal, Time: now})
	l.log.Info("Phase ended", "phase", ordinal, "time", now,
		"remaining", getRemainingBudget(l.db))
	return nil
}
