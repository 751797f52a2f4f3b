package ledger

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-claimdrop/claimdrop"
	"github.com/rony4d/go-claimdrop/inter"
)

func TestAdmin_ownerOnly(t *testing.T) {
	env := newTestEnv(t, claimdrop.StandardRules())

	tests := []struct {
		name string
		call func() error
	}{
		{"ActivatePhase", func() error { return env.ActivatePhase(alice) }},
		{"EndPhaseManually", func() error { return env.EndPhaseManually(alice) }},
		{"CompleteClaimDrop", func() error { return env.CompleteClaimDrop(alice) }},
		{"ExcludeDex", func() error { return env.ExcludeDex(alice, dex) }},
		{"IncludeDex", func() error { return env.IncludeDex(alice, dex) }},
		{"UpdateTimeThresholds", func() error { return env.UpdateTimeThresholds(alice, time.Second, time.Minute) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, ErrNotOwner)
			require.Equal(t, KindAuthorization, ErrorKind(err))
		})
	}
	require.Empty(t, env.drain())
}

// TestCompleteClaimDrop runs the three-phase completion scenario.
func TestCompleteClaimDrop(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, claimdrop.StandardRules())

	lp := env.BalanceOf(owner)
	require.ErrorIs(env.CompleteClaimDrop(owner), ErrNotReady)

	for i := 1; i <= int(inter.MaxPhase); i++ {
		require.NoError(env.ActivatePhase(owner))
		if i == int(inter.MaxPhase) {
			err := env.CompleteClaimDrop(owner)
			require.ErrorIs(err, ErrNotReady)
			require.EqualError(err, "only after 3 drops")
		}
		env.clock.Advance(time.Minute)
		require.NoError(env.EndPhaseManually(owner))
	}
	env.drain()

	require.NoError(env.CompleteClaimDrop(owner))
	require.True(env.DropCompleted())

	payout := env.tokens(2_000_000)
	require.Equal(0, env.BalanceOf(owner).Cmp(lp.Add(lp, payout)))
	require.Equal([]inter.Event{inter.DropCompleted{Owner: owner, Amount: payout}}, env.drain())

	require.ErrorIs(env.CompleteClaimDrop(owner), ErrDropAlreadyCompleted)
	require.True(env.DropCompleted())
}

func TestExcludeDex(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, claimdrop.StandardRules())

	require.ErrorIs(env.ExcludeDex(owner, common.Address{}), ErrZeroAddress)
	require.ErrorIs(env.IncludeDex(owner, dex), ErrNotExcluded)

	require.NoError(env.ExcludeDex(owner, dex))
	require.True(env.IsExcluded(dex))
	require.ErrorIs(env.ExcludeDex(owner, dex), ErrAlreadyExcluded)

	require.NoError(env.ExcludeDex(owner, alice))
	require.NoError(env.ExcludeDex(owner, bob))
	require.ElementsMatch([]common.Address{dex, alice, bob}, env.ExcludedDexes())

	// Removing from the middle keeps the rest enumerable.
	require.NoError(env.IncludeDex(owner, dex))
	require.False(env.IsExcluded(dex))
	require.ElementsMatch([]common.Address{alice, bob}, env.ExcludedDexes())
	require.True(env.IsExcluded(alice))
	require.True(env.IsExcluded(bob))

	require.NoError(env.IncludeDex(owner, bob))
	require.NoError(env.IncludeDex(owner, alice))
	require.Empty(env.ExcludedDexes())

	require.Equal([]inter.Event{
		inter.DexExcluded{Dex: dex},
		inter.DexExcluded{Dex: alice},
		inter.DexExcluded{Dex: bob},
		inter.DexIncluded{Dex: dex},
		inter.DexIncluded{Dex: bob},
		inter.DexIncluded{Dex: alice},
	}, env.drain())
}

func TestUpdateTimeThresholds(t *testing.T) {
	env := newTestEnv(t, claimdrop.StandardRules())

	tests := []struct {
		name          string
		first, second time.Duration
		wantErr       error
	}{
		{"valid", 2 * time.Second, 20 * time.Second, nil},
		{"zero first", 0, time.Second, nil},
		{"equal", 10 * time.Second, 10 * time.Second, ErrInvalidThresholds},
		{"inverted", 20 * time.Second, 10 * time.Second, ErrInvalidThresholds},
		{"negative", -time.Second, 10 * time.Second, ErrInvalidThresholds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.Thresholds()
			err := env.UpdateTimeThresholds(owner, tt.first, tt.second)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, before, env.Thresholds())
				return
			}
			require.NoError(t, err)
			require.Equal(t, inter.Thresholds{First: tt.first, Second: tt.second}, env.Thresholds())
		})
	}
}
