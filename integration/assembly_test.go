package integration

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-claimdrop/claimdrop"
	"github.com/rony4d/go-claimdrop/claimdrop/genesis"
	"github.com/rony4d/go-claimdrop/evmcore"
	"github.com/rony4d/go-claimdrop/inter"
	"github.com/rony4d/go-claimdrop/ledger"
)

var (
	start = inter.FromUnix(1_700_000_000)

	owner  = evmcore.FakeAddress(0)
	alice  = evmcore.FakeAddress(1)
	bob    = evmcore.FakeAddress(2)
	proxy  = evmcore.FakeAddress(3)
	dexA   = evmcore.FakeAddress(10)
	dexB   = evmcore.FakeAddress(11)
	tokens = claimdrop.StandardRules().Tokens
)

func newTestAssembly(t *testing.T, rules claimdrop.Rules, opts Options) (*Assembly, *ledger.ManualClock) {
	t.Helper()
	clock := ledger.NewManualClock(start)
	opts.Clock = clock
	opts.Randomness = ledger.NewSaltedSource(func() []byte { return []byte("assembly") })

	a, err := New(rules, genesis.New(owner, start), opts)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, clock
}

func TestApplyOverrides(t *testing.T) {
	rules := claimdrop.ReducedRules()
	ApplyOverrides(&rules, Overrides{SecondThreshold: time.Minute})

	require.Equal(t, 5*time.Second, rules.Timing.FirstThreshold)
	require.Equal(t, time.Minute, rules.Timing.SecondThreshold)
	require.Equal(t, 10*time.Minute, rules.Timing.ProxyCooldown)

	ApplyOverrides(&rules, Overrides{FirstThreshold: time.Second, ProxyCooldown: time.Hour})
	require.Equal(t, time.Second, rules.Timing.FirstThreshold)
	require.Equal(t, time.Hour, rules.Timing.ProxyCooldown)
}

func TestNew_invalid(t *testing.T) {
	require := require.New(t)

	rules := claimdrop.StandardRules()
	rules.Timing.FirstThreshold = time.Hour
	_, err := New(rules, genesis.New(owner, start), Options{})
	require.ErrorIs(err, claimdrop.ErrBadThresholds)

	_, err = New(claimdrop.StandardRules(), genesis.New(common.Address{}, start), Options{})
	require.ErrorIs(err, genesis.ErrNoOwner)

	_, err = New(claimdrop.StandardRules(), genesis.New(owner, start), Options{Exclude: []common.Address{dexA, dexA}})
	require.ErrorIs(err, ledger.ErrAlreadyExcluded)
}

func TestNew_genesis(t *testing.T) {
	require := require.New(t)
	a, _ := newTestAssembly(t, claimdrop.StandardRules(), Options{Exclude: []common.Address{dexA, dexB}})

	require.NotEqual(common.Hash{}, a.Root)
	require.Equal(0, a.TotalSupply().Cmp(tokens(10_000_000)))
	require.Equal(0, a.Ledger.BalanceOf(owner).Cmp(tokens(1_000_000)))
	require.Equal(0, a.Ledger.BalanceOf(claimdrop.ContractAddress).Cmp(tokens(9_000_000)))
	require.ElementsMatch([]common.Address{dexA, dexB}, a.Ledger.ExcludedDexes())
}

// TestThreePhaseDrop runs every phase to its end with claims and
// settlements in between, then completes the drop, and checks that the
// supply is conserved throughout.
func TestThreePhaseDrop(t *testing.T) {
	require := require.New(t)
	a, clock := newTestAssembly(t, claimdrop.StandardRules(), Options{Journal: true})
	l := a.Ledger

	require.NoError(l.Transfer(owner, alice, tokens(100)))
	require.NoError(l.Transfer(owner, bob, tokens(100)))

	for phase := uint8(1); phase <= inter.MaxPhase; phase++ {
		require.NoError(l.ActivatePhase(owner))
		require.Equal(phase, l.Phase().Ordinal)

		_, err := l.Claim(alice)
		require.NoError(err)
		clock.Advance(20 * time.Second)
		_, err = l.Claim(bob)
		require.NoError(err)

		if phase == inter.MaxPhase {
			require.ErrorIs(l.CompleteClaimDrop(owner), ledger.ErrNotReady)
		}
		require.NoError(l.EndPhaseManually(owner))

		clock.Advance(30 * time.Minute)
		_, err = l.SettleOwn(alice)
		require.NoError(err)
		_, err = l.SettleOwn(bob)
		require.NoError(err)
	}
	require.ErrorIs(l.ActivatePhase(owner), ledger.ErrPhaseLimitExceeded)

	lp := l.BalanceOf(owner)
	require.NoError(l.CompleteClaimDrop(owner))
	require.True(l.DropCompleted())
	require.Equal(0, l.BalanceOf(owner).Cmp(new(big.Int).Add(lp, tokens(2_000_000))))
	require.ErrorIs(l.CompleteClaimDrop(owner), ledger.ErrDropAlreadyCompleted)

	sum := new(big.Int)
	for _, addr := range []common.Address{owner, alice, bob, claimdrop.ContractAddress} {
		sum.Add(sum, l.BalanceOf(addr))
	}
	require.Equal(0, sum.Cmp(a.TotalSupply()))

	var completed int
	require.NoError(a.Journal.Replay(0, func(r inter.Record) error {
		if r.Event.Kind() == inter.KindDropCompleted {
			completed++
		}
		return nil
	}))
	require.Equal(1, completed)
}

// TestProxyCooldown runs the proxy scenario on the reduced profile with its
// 10 minute cooldown.
func TestProxyCooldown(t *testing.T) {
	require := require.New(t)
	a, clock := newTestAssembly(t, claimdrop.ReducedRules(), Options{})
	l := a.Ledger

	require.NoError(l.Transfer(owner, proxy, tokens(5)))
	require.NoError(l.ActivatePhase(owner))
	_, err := l.Claim(alice)
	require.NoError(err)
	_, err = l.Claim(bob)
	require.NoError(err)
	require.NoError(l.EndPhaseManually(owner))

	clock.Advance(time.Hour)
	_, err = l.SettleFor(proxy, alice)
	require.NoError(err)
	_, err = l.SettleFor(proxy, bob)
	require.ErrorIs(err, ledger.ErrCooldownActive)

	clock.Advance(10 * time.Minute)
	_, err = l.SettleFor(proxy, bob)
	require.NoError(err)
	require.Equal(0, l.BalanceOf(bob).Cmp(tokens(1)))
}

// TestDexHop checks that a proxy cannot shed its cooldown by routing its
// tokens through an excluded DEX, while a direct transfer carries it.
func TestDexHop(t *testing.T) {
	require := require.New(t)
	a, clock := newTestAssembly(t, claimdrop.ReducedRules(), Options{Exclude: []common.Address{dexA}})
	l := a.Ledger

	require.NoError(l.Transfer(owner, proxy, tokens(5)))
	require.NoError(l.ActivatePhase(owner))
	_, err := l.Claim(alice)
	require.NoError(err)
	require.NoError(l.EndPhaseManually(owner))

	clock.Advance(time.Hour)
	_, err = l.SettleFor(proxy, alice)
	require.NoError(err)
	cooldown := l.Account(proxy).LastProxyClaimTime

	// Via the DEX: the receiver starts clean.
	require.NoError(l.Transfer(proxy, dexA, tokens(2)))
	require.NoError(l.Transfer(dexA, bob, tokens(2)))
	require.True(l.Account(bob).LastProxyClaimTime.IsZero())

	// Directly: the receiver inherits the cooldown.
	require.NoError(l.Transfer(proxy, alice, tokens(1)))
	require.Equal(cooldown, l.Account(alice).LastProxyClaimTime)
}

// TestTransfer_throughLedger checks that token transfers on an assembly run
// through the ledger: markers move with committed transfers and a failed
// transfer leaves balances and markers untouched.
func TestTransfer_throughLedger(t *testing.T) {
	require := require.New(t)
	a, clock := newTestAssembly(t, claimdrop.ReducedRules(), Options{})
	l := a.Ledger
	one := tokens(1)

	require.NoError(l.Transfer(owner, alice, one))
	require.NoError(l.ActivatePhase(owner))
	_, err := l.Claim(alice)
	require.NoError(err)
	require.NoError(l.EndPhaseManually(owner))
	clock.Advance(30 * time.Minute)
	_, err = l.SettleOwn(alice)
	require.NoError(err)
	require.Equal(0, l.Account(alice).TransferAmountUsed.Cmp(one))

	require.Error(l.Transfer(alice, bob, tokens(100)))
	require.Equal(0, l.Account(bob).TransferAmountUsed.Sign())
	require.Equal(0, l.BalanceOf(bob).Sign())

	require.NoError(l.Transfer(alice, bob, one))
	require.Equal(0, l.Account(bob).TransferAmountUsed.Cmp(one))
	require.Equal(0, a.TotalSupply().Cmp(tokens(10_000_000)))
}
