package claimdrop

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"
)

// TestStandardRules verifies the production profile constants.
func TestStandardRules(t *testing.T) {
	rules := StandardRules()

	if rules.Name != StandardProfile {
		t.Errorf("Name = %q, want %q", rules.Name, StandardProfile)
	}
	if rules.Decimals != 18 {
		t.Errorf("Decimals = %d, want 18", rules.Decimals)
	}

	want := [3]uint64{1_000_000, 2_000_000, 4_000_000}
	if rules.Phases.Allocations != want {
		t.Errorf("Allocations = %v, want %v", rules.Phases.Allocations, want)
	}
	if rules.Timing.ProxyCooldown != 30*time.Minute {
		t.Errorf("ProxyCooldown = %v, want 30m", rules.Timing.ProxyCooldown)
	}
	if err := rules.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

// TestReducedRules verifies that the reduced profile only changes the phase
// budgets and the proxy cooldown.
func TestReducedRules(t *testing.T) {
	std := StandardRules()
	rules := ReducedRules()

	if rules.Name != ReducedProfile {
		t.Errorf("Name = %q, want %q", rules.Name, ReducedProfile)
	}
	if rules.Phases.Allocations != [3]uint64{10, 20, 40} {
		t.Errorf("Allocations = %v", rules.Phases.Allocations)
	}
	if rules.Timing.ProxyCooldown != 10*time.Minute {
		t.Errorf("ProxyCooldown = %v, want 10m", rules.Timing.ProxyCooldown)
	}
	if rules.Supply != std.Supply {
		t.Errorf("Supply = %+v, want %+v", rules.Supply, std.Supply)
	}
	if rules.Timing.ClaimDelay != std.Timing.ClaimDelay || rules.Timing.ProxyClaimDelay != std.Timing.ProxyClaimDelay {
		t.Errorf("settlement delays differ from the standard profile")
	}
	if err := rules.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestRulesByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{"", StandardProfile, nil},
		{"standard", StandardProfile, nil},
		{"reduced", ReducedProfile, nil},
		{"huge", "", ErrUnknownProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RulesByName(tt.name)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got.Name != tt.want {
				t.Errorf("Name = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

// TestPhaseAllocation verifies the ordinal lookup table and its scaling.
func TestPhaseAllocation(t *testing.T) {
	rules := StandardRules()
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	tests := []struct {
		ordinal uint8
		tokens  int64
	}{
		{0, 0},
		{1, 1_000_000},
		{2, 2_000_000},
		{3, 4_000_000},
		{4, 0},
	}

	for _, tt := range tests {
		want := new(big.Int).Mul(big.NewInt(tt.tokens), unit)
		if got := rules.PhaseAllocation(tt.ordinal); got.Cmp(want) != 0 {
			t.Errorf("PhaseAllocation(%d) = %v, want %v", tt.ordinal, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Rules)
		wantErr error
	}{
		{"over allotted", func(r *Rules) { r.Supply.LPAllocation = 5_000_000 }, ErrSupplyOverAllotted},
		{"equal thresholds", func(r *Rules) { r.Timing.FirstThreshold = r.Timing.SecondThreshold }, ErrBadThresholds},
		{"inverted window", func(r *Rules) { r.Claims.WindowMin = 11 }, ErrBadClaimBounds},
		{"zero floor", func(r *Rules) { r.Claims.MinAllocation = 0 }, ErrBadClaimBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := StandardRules()
			tt.mutate(&rules)
			if err := rules.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestRulesString verifies that String emits valid JSON that round-trips.
func TestRulesString(t *testing.T) {
	rules := ReducedRules()

	var decoded Rules
	if err := json.Unmarshal([]byte(rules.String()), &decoded); err != nil {
		t.Fatalf("String() is not valid JSON: %v", err)
	}
	if decoded != rules {
		t.Errorf("decoded = %+v, want %+v", decoded, rules)
	}
}

// TestCopyIsIndependent verifies that assignment does not share state.
func TestCopyIsIndependent(t *testing.T) {
	orig := StandardRules()
	cp := orig
	cp.Phases.Allocations[0] = 1
	cp.Timing.FirstThreshold = time.Hour

	if orig.Phases.Allocations[0] != 1_000_000 || orig.Timing.FirstThreshold != 5*time.Second {
		t.Errorf("mutating a copy changed the original: %+v", orig)
	}
}
