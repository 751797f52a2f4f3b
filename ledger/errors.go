package ledger

import "errors"

// Lifecycle errors: the phase record is in the wrong state.
var (
	ErrPhaseLimitExceeded   = errors.New("phase limit exceeded")
	ErrNoActivePhase        = errors.New("no phase has been activated")
	ErrPhaseAlreadyEnded    = errors.New("phase already ended")
	ErrClaimdropInactive    = errors.New("claimdrop is not active")
	ErrNotReady             = errors.New("only after 3 drops")
	ErrDropAlreadyCompleted = errors.New("claimdrop already completed")
)

// Eligibility errors: a gate is closed or there is nothing to act on.
var (
	ErrTransferNotActive       = errors.New("claim transfers are not active")
	ErrProxyNotActive          = errors.New("proxy claims are not active")
	ErrNoPendingClaim          = errors.New("no pending claim")
	ErrNoPendingClaimForWallet = errors.New("no pending claim for wallet")
	ErrAlreadyExcluded         = errors.New("address already excluded")
	ErrNotExcluded             = errors.New("address is not excluded")
)

// Balance errors.
var (
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrInsufficientProxyBalance = errors.New("insufficient proxy balance")
)

// Rate-limit errors.
var (
	ErrCooldownActive = errors.New("cooldown period not elapsed")
)

// Authorization errors.
var (
	ErrNotOwner = errors.New("caller is not the owner")
)

// Argument errors.
var (
	ErrZeroAddress       = errors.New("zero address")
	ErrInvalidThresholds = errors.New("first threshold must be lower than second threshold")
)

// Kind groups ledger errors by the precondition they violate.
type Kind int

const (
	KindUnknown Kind = iota
	KindLifecycle
	KindEligibility
	KindBalance
	KindRateLimit
	KindAuthorization
	KindArgument
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindLifecycle:     "lifecycle",
	KindEligibility:   "eligibility",
	KindBalance:       "balance",
	KindRateLimit:     "rate-limit",
	KindAuthorization: "authorization",
	KindArgument:      "argument",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

var errorKinds = []struct {
	err  error
	kind Kind
}{
	{ErrPhaseLimitExceeded, KindLifecycle},
	{ErrNoActivePhase, KindLifecycle},
	{ErrPhaseAlreadyEnded, KindLifecycle},
	{ErrClaimdropInactive, KindLifecycle},
	{ErrNotReady, KindLifecycle},
	{ErrDropAlreadyCompleted, KindLifecycle},
	{ErrTransferNotActive, KindEligibility},
	{ErrProxyNotActive, KindEligibility},
	{ErrNoPendingClaim, KindEligibility},
	{ErrNoPendingClaimForWallet, KindEligibility},
	{ErrAlreadyExcluded, KindEligibility},
	{ErrNotExcluded, KindEligibility},
	{ErrInsufficientBalance, KindBalance},
	{ErrInsufficientProxyBalance, KindBalance},
	{ErrCooldownActive, KindRateLimit},
	{ErrNotOwner, KindAuthorization},
	{ErrZeroAddress, KindArgument},
	{ErrInvalidThresholds, KindArgument},
}

// ErrorKind classifies err, which may be wrapped. Errors that did not
// originate in this package are KindUnknown.
func ErrorKind(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return KindUnknown
}
