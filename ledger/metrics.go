package ledger

import "github.com/ethereum/go-ethereum/metrics"

var (
	claimCounter       = metrics.NewRegisteredCounter("claimdrop/claims", nil)
	settleCounter      = metrics.NewRegisteredCounter("claimdrop/settlements/own", nil)
	proxySettleCounter = metrics.NewRegisteredCounter("claimdrop/settlements/proxy", nil)
	revertedOps        = metrics.NewRegisteredCounter("claimdrop/reverted", nil)
	phaseGauge         = metrics.NewRegisteredGauge("claimdrop/phase", nil)
)
