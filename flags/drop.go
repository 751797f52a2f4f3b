package flags

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	ProfileFlag = cli.StringFlag{
		Name:  "profile",
		Usage: "Claimdrop deployment profile (standard|reduced)",
		Value: "standard",
	}
	OwnerFlag = cli.StringFlag{
		Name:  "drop.owner",
		Usage: "Owner address: receives the LP and future-growth allocations and runs admin operations",
	}
	GenesisTimeFlag = cli.Int64Flag{
		Name:  "drop.genesis",
		Usage: "Genesis time in Unix seconds (0 = now)",
	}
	FirstThresholdFlag = cli.DurationFlag{
		Name:  "drop.threshold.first",
		Usage: "Initial end of the fixed-allocation claim window",
	}
	SecondThresholdFlag = cli.DurationFlag{
		Name:  "drop.threshold.second",
		Usage: "Initial end of the random-allocation claim window",
	}
	ProxyCooldownFlag = cli.DurationFlag{
		Name:  "drop.proxycooldown",
		Usage: "Minimum time between two proxy settlements by the same account",
	}
	ExcludeFlag = cli.StringSliceFlag{
		Name:  "drop.exclude",
		Usage: "DEX address excluded from marker propagation (repeatable)",
	}
	JournalFlag = cli.BoolFlag{
		Name:  "drop.journal",
		Usage: "Keep a journal of committed claimdrop events (on by default, disable with --drop.journal=false)",
	}
)

// DropFlags covers the claimdrop deployment.
func DropFlags() []cli.Flag {
	return []cli.Flag{
		ProfileFlag,
		OwnerFlag,
		GenesisTimeFlag,
		FirstThresholdFlag,
		SecondThresholdFlag,
		ProxyCooldownFlag,
		ExcludeFlag,
		JournalFlag,
	}
}
