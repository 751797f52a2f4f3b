package launcher

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-claimdrop/flags"
	"github.com/rony4d/go-claimdrop/integration"
	"github.com/rony4d/go-claimdrop/inter"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags).
	gitCommit = ""

	app = flags.NewApp(gitCommit, "the claimdrop token distribution ledger")

	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Flags:       flags.Merge(flags.CommonFlags(), flags.DropFlags()),
		Description: `The dumpconfig command shows configuration values.`,
	}
)

func init() {
	app.Action = claimdropMain
	app.Flags = flags.Merge(flags.CommonFlags(), flags.DropFlags())
	app.Commands = []cli.Command{dumpConfigCommand}
}

// Launch runs the claimdrop launcher with the given command line.
func Launch(args []string) error {
	return app.Run(args)
}

// claimdropMain is the main entry point when no special subcommand is run.
// It boots a deployment, applies genesis and prints a summary of the result.
func claimdropMain(ctx *cli.Context) error {
	if args := ctx.Args(); len(args) > 0 {
		return fmt.Errorf("invalid command: %q", args[0])
	}

	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(os.Stderr, cfg.Node.Logging); err != nil {
		return err
	}
	logger, err := newProcessLogger(os.Stderr, cfg.Node)
	if err != nil {
		return err
	}

	a, err := boot(cfg.Drop, time.Now())
	if err != nil {
		logger.WithError(err).Error("Claimdrop boot failed")
		return err
	}
	defer a.Close()

	printSummary(ctx.App.Writer, a)
	logger.WithFields(logrus.Fields{
		"profile": a.Rules.Name,
		"owner":   a.Genesis.Owner.Hex(),
		"root":    a.Root.Hex(),
	}).Info("Claimdrop ready")
	return nil
}

// boot assembles the deployment described by cfg. now is used when no
// genesis time is configured.
func boot(cfg DropConfig, now time.Time) (*integration.Assembly, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	return integration.New(rules, cfg.Genesis(now), integration.Options{
		Exclude: cfg.Exclude,
		Journal: cfg.Journal,
	})
}

func printSummary(w io.Writer, a *integration.Assembly) {
	rules := a.Rules
	l := a.Ledger

	fmt.Fprintf(w, "Profile:        %s\n", rules.Name)
	fmt.Fprintf(w, "Owner:          %s\n", l.Owner().Hex())
	fmt.Fprintf(w, "Pool:           %s\n", l.Pool().Hex())
	fmt.Fprintf(w, "Genesis time:   %s\n", a.Genesis.Time.Time().Format(time.RFC3339))
	fmt.Fprintf(w, "Total supply:   %s\n", a.TotalSupply())
	fmt.Fprintf(w, "Owner balance:  %s\n", l.BalanceOf(l.Owner()))
	fmt.Fprintf(w, "Pool balance:   %s\n", l.BalanceOf(l.Pool()))
	for p := uint8(1); p <= inter.MaxPhase; p++ {
		fmt.Fprintf(w, "Phase %d budget: %s\n", p, rules.PhaseAllocation(p))
	}

	th := l.Thresholds()
	fmt.Fprintf(w, "Thresholds:     %s / %s\n", th.First, th.Second)
	fmt.Fprintf(w, "Proxy cooldown: %s\n", rules.Timing.ProxyCooldown)

	excluded := l.ExcludedDexes()
	hexes := make([]string, len(excluded))
	for i, dex := range excluded {
		hexes[i] = dex.Hex()
	}
	fmt.Fprintf(w, "Excluded DEXes: [%s]\n", strings.Join(hexes, ", "))
	fmt.Fprintf(w, "State root:     %s\n", a.Root.Hex())
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if dump == nil {
		dump = os.Stdout
	}
	_, err = dump.Write(out)
	return err
}
