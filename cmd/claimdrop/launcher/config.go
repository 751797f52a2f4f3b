// This file maps the config file and CLI context onto the launcher Config.

package launcher

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-claimdrop/claimdrop"
	"github.com/rony4d/go-claimdrop/claimdrop/genesis"
	"github.com/rony4d/go-claimdrop/flags"
	"github.com/rony4d/go-claimdrop/integration"
	"github.com/rony4d/go-claimdrop/inter"
)

var errBadAddress = errors.New("invalid hex address")

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		if unicode.IsUpper(rune(rt.Name()[0])) {
			return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
		}
		return fmt.Errorf("field '%s' is not defined (%s)", field, id)
	},
}

// Config aggregates everything the launcher needs.
type Config struct {
	Node NodeConfig
	Drop DropConfig
}

type NodeConfig struct {
	Logging LoggingConfig

	// SentryDSN enables error reporting from the launcher when set.
	SentryDSN string
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
}

// DropConfig describes the claimdrop deployment.
type DropConfig struct {
	Profile string
	Owner   common.Address

	// GenesisTime is in Unix seconds; 0 means the time of launch.
	GenesisTime int64

	// Zero durations keep the profile values.
	FirstThreshold  Duration
	SecondThreshold Duration
	ProxyCooldown   Duration

	Exclude []common.Address
	Journal bool
}

// Duration is a time.Duration written as "30m" in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Rules resolves the profile and applies the timing overrides.
func (c DropConfig) Rules() (claimdrop.Rules, error) {
	rules, err := claimdrop.RulesByName(c.Profile)
	if err != nil {
		return claimdrop.Rules{}, err
	}
	integration.ApplyOverrides(&rules, integration.Overrides{
		FirstThreshold:  time.Duration(c.FirstThreshold),
		SecondThreshold: time.Duration(c.SecondThreshold),
		ProxyCooldown:   time.Duration(c.ProxyCooldown),
	})
	return rules, rules.Validate()
}

// Genesis builds the genesis description; now is used when no genesis time
// is configured.
func (c DropConfig) Genesis(now time.Time) genesis.Genesis {
	t := inter.FromTime(now)
	if c.GenesisTime > 0 {
		t = inter.FromUnix(c.GenesisTime)
	}
	return genesis.New(c.Owner, t)
}

// MakeAllConfigs merges defaults, the optional config file, then CLI flag
// overrides into a single config.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := DefaultConfig()

	if file := ctx.String(flags.ConfigFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFile(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet(flags.LogFormatFlag.Name) {
		cfg.Node.Logging.Format = ctx.String(flags.LogFormatFlag.Name)
	}
	if ctx.IsSet(flags.LogVerbosityFlag.Name) {
		cfg.Node.Logging.Verbosity = ctx.Int(flags.LogVerbosityFlag.Name)
	}
	if ctx.IsSet(flags.LogColorFlag.Name) {
		cfg.Node.Logging.Color = ctx.Bool(flags.LogColorFlag.Name)
	}
	if ctx.IsSet(flags.SentryDSNFlag.Name) {
		cfg.Node.SentryDSN = ctx.String(flags.SentryDSNFlag.Name)
	}

	if ctx.IsSet(flags.ProfileFlag.Name) {
		cfg.Drop.Profile = ctx.String(flags.ProfileFlag.Name)
	}
	if ctx.IsSet(flags.OwnerFlag.Name) {
		owner, err := parseAddress(ctx.String(flags.OwnerFlag.Name))
		if err != nil {
			return fmt.Errorf("--%s: %w", flags.OwnerFlag.Name, err)
		}
		cfg.Drop.Owner = owner
	}
	if ctx.IsSet(flags.GenesisTimeFlag.Name) {
		cfg.Drop.GenesisTime = ctx.Int64(flags.GenesisTimeFlag.Name)
	}
	if ctx.IsSet(flags.FirstThresholdFlag.Name) {
		cfg.Drop.FirstThreshold = Duration(ctx.Duration(flags.FirstThresholdFlag.Name))
	}
	if ctx.IsSet(flags.SecondThresholdFlag.Name) {
		cfg.Drop.SecondThreshold = Duration(ctx.Duration(flags.SecondThresholdFlag.Name))
	}
	if ctx.IsSet(flags.ProxyCooldownFlag.Name) {
		cfg.Drop.ProxyCooldown = Duration(ctx.Duration(flags.ProxyCooldownFlag.Name))
	}
	if ctx.IsSet(flags.ExcludeFlag.Name) {
		cfg.Drop.Exclude = nil
		for _, raw := range ctx.StringSlice(flags.ExcludeFlag.Name) {
			for _, part := range splitCSV(raw) {
				dex, err := parseAddress(part)
				if err != nil {
					return fmt.Errorf("--%s: %w", flags.ExcludeFlag.Name, err)
				}
				cfg.Drop.Exclude = append(cfg.Drop.Exclude, dex)
			}
		}
	}
	if ctx.IsSet(flags.JournalFlag.Name) {
		cfg.Drop.Journal = ctx.Bool(flags.JournalFlag.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", errBadAddress, s)
	}
	return common.HexToAddress(s), nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
