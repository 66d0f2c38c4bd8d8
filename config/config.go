// Package config loads the engine and front-end settings from flags and
// BLOBWARS_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"runtime"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/blobwars/blobwars/equity"
	"github.com/blobwars/blobwars/minimax"
)

const (
	ConfigDebug             = "debug"
	ConfigDepth             = "depth"
	ConfigTimeMode          = "time-mode"
	ConfigPrune             = "prune"
	ConfigSwap              = "swap"
	ConfigMaxDepth          = "max-depth"
	ConfigEvaluator         = "evaluator"
	ConfigEvalCacheFraction = "eval-cache-fraction"
	ConfigNatsURL           = "nats-url"
	ConfigBotChannel        = "bot-channel"
	ConfigAutoplayThreads   = "autoplay-threads"
	ConfigCPUProfile        = "cpu-profile"
)

const EnvPrefix = "blobwars"

type Config struct {
	*viper.Viper
	args []string
}

type setting struct {
	key   string
	value any
	usage string
}

func defaults() []setting {
	return []setting{
		{ConfigDebug, false, "debug logging on"},
		{ConfigDepth, 4, "search depth in plies, or the time budget in milliseconds with --time-mode"},
		{ConfigTimeMode, false, "bound the search by time instead of depth"},
		{ConfigPrune, true, "use alpha-beta pruning"},
		{ConfigSwap, false, "search for the human's pieces instead of the computer's"},
		{ConfigMaxDepth, minimax.DefaultMaxDepth, "deepest iteration in time mode"},
		{ConfigEvaluator, equity.MaterialName, "leaf evaluator: material or positional"},
		{ConfigEvalCacheFraction, 0.0, "fraction of system memory for the evaluation cache; 0 disables it"},
		{ConfigNatsURL, nats.DefaultURL, "NATS server for the bot"},
		{ConfigBotChannel, "blobwars.bot", "NATS subject the bot answers on"},
		{ConfigAutoplayThreads, runtime.NumCPU(), "workers for computer-vs-computer games"},
		{ConfigCPUProfile, "", "write a CPU profile to this file"},
	}
}

// DefaultConfig has every setting at its default and reads the
// environment, but no flags.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	for _, s := range defaults() {
		c.SetDefault(s.key, s.value)
	}
	c.SetEnvPrefix(EnvPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("blobwars", pflag.ContinueOnError)
	for _, s := range defaults() {
		switch v := s.value.(type) {
		case bool:
			fs.Bool(s.key, v, s.usage)
		case int:
			fs.Int(s.key, v, s.usage)
		case float64:
			fs.Float64(s.key, v, s.usage)
		case string:
			fs.String(s.key, v, s.usage)
		default:
			panic(fmt.Sprintf("no flag type for setting %s", s.key))
		}
	}
	return fs
}

// Load parses args on top of the defaults. Arguments left over after the
// flags are kept in Args.
func (c *Config) Load(args []string) error {
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()
	return nil
}

// Usage lists the flags Load understands.
func Usage() string {
	return flagSet().FlagUsages()
}

func (c *Config) Args() []string { return c.args }

// SearchParams builds the solver parameters from the current settings.
func (c *Config) SearchParams() minimax.Params {
	return minimax.Params{
		Restriction: c.GetInt(ConfigDepth),
		TimeBounded: c.GetBool(ConfigTimeMode),
		Prune:       c.GetBool(ConfigPrune),
		MaxDepth:    c.GetInt(ConfigMaxDepth),
	}
}

// Evaluator returns the configured leaf evaluator, behind a cache when a
// memory fraction is set.
func (c *Config) Evaluator() (equity.Evaluator, error) {
	e, err := equity.ByName(c.GetString(ConfigEvaluator))
	if err != nil {
		return nil, err
	}
	if frac := c.GetFloat64(ConfigEvalCacheFraction); frac > 0 {
		if frac >= 1 {
			return nil, fmt.Errorf("%s must be below 1, got %v", ConfigEvalCacheFraction, frac)
		}
		return equity.NewCached(e, frac), nil
	}
	return e, nil
}

// SanitizedSettings is AllSettings with credentials removed, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	all := c.AllSettings()
	if raw, ok := all[ConfigNatsURL].(string); ok {
		if u, err := url.Parse(raw); err == nil && u.User != nil {
			u.User = url.User("xxx")
			all[ConfigNatsURL] = u.String()
		}
	}
	return all
}
