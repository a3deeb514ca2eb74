package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds the engine and generator knobs.
type Config struct {
	StartingBalance   decimal.Decimal
	Cooldown          time.Duration
	ActivityCapacity  int
	LatencyMin        time.Duration
	LatencyMax        time.Duration
	ConversionRate    decimal.Decimal
	FeeUSD            decimal.Decimal
	Recipient         string
	JournalDir        string
	GeneratorSchedule string
	GeneratorVaults   []string
}

type configTmp struct {
	StartingBalance   string        `yaml:"starting_balance,omitempty"`
	Cooldown          time.Duration `yaml:"cooldown,omitempty"`
	ActivityCapacity  int           `yaml:"activity_capacity,omitempty"`
	LatencyMin        time.Duration `yaml:"latency_min,omitempty"`
	LatencyMax        time.Duration `yaml:"latency_max,omitempty"`
	ConversionRate    string        `yaml:"conversion_rate,omitempty"`
	FeeUSD            string        `yaml:"fee_usd,omitempty"`
	Recipient         string        `yaml:"recipient,omitempty"`
	JournalDir        string        `yaml:"journal_dir,omitempty"`
	GeneratorSchedule string        `yaml:"generator_schedule,omitempty"`
	GeneratorVaults   []string      `yaml:"generator_vaults,omitempty"`
}

// Get loads config from the yaml file passed via --config, falling back to
// CLI flags and defaults.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	cooldown := flag.Duration("cooldown", 24*time.Hour, "withdrawal cooldown duration")
	capacity := flag.Int("activitycap", 200, "activity feed capacity")
	startingBalance := flag.String("balance", "100000", "starting stable-asset balance")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	balance, err := decimal.NewFromString(*startingBalance)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --balance provided, --balance=%s", *startingBalance)
	}
	if balance.IsNegative() {
		return Config{}, fmt.Errorf("starting balance must not be negative, got %s", balance.String())
	}

	cfg := defaults()
	cfg.StartingBalance = balance
	cfg.Cooldown = *cooldown
	cfg.ActivityCapacity = *capacity

	return cfg, nil
}

func defaults() Config {
	return Config{
		StartingBalance:   decimal.NewFromInt(100000),
		Cooldown:          24 * time.Hour,
		ActivityCapacity:  200,
		LatencyMin:        600 * time.Millisecond,
		LatencyMax:        1000 * time.Millisecond,
		ConversionRate:    decimal.NewFromInt(1),
		FeeUSD:            decimal.NewFromFloat(0.5),
		Recipient:         "0x0000000000000000000000000000000000000000",
		GeneratorSchedule: "@every 20s",
		GeneratorVaults:   []string{"vault-A", "vault-B", "vault-C"},
	}
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	cfg := defaults()

	if tmp.StartingBalance != "" {
		cfg.StartingBalance, err = decimal.NewFromString(tmp.StartingBalance)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'starting_balance' param in yaml config: %w", err)
		}
		if cfg.StartingBalance.IsNegative() {
			return Config{}, fmt.Errorf("'starting_balance' must not be negative: %s", tmp.StartingBalance)
		}
	}
	if tmp.Cooldown > 0 {
		cfg.Cooldown = tmp.Cooldown
	}
	if tmp.ActivityCapacity > 0 {
		cfg.ActivityCapacity = tmp.ActivityCapacity
	}
	if tmp.LatencyMax > 0 {
		cfg.LatencyMin = tmp.LatencyMin
		cfg.LatencyMax = tmp.LatencyMax
		if cfg.LatencyMin > cfg.LatencyMax {
			return Config{}, fmt.Errorf("'latency_min' must not exceed 'latency_max'")
		}
	}
	if tmp.ConversionRate != "" {
		cfg.ConversionRate, err = decimal.NewFromString(tmp.ConversionRate)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'conversion_rate' param in yaml config: %w", err)
		}
	}
	if tmp.FeeUSD != "" {
		cfg.FeeUSD, err = decimal.NewFromString(tmp.FeeUSD)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'fee_usd' param in yaml config: %w", err)
		}
	}
	if tmp.Recipient != "" {
		cfg.Recipient = tmp.Recipient
	}
	if tmp.JournalDir != "" {
		cfg.JournalDir = tmp.JournalDir
	}
	if tmp.GeneratorSchedule != "" {
		cfg.GeneratorSchedule = tmp.GeneratorSchedule
	}
	if len(tmp.GeneratorVaults) > 0 {
		cfg.GeneratorVaults = tmp.GeneratorVaults
	}

	return cfg, nil
}
