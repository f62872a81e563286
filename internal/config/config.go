package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fairdraw/fairdraw/internal/cost"
	"github.com/fairdraw/fairdraw/internal/strategy"
)

// Defaults applied to fields the YAML leaves unset.
const (
	DefaultStrategy     = "circle"
	DefaultIterations   = 100
	DefaultInitialTemp  = 1000.0
	DefaultCoolingRate  = 0.95
	DefaultSwapAttempts = 20
)

var validate = validator.New()

// TierName wraps cost.Tier for YAML tier parsing.
type TierName struct {
	cost.Tier
}

func (t *TierName) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := cost.ParseTier(value.Value)
	if err != nil {
		return err
	}
	t.Tier = parsed
	return nil
}

type Tournament struct {
	Name string `yaml:"name" validate:"required"`
	Seed *int64 `yaml:"seed"`
}

type Team struct {
	Name string   `yaml:"name" validate:"required"`
	Tier TierName `yaml:"tier" validate:"required"`
}

type Annealing struct {
	Iterations   int     `yaml:"iterations" validate:"gt=0"`
	InitialTemp  float64 `yaml:"initial_temp" validate:"gt=0"`
	CoolingRate  float64 `yaml:"cooling_rate" validate:"gt=0,lt=1"`
	SwapAttempts int     `yaml:"swap_attempts" validate:"gt=0"`
}

type Config struct {
	Tournament Tournament            `yaml:"tournament"`
	Teams      []Team                `yaml:"teams" validate:"min=2,dive"`
	Costs      map[string][4]float64 `yaml:"costs" validate:"omitempty,dive,dive,gte=0"`
	Strategy   string                `yaml:"strategy"`
	Annealing  Annealing             `yaml:"annealing"`
}

// LoadFromBytes parses YAML bytes into a Config, fills in defaults, and
// validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.Strategy == "" {
		c.Strategy = DefaultStrategy
	}
	if c.Annealing.Iterations == 0 {
		c.Annealing.Iterations = DefaultIterations
	}
	if c.Annealing.InitialTemp == 0 {
		c.Annealing.InitialTemp = DefaultInitialTemp
	}
	if c.Annealing.CoolingRate == 0 {
		c.Annealing.CoolingRate = DefaultCoolingRate
	}
	if c.Annealing.SwapAttempts == 0 {
		c.Annealing.SwapAttempts = DefaultSwapAttempts
	}
}

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := strategy.Get(c.Strategy); err != nil {
		return err
	}

	// Team names become sheet names and validation keys, so they must be
	// unique.
	seen := make(map[string]bool, len(c.Teams))
	for _, team := range c.Teams {
		if seen[team.Name] {
			return fmt.Errorf("duplicate team name: %q", team.Name)
		}
		seen[team.Name] = true
	}

	if len(c.Costs) > 0 {
		// Row keys parse case-insensitively, so two spellings of one tier
		// would collapse into a single table entry in map order.
		rows := make(map[cost.Tier]bool, len(c.Costs))
		for key := range c.Costs {
			tier, err := cost.ParseTier(key)
			if err != nil {
				return fmt.Errorf("cost table: %w", err)
			}
			if rows[tier] {
				return fmt.Errorf("cost table names the %s row twice", tier)
			}
			rows[tier] = true
		}
		for _, tier := range []cost.Tier{cost.Strong, cost.Medium, cost.Weak} {
			if !rows[tier] {
				return fmt.Errorf("cost table is missing the %q row", tier)
			}
		}
	}

	return nil
}

// NumTeams returns the number of participating teams.
func (c *Config) NumTeams() int {
	return len(c.Teams)
}

// TeamNames returns the team names in config order. Team ids used across
// the scheduling packages are indexes into this slice.
func (c *Config) TeamNames() []string {
	names := make([]string, len(c.Teams))
	for i, team := range c.Teams {
		names[i] = team.Name
	}
	return names
}

// TeamIndex returns the id of the named team.
func (c *Config) TeamIndex(name string) (int, bool) {
	for i, team := range c.Teams {
		if team.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Tiers returns each team's strength class, indexed by team id.
func (c *Config) Tiers() []cost.Tier {
	tiers := make([]cost.Tier, len(c.Teams))
	for i, team := range c.Teams {
		tiers[i] = team.Tier.Tier
	}
	return tiers
}

// CostTable returns the configured penalty table, or the stock table when
// the config has no costs section.
func (c *Config) CostTable() cost.Table {
	if len(c.Costs) == 0 {
		return cost.DefaultTable()
	}
	table := make(cost.Table, len(c.Costs))
	for key, row := range c.Costs {
		tier, err := cost.ParseTier(key)
		if err != nil {
			continue // validate() already rejected unknown rows
		}
		table[tier] = row
	}
	return table
}
