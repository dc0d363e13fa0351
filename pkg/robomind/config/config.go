package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
	"github.com/cognicore/robomind/pkg/robomind/search"
)

// DefaultMaxSteps caps agent runs when the config does not
const DefaultMaxSteps = 200

// Config is the YAML run configuration
type Config struct {
	Map       string       `yaml:"map"`
	RulesFile string       `yaml:"rules_file"`
	Rules     []RuleConfig `yaml:"rules"`
	Facts     []string     `yaml:"facts"`
	Search    SearchConfig `yaml:"search"`
	Agent     AgentConfig  `yaml:"agent"`
	Store     StoreConfig  `yaml:"store"`
}

// RuleConfig is one inline rule
type RuleConfig struct {
	Premises   []string `yaml:"premises"`
	Conclusion string   `yaml:"conclusion"`
}

// SearchConfig selects algorithms and heuristic for path finding
type SearchConfig struct {
	Algorithms []string `yaml:"algorithms"`
	Heuristic  string   `yaml:"heuristic"`
}

// AgentConfig controls agent runs
type AgentConfig struct {
	MaxSteps int `yaml:"max_steps"`
}

// StoreConfig locates the run journal. An empty path keeps it in memory.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Load reads a YAML config file, applies defaults and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML config bytes, applies defaults and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields
func (c *Config) ApplyDefaults() {
	if len(c.Search.Algorithms) == 0 {
		for _, a := range search.Algorithms {
			c.Search.Algorithms = append(c.Search.Algorithms, a.String())
		}
	}
	if c.Search.Heuristic == "" {
		c.Search.Heuristic = search.Manhattan.String()
	}
	if c.Agent.MaxSteps == 0 {
		c.Agent.MaxSteps = DefaultMaxSteps
	}
}

// Validate checks algorithm and heuristic names and numeric limits
func (c *Config) Validate() error {
	if _, err := c.SearchAlgorithms(); err != nil {
		return fmt.Errorf("search.algorithms: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if _, err := search.ParseHeuristic(c.Search.Heuristic); err != nil {
		return fmt.Errorf("search.heuristic: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if c.Agent.MaxSteps < 0 {
		return fmt.Errorf("agent.max_steps must be positive, got %d: %w", c.Agent.MaxSteps, internalerr.ErrInvalidConfig)
	}
	for i, r := range c.Rules {
		if r.Conclusion == "" || len(r.Premises) == 0 {
			return fmt.Errorf("rules[%d]: premises and conclusion required: %w", i, internalerr.ErrInvalidConfig)
		}
	}
	return nil
}

// SearchAlgorithms parses the configured algorithm names
func (c *Config) SearchAlgorithms() ([]search.Algorithm, error) {
	out := make([]search.Algorithm, 0, len(c.Search.Algorithms))
	for _, name := range c.Search.Algorithms {
		a, err := search.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
