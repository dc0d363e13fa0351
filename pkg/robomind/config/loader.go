package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cognicore/robomind/pkg/robomind/grid"
	"github.com/cognicore/robomind/pkg/robomind/inference"
	"github.com/cognicore/robomind/pkg/robomind/internalerr"
	"github.com/cognicore/robomind/pkg/robomind/search"
)

// Loader loads configuration files and constructs components.
// Non-empty MapPath and RulesPath override the config file.
type Loader struct {
	ConfigPath string
	MapPath    string
	RulesPath  string

	// Options configure the knowledge base in Components.KB
	Options []inference.Option
}

// Components holds all loaded configuration components
type Components struct {
	Grid       *grid.Grid
	KB         *inference.KnowledgeBase
	Algorithms []search.Algorithm
	Heuristic  search.Heuristic
	MaxSteps   int
	StorePath  string
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg := &Config{}
	baseDir := ""
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		baseDir = filepath.Dir(l.ConfigPath)
	} else {
		cfg.ApplyDefaults()
	}

	// Config-relative paths resolve against the config file's directory
	resolve := func(override, fromConfig string) string {
		if override != "" {
			return override
		}
		if fromConfig == "" || filepath.IsAbs(fromConfig) {
			return fromConfig
		}
		return filepath.Join(baseDir, fromConfig)
	}

	comp := &Components{
		MaxSteps:  cfg.Agent.MaxSteps,
		StorePath: resolve("", cfg.Store.Path),
	}

	algos, err := cfg.SearchAlgorithms()
	if err != nil {
		return nil, err
	}
	comp.Algorithms = algos

	comp.Heuristic, err = search.ParseHeuristic(cfg.Search.Heuristic)
	if err != nil {
		return nil, err
	}

	// Load map
	mapPath := resolve(l.MapPath, cfg.Map)
	if mapPath == "" {
		return nil, fmt.Errorf("no map configured: %w", internalerr.ErrInvalidConfig)
	}
	comp.Grid, err = grid.LoadMap(mapPath)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}

	// Load rules: file first, then inline rules and facts
	comp.KB = inference.New(l.Options...)
	if rulesPath := resolve(l.RulesPath, cfg.RulesFile); rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("read rules: %w", err)
		}
		if err := comp.KB.LoadRules(string(data)); err != nil {
			return nil, fmt.Errorf("load rules %s: %w", rulesPath, err)
		}
	}
	for i, r := range cfg.Rules {
		if err := comp.KB.AddRuleString(r.Premises, r.Conclusion); err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
	}
	for i, f := range cfg.Facts {
		if err := comp.KB.TellString(f); err != nil {
			return nil, fmt.Errorf("facts[%d]: %w", i, err)
		}
	}
	comp.KB.Infer()

	return comp, nil
}
