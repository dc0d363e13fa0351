package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cognicore/robomind/pkg/robomind/agent"
	"github.com/cognicore/robomind/pkg/robomind/config"
	"github.com/cognicore/robomind/pkg/robomind/inference"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (YAML)")
		mapPath    = flag.String("map", "", "Map file (overrides config)")
		rulesPath  = flag.String("rules", "", "Agent rule file (overrides config; built-in rules if neither is set)")
		maxSteps   = flag.Int("max-steps", 0, "Step limit (overrides config)")
		trace      = flag.Bool("trace", false, "Print every derived fact")
		explain    = flag.Bool("explain", false, "Explain the final CanMoveTo facts")
	)
	flag.Parse()

	if *configPath == "" && *mapPath == "" {
		log.Fatal("--config or --map required")
	}

	var opts []inference.Option
	if *trace {
		opts = append(opts, inference.WithTrace(func(d inference.Derivation) {
			fmt.Printf("    %s <- rule %d %s\n", d.Fact, d.RuleIdx+1, d.Bindings)
		}))
	}

	loader := config.Loader{
		ConfigPath: *configPath,
		MapPath:    *mapPath,
		RulesPath:  *rulesPath,
		Options:    opts,
	}
	a, comp, err := buildAgent(&loader)
	if err != nil {
		log.Fatal(err)
	}
	steps := comp.MaxSteps
	if *maxSteps > 0 {
		steps = *maxSteps
	}

	fmt.Println(comp.Grid)
	fmt.Println()

	reached := runAgent(os.Stdout, a, steps)
	if *explain {
		explainMoves(os.Stdout, a.KnowledgeBase())
	}
	if !reached {
		os.Exit(1)
	}
}

// buildAgent loads the grid and the configured rules. Without any configured
// rules the agent reasons with agent.DefaultRules.
func buildAgent(loader *config.Loader) (*agent.LogicAgent, *config.Components, error) {
	comp, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	if len(comp.KB.Rules()) == 0 {
		if err := comp.KB.LoadRules(agent.DefaultRules); err != nil {
			return nil, nil, fmt.Errorf("load default rules: %w", err)
		}
	}
	a, err := agent.NewLogicAgentWithKB(comp.Grid, comp.KB)
	if err != nil {
		return nil, nil, err
	}
	return a, comp, nil
}

// runAgent drives the agent to the goal and prints its history and summary
func runAgent(w io.Writer, a *agent.LogicAgent, maxSteps int) bool {
	reached, steps, history := a.RunToGoal(maxSteps)
	for i, h := range history {
		fmt.Fprintf(w, "%3d. %s\n", i+1, h)
	}

	s := a.Summary()
	fmt.Fprintln(w)
	if reached {
		fmt.Fprintf(w, "Reached goal %s in %d steps.\n", s.Goal, steps)
	} else {
		fmt.Fprintf(w, "Stopped at %s after %d steps; goal %s not reached.\n", s.Position, steps, s.Goal)
	}
	fmt.Fprintf(w, "Visited %d cells. Knowledge base: %d facts, %d rules.\n",
		s.VisitedCount, s.FactsCount, s.RulesCount)
	return reached
}

func explainMoves(w io.Writer, kb *inference.KnowledgeBase) {
	moves := kb.Query("CanMoveTo", 2)
	if len(moves) == 0 {
		fmt.Fprintln(w, "\nNo CanMoveTo facts.")
		return
	}
	for _, f := range moves {
		fmt.Fprintln(w)
		fmt.Fprint(w, kb.Explain(f))
	}
}

