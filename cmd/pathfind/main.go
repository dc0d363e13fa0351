package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/robomind/pkg/robomind/config"
	"github.com/cognicore/robomind/pkg/robomind/grid"
	"github.com/cognicore/robomind/pkg/robomind/runlog"
	"github.com/cognicore/robomind/pkg/robomind/runlog/memstore"
	"github.com/cognicore/robomind/pkg/robomind/runlog/sqlite"
	"github.com/cognicore/robomind/pkg/robomind/search"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (YAML)")
		mapPath    = flag.String("map", "", "Map file (overrides config)")
		algoName   = flag.String("algo", "astar", "Algorithm: bfs, ucs, astar, bidirectional")
		heuristic  = flag.String("heuristic", "", "A* heuristic: manhattan or euclidean (overrides config)")
		compare    = flag.Bool("compare", false, "Run every configured algorithm and compare")
		dbPath     = flag.String("db", "", "SQLite run log (overrides config; in-memory if empty)")
		history    = flag.Int("history", 0, "Print the last N recorded runs for this map")
	)
	flag.Parse()

	if *configPath == "" && *mapPath == "" {
		log.Fatal("--config or --map required")
	}

	loader := config.Loader{ConfigPath: *configPath, MapPath: *mapPath}
	comp, err := loader.Load()
	if err != nil {
		log.Fatal(err)
	}

	h := comp.Heuristic
	if *heuristic != "" {
		if h, err = search.ParseHeuristic(*heuristic); err != nil {
			log.Fatal(err)
		}
	}

	algos := comp.Algorithms
	if !*compare {
		algo, err := search.ParseAlgorithm(*algoName)
		if err != nil {
			log.Fatal(err)
		}
		algos = []search.Algorithm{algo}
	}

	storePath := comp.StorePath
	if *dbPath != "" {
		storePath = *dbPath
	}

	ctx := context.Background()
	st, err := openStore(ctx, storePath)
	if err != nil {
		log.Fatalf("open run log: %v", err)
	}
	defer st.Close()

	name := mapName(*mapPath, *configPath)
	fmt.Println(comp.Grid)
	fmt.Println()

	results, err := runAll(ctx, comp.Grid, algos, h)
	if err != nil {
		log.Fatal(err)
	}

	rec := runlog.NewRecorder(st)
	for i, res := range results {
		printResult(os.Stdout, comp.Grid, algos[i], h, res)
		if _, err := rec.Record(ctx, name, algos[i], h, res); err != nil {
			log.Printf("record %s: %v", algos[i], err)
		}
	}
	if len(results) > 1 {
		printComparison(os.Stdout, algos, results)
	}

	if *history > 0 {
		runs, err := st.List(ctx, name, *history)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		printHistory(os.Stdout, runs)
	}
}

func openStore(ctx context.Context, path string) (runlog.Store, error) {
	if path == "" {
		return memstore.New(), nil
	}
	return sqlite.OpenSQLite(ctx, path)
}

// mapName labels runs by the map file's base name
func mapName(mapPath, configPath string) string {
	p := mapPath
	if p == "" {
		p = configPath
	}
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// runAll searches the grid with each algorithm concurrently. Results are
// returned in the order of algos.
func runAll(ctx context.Context, g *grid.Grid, algos []search.Algorithm, h search.Heuristic) ([]search.Result, error) {
	results := make([]search.Result, len(algos))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, algo := range algos {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := search.New().Find(g, g.Start, g.Goal, algo, h)
			if err != nil {
				return fmt.Errorf("%s: %w", algo, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printResult(w io.Writer, g *grid.Grid, algo search.Algorithm, h search.Heuristic, res search.Result) {
	label := algo.String()
	if algo == search.AStar {
		label += " (" + h.String() + ")"
	}
	fmt.Fprintf(w, "--- %s ---\n", label)
	if !res.Found() {
		fmt.Fprintf(w, "No path found. Expanded: %d\n\n", res.Expanded)
		return
	}
	fmt.Fprintf(w, "Cost: %g  Steps: %d  Expanded: %d\n", res.Cost, res.Steps(), res.Expanded)
	fmt.Fprintln(w, renderPath(g, res.Path))
	fmt.Fprintln(w)
}

// renderPath draws the grid with the path marked by '*'
func renderPath(g *grid.Grid, path []grid.Position) string {
	onPath := make(map[grid.Position]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}
	var b strings.Builder
	for r := 0; r < g.Rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.Cols; c++ {
			p := grid.Position{Row: r, Col: c}
			switch {
			case p == g.Start:
				b.WriteByte('S')
			case p == g.Goal:
				b.WriteByte('G')
			case onPath[p]:
				b.WriteByte('*')
			case g.IsBlocked(p):
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

func printComparison(w io.Writer, algos []search.Algorithm, results []search.Result) {
	fmt.Fprintf(w, "%-14s %8s %6s %9s\n", "algorithm", "cost", "steps", "expanded")
	for i, res := range results {
		fmt.Fprintf(w, "%-14s %8g %6d %9d\n", algos[i], res.Cost, res.Steps(), res.Expanded)
	}
}

func printHistory(w io.Writer, runs []runlog.Run) {
	fmt.Fprintln(w, "\nRecent runs:")
	if len(runs) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, r := range runs {
		algo := r.Algorithm
		if r.Heuristic != "" {
			algo += "/" + r.Heuristic
		}
		fmt.Fprintf(w, "  %s  %s  %-20s found=%t cost=%g expanded=%d\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, algo, r.Found, r.Cost, r.Expanded)
	}
}
