package grid

import (
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

// Parse builds a grid from map text.
// Format, one row per line:
//
//	S0001
//	01100
//	0000G
//
// S marks the start, G the goal, 1 an obstacle; any other character is free.
// Blank lines are skipped and short rows are padded with free cells.
func Parse(text string) (*Grid, error) {
	var lines []string
	width := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(line) > width {
			width = len(line)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("map: empty: %w", internalerr.ErrInvalidInput)
	}

	g, err := New(len(lines), width)
	if err != nil {
		return nil, err
	}

	var haveStart, haveGoal bool
	for r, line := range lines {
		for c, ch := range []byte(line) {
			p := Position{Row: r, Col: c}
			switch ch {
			case 'S':
				if haveStart {
					return nil, fmt.Errorf("map: second start at %s: %w", p, internalerr.ErrInvalidInput)
				}
				g.Start, haveStart = p, true
			case 'G':
				if haveGoal {
					return nil, fmt.Errorf("map: second goal at %s: %w", p, internalerr.ErrInvalidInput)
				}
				g.Goal, haveGoal = p, true
			case '1':
				g.blocked[g.index(p)] = true
			}
		}
	}

	if !haveStart || !haveGoal {
		return nil, fmt.Errorf("map must contain one start 'S' and one goal 'G': %w", internalerr.ErrInvalidInput)
	}
	return g, nil
}

// LoadMap reads and parses a map file
func LoadMap(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	g, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
