package problem

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/pdrpinto/hipster/node"
)

// ErrInvalidGrid is returned by ParseGrid for malformed maps.
var ErrInvalidGrid = errors.New("invalid grid")

// Point is a grid cell.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Grid is a 4-connected map with unit move cost and a Manhattan heuristic.
type Grid struct {
	Width  int
	Height int
	Walls  map[Point]bool
	Start  Point
	Target Point
}

var directions = []Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// ParseGrid reads a map where '#' is a wall, 'S' the origin and 'G' the goal.
// Every other character is free space. Rows may have different lengths.
func ParseGrid(rows []string) (*Grid, error) {
	grid := &Grid{Height: len(rows), Walls: make(map[Point]bool)}
	var hasStart, hasGoal bool
	for y, row := range rows {
		row = strings.TrimRight(row, "\r")
		if len(row) > grid.Width {
			grid.Width = len(row)
		}
		for x, cell := range row {
			switch cell {
			case '#':
				grid.Walls[Point{x, y}] = true
			case 'S':
				if hasStart {
					return nil, fmt.Errorf("%w: more than one S", ErrInvalidGrid)
				}
				grid.Start, hasStart = Point{x, y}, true
			case 'G':
				if hasGoal {
					return nil, fmt.Errorf("%w: more than one G", ErrInvalidGrid)
				}
				grid.Target, hasGoal = Point{x, y}, true
			}
		}
	}
	if !hasStart || !hasGoal {
		return nil, fmt.Errorf("%w: S and G are required", ErrInvalidGrid)
	}
	return grid, nil
}

// RandomGrid builds a width x height grid with clustered walls grown by random
// walks, and a random distinct start and target that are never walls.
func RandomGrid(width, height, clusters, steps int, density float64, rng *rand.Rand) *Grid {
	grid := &Grid{Width: width, Height: height, Walls: make(map[Point]bool)}
	for {
		grid.Start = Point{rng.Intn(width), rng.Intn(height)}
		grid.Target = Point{rng.Intn(width), rng.Intn(height)}
		if grid.Start != grid.Target || width*height == 1 {
			break
		}
	}
	for c := 0; c < clusters; c++ {
		p := Point{rng.Intn(width), rng.Intn(height)}
		for s := 0; s < steps; s++ {
			if rng.Float64() < density && p != grid.Start && p != grid.Target {
				grid.Walls[p] = true
			}
			d := directions[rng.Intn(len(directions))]
			if np := (Point{p.X + d.X, p.Y + d.Y}); grid.in(np) {
				p = np
			}
		}
	}
	return grid
}

// Rows renders the grid in the format ParseGrid reads.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	for y := range rows {
		var row strings.Builder
		for x := 0; x < g.Width; x++ {
			p := Point{x, y}
			switch {
			case p == g.Start:
				row.WriteByte('S')
			case p == g.Target:
				row.WriteByte('G')
			case g.Walls[p]:
				row.WriteByte('#')
			default:
				row.WriteByte('.')
			}
		}
		rows[y] = row.String()
	}
	return rows
}

func (g *Grid) in(p Point) bool { return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height }

func (g *Grid) Origin() Point { return g.Start }
func (g *Grid) Goal() Point   { return g.Target }

func (g *Grid) Successors(p Point) ([]node.Transition[Point], error) {
	transitions := make([]node.Transition[Point], 0, len(directions))
	for _, d := range directions {
		np := Point{p.X + d.X, p.Y + d.Y}
		if g.in(np) && !g.Walls[np] {
			transitions = append(transitions, node.NewTransition(p, np))
		}
	}
	return transitions, nil
}

func (g *Grid) Cost(node.Transition[Point]) float64 { return 1 }

// Estimate is the Manhattan distance to the goal.
func (g *Grid) Estimate(p Point) float64 { return Manhattan(p, g.Target) }

// Manhattan returns |ax-bx| + |ay-by|.
func Manhattan(a, b Point) float64 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return float64(dx + dy)
}
