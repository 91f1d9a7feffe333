// Package scenario loads search problems from YAML files.
//
// A scenario is either a grid map or a weighted graph:
//
//	name: detour
//	kind: grid
//	rows:
//	  - "S.#"
//	  - "..G"
//
//	name: roads
//	kind: graph
//	origin: a
//	goal: e
//	edges:
//	  - {from: a, to: b, cost: 2}
//	heuristic: {a: 3, b: 2}
//
// A set of scenarios is embedded in the binary; see List and LoadBuiltin.
package scenario

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/hipster/problem"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrInvalidScenario = errors.New("invalid scenario")
)

// Kind selects how a scenario is turned into a problem.
type Kind string

const (
	KindGrid  Kind = "grid"
	KindGraph Kind = "graph"
)

// Scenario is the YAML form of a search problem.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Kind        Kind   `yaml:"kind"`

	// grid
	Rows []string `yaml:"rows,omitempty"`

	// graph
	Origin        string                 `yaml:"origin,omitempty"`
	Goal          string                 `yaml:"goal,omitempty"`
	Bidirectional bool                   `yaml:"bidirectional,omitempty"`
	Edges         []problem.Edge[string] `yaml:"edges,omitempty"`
	Heuristic     map[string]float64     `yaml:"heuristic,omitempty"`
}

// Parse decodes and validates one scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var s Scenario
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a scenario file from disk.
func Load(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// LoadBuiltin returns the embedded scenario with the given file name.
func LoadBuiltin(name string) (*Scenario, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// List returns the names of the embedded scenarios, sorted.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Validate checks that the fields required by Kind are present and well formed.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	switch s.Kind {
	case KindGrid:
		_, err := s.Grid()
		return err
	case KindGraph:
		if s.Origin == "" || s.Goal == "" {
			return fmt.Errorf("%w: %s: origin and goal are required", ErrInvalidScenario, s.Name)
		}
		if len(s.Edges) == 0 {
			return fmt.Errorf("%w: %s: at least one edge is required", ErrInvalidScenario, s.Name)
		}
		for i, edge := range s.Edges {
			if edge.From == "" || edge.To == "" {
				return fmt.Errorf("%w: %s: edge %d needs from and to", ErrInvalidScenario, s.Name, i)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidScenario, s.Name, s.Kind)
	}
}

// Grid builds the grid problem of a grid scenario.
func (s *Scenario) Grid() (*problem.Grid, error) {
	if s.Kind != KindGrid {
		return nil, fmt.Errorf("%w: %s is a %s scenario", ErrInvalidScenario, s.Name, s.Kind)
	}
	grid, err := problem.ParseGrid(s.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScenario, s.Name, err)
	}
	return grid, nil
}

// Graph builds a fresh graph problem of a graph scenario. States missing from
// the heuristic table estimate 0.
func (s *Scenario) Graph() (*problem.Graph[string], error) {
	if s.Kind != KindGraph {
		return nil, fmt.Errorf("%w: %s is a %s scenario", ErrInvalidScenario, s.Name, s.Kind)
	}
	graph := problem.NewGraph(s.Origin, s.Goal)
	for _, edge := range s.Edges {
		if s.Bidirectional {
			graph.AddBidirectionalEdge(edge.From, edge.To, edge.Cost)
		} else {
			graph.AddEdges(edge)
		}
	}
	if len(s.Heuristic) > 0 {
		estimates := make(map[string]float64, len(s.Heuristic))
		for state, estimate := range s.Heuristic {
			estimates[state] = estimate
		}
		graph.SetHeuristic(func(state string) float64 { return estimates[state] })
	}
	return graph, nil
}
