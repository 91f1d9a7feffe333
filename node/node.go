// Package node records how each state was reached during a search.
//
// A single Node type replaces the plain / cost / heuristic / AD* variants: it
// carries a capability set telling which of the optional fields are meaningful.
// Nodes live in an Arena and point at their predecessor by Handle, so walking a
// path is an index follow and never a recursive call.
package node

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a node is built with a transition
	// whose target is not the node's state.
	ErrInvalidTransition = errors.New("transition target does not match node state")

	// ErrUnknownParent is returned when the predecessor handle is not part of the arena.
	ErrUnknownParent = errors.New("unknown parent handle")
)

// Handle identifies a node inside its Arena. Handles grow with creation order.
type Handle int

// NoParent marks the origin node of an ancestry chain.
const NoParent Handle = -1

// Capability flags the optional bookkeeping a node carries.
type Capability uint8

const (
	// Cost nodes carry the accumulated path cost g.
	Cost Capability = 1 << iota
	// Heuristic nodes carry h and the priority f = g (+) h.
	Heuristic
	// Lookahead nodes carry the AD* rhs value and a two-component key.
	Lookahead
)

func (c Capability) String() string {
	switch {
	case c&Lookahead != 0:
		return "adstar"
	case c&Heuristic != 0:
		return "heuristic"
	case c&Cost != 0:
		return "cost"
	default:
		return "plain"
	}
}

// Transition is a directed edge between two states.
type Transition[StateType comparable] struct {
	from    StateType
	to      StateType
	hasFrom bool
}

// NewTransition returns the edge from -> to.
func NewTransition[StateType comparable](from, to StateType) Transition[StateType] {
	return Transition[StateType]{from: from, to: to, hasFrom: true}
}

// Origin returns the transition that introduces the initial state of a search.
func Origin[StateType comparable](to StateType) Transition[StateType] {
	return Transition[StateType]{to: to}
}

// From returns the source state, or false for an origin transition.
func (t Transition[StateType]) From() (StateType, bool) { return t.from, t.hasFrom }

// To returns the target state.
func (t Transition[StateType]) To() StateType { return t.to }

func (t Transition[StateType]) String() string {
	if !t.hasFrom {
		return fmt.Sprintf("(origin -> %v)", t.to)
	}
	return fmt.Sprintf("(%v -> %v)", t.from, t.to)
}

// Key is the two-component AD* priority.
type Key[CostType any] struct {
	Primary   CostType
	Secondary CostType
}

// Node is a state reached during search plus the bookkeeping the strategy needs.
type Node[StateType comparable, CostType any] struct {
	arena      *Arena[StateType, CostType]
	handle     Handle
	parent     Handle
	state      StateType
	transition Transition[StateType]

	capabilities Capability
	g            CostType
	h            CostType
	f            CostType
	rhs          CostType
	key          Key[CostType]
}

func (n *Node[StateType, CostType]) State() StateType { return n.state }

func (n *Node[StateType, CostType]) Transition() Transition[StateType] { return n.transition }

// Handle returns the node's position in its arena.
func (n *Node[StateType, CostType]) Handle() Handle { return n.handle }

// Parent returns the predecessor, or false for the origin.
func (n *Node[StateType, CostType]) Parent() (*Node[StateType, CostType], bool) {
	if n.parent == NoParent {
		return nil, false
	}
	return n.arena.Get(n.parent)
}

// Has reports whether the node carries every capability in c.
func (n *Node[StateType, CostType]) Has(c Capability) bool { return n.capabilities&c == c }

// Capabilities returns the node's capability set.
func (n *Node[StateType, CostType]) Capabilities() Capability { return n.capabilities }

// G is the accumulated cost from the origin. Zero value without Cost.
func (n *Node[StateType, CostType]) G() CostType { return n.g }

// H is the heuristic estimate to the goal. Zero value without Heuristic.
func (n *Node[StateType, CostType]) H() CostType { return n.h }

// F is the expansion priority: g (+) h, or the primary AD* key component.
func (n *Node[StateType, CostType]) F() CostType { return n.f }

// RHS is the AD* one-step lookahead cost. Zero value without Lookahead.
func (n *Node[StateType, CostType]) RHS() CostType { return n.rhs }

// Key is the AD* priority. Zero value without Lookahead.
func (n *Node[StateType, CostType]) Key() Key[CostType] { return n.key }

// Path returns the nodes from the origin to n.
func (n *Node[StateType, CostType]) Path() []*Node[StateType, CostType] { return Path(n) }

// States returns the states visited from the origin to n.
func (n *Node[StateType, CostType]) States() []StateType { return StatesFrom(Path(n)) }

func (n *Node[StateType, CostType]) String() string {
	return fmt.Sprintf("%s#%d%s", n.capabilities, n.handle, n.transition)
}
