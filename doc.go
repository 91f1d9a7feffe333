// Package hipster runs graph and state-space search strategies behind one
// pull-based interface.
//
// A strategy (A*, Dijkstra, Bellman-Ford, AD*, DFS or your own) is any
// Iterator that returns one expanded node per call to Next. Search pulls from
// a fresh iterator per call and offers three ways to consume it:
//
//   - Run: stop at the goal and get a Result (goal node, path, iterations, elapsed).
//   - RunWithObserver: drain the whole sequence, calling an Observer per node.
//   - Iterator / All: raw access for custom termination or streaming.
//
// Stepper drives a single iterator one expansion at a time for UIs and debugging.
package hipster
