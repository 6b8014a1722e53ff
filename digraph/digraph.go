// Package digraph implements the DeRemer-Pennello "digraph algorithm"
// (F. DeRemer, T. Pennello, "Efficient Computation of LALR(1) Look-Ahead
// Sets", ACM TOPLAS 1982): a way to solve systems of set equations of the
// shape
//
//	F(x) = F'(x) ∪ ⋃ { F(y) | x R y }
//
// over a finite node set without ever materializing R's transitive
// closure. grammar/lalr1.go uses it to compute the Read and Follow
// relations that the LALR(1) upgrade needs.
package digraph

import "github.com/emirpasic/gods/v2/stacks/arraystack"

// Relation is a finite directed graph over a node set N. Edges are added
// once and read many times during Solve, so Relation keeps a plain
// adjacency list rather than anything more elaborate.
type Relation[N comparable] struct {
	out map[N][]N
}

// NewRelation returns an empty relation.
func NewRelation[N comparable]() *Relation[N] {
	return &Relation[N]{out: map[N][]N{}}
}

// Add records the edge from -> to. Duplicate edges are harmless (Solve
// only cares about reachability, not multiplicity) and are kept as-is to
// avoid the cost of deduplicating on every call.
func (r *Relation[N]) Add(from, to N) {
	r.out[from] = append(r.out[from], to)
}

// Successors returns the nodes y such that n R y, in insertion order.
func (r *Relation[N]) Successors(n N) []N {
	return r.out[n]
}

// SCC reports one strongly connected component discovered while solving a
// relation. Every node in Members shares the same final value, since a
// cycle in R forces all its members to see each other's contributions.
type SCC[N comparable, V comparable] struct {
	Members []N
	Value   map[V]struct{}
}

// NonTrivial reports whether this component has more than one member,
// i.e. whether R actually has a cycle here rather than just a self-loop
// absence.
func (c SCC[N, V]) NonTrivial() bool {
	return len(c.Members) > 1
}

// Solve computes F(x) = Init(x) ∪ ⋃_{x R y} F(y) for every x in nodes.
// It walks the relation depth-first with an explicit stack (the call
// stack of the textbook recursive algorithm is simulated by frame, so no
// Go call recurses) and condenses strongly connected components exactly
// like Tarjan's algorithm: a node that can reach itself through R must
// end up sharing one F value with everything else on that cycle, which is
// assigned once the component closes.
//
// onSCC, when non-nil, is invoked once per component in the order it
// closes (a reverse topological order on R's condensation: a component
// closes only after every component it reaches). Callers use it to
// detect, for example, a non-trivial Read-relation cycle with a non-empty
// direct-read set, which means the grammar needs unbounded lookahead.
func Solve[N comparable, V comparable](nodes []N, rel *Relation[N], init func(N) map[V]struct{}, onSCC func(SCC[N, V])) map[N]map[V]struct{} {
	f := map[N]map[V]struct{}{}
	pushDepth := map[N]int{}
	low := map[N]int{}
	done := map[N]bool{}
	nodeStack := arraystack.New[N]()

	type frame struct {
		node  N
		succs []N
		i     int
	}
	callStack := arraystack.New[*frame]()

	push := func(n N) {
		nodeStack.Push(n)
		d := nodeStack.Size()
		pushDepth[n] = d
		low[n] = d
		f[n] = cloneSet(init(n))
		callStack.Push(&frame{node: n, succs: rel.Successors(n)})
	}

	for _, start := range nodes {
		if pushDepth[start] != 0 {
			continue
		}
		push(start)

		for !callStack.Empty() {
			top, _ := callStack.Peek()

			if top.i < len(top.succs) {
				y := top.succs[top.i]
				top.i++

				switch {
				case pushDepth[y] == 0:
					push(y)
				case done[y]:
					mergeInto(f[top.node], f[y])
				default: // y is an ancestor still on the stack: genuine back edge
					if low[y] < low[top.node] {
						low[top.node] = low[y]
					}
					mergeInto(f[top.node], f[y])
				}
				continue
			}

			callStack.Pop()

			if low[top.node] != pushDepth[top.node] {
				// Not a component root yet; propagate to the caller.
				if parent, ok := callStack.Peek(); ok {
					if low[top.node] < low[parent.node] {
						low[parent.node] = low[top.node]
					}
					mergeInto(f[parent.node], f[top.node])
				}
				continue
			}

			var members []N
			for {
				w, _ := nodeStack.Pop()
				members = append(members, w)
				done[w] = true
				if w == top.node {
					break
				}
			}
			shared := f[top.node]
			for _, w := range members {
				f[w] = shared
			}
			if onSCC != nil {
				onSCC(SCC[N, V]{Members: members, Value: shared})
			}

			if parent, ok := callStack.Peek(); ok {
				if low[top.node] < low[parent.node] {
					low[parent.node] = low[top.node]
				}
				mergeInto(f[parent.node], shared)
			}
		}
	}

	return f
}

func cloneSet[V comparable](s map[V]struct{}) map[V]struct{} {
	out := make(map[V]struct{}, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

func mergeInto[V comparable](dst, src map[V]struct{}) {
	for v := range src {
		dst[v] = struct{}{}
	}
}
