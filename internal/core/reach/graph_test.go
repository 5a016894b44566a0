package reach

import (
	"sort"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sortedPairs(pairs []Pair) []Pair {
	out := append([]Pair(nil), pairs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lhs != out[j].Lhs {
			return out[i].Lhs < out[j].Lhs
		}
		return out[i].Rhs < out[j].Rhs
	})
	return out
}

func TestAddEdgeSelfLoop(t *testing.T) {
	g := New()
	a := g.AddNode()

	var out []Pair
	g.AddEdge(a, a, &out)
	qt.Assert(t, qt.HasLen(out, 0))
	qt.Assert(t, qt.IsTrue(g.InDownset(a, a)))
}

func TestAddEdgeDuplicateIsNoOp(t *testing.T) {
	g := New()
	a, b := g.AddNode(), g.AddNode()

	var out []Pair
	g.AddEdge(a, b, &out)
	qt.Assert(t, qt.HasLen(out, 1))

	out = nil
	g.AddEdge(a, b, &out)
	qt.Assert(t, qt.HasLen(out, 0))
}

func TestAddEdgeTransitiveClosure(t *testing.T) {
	g := New()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()

	var out []Pair
	g.AddEdge(a, b, &out)
	g.AddEdge(b, c, &out)

	qt.Assert(t, qt.IsTrue(g.InDownset(a, c)))
	qt.Assert(t, qt.IsTrue(g.InUpset(c, a)))

	got := sortedPairs(out)
	want := []Pair{{a, b}, {b, c}, {a, c}}
	qt.Assert(t, qt.DeepEquals(got, sortedPairs(want)))
}

func TestAddEdgeEachPairEmittedOnce(t *testing.T) {
	g := New()
	a, b, c, d := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()

	var out []Pair
	g.AddEdge(a, b, &out)
	g.AddEdge(c, d, &out)
	g.AddEdge(b, c, &out)

	seen := map[Pair]int{}
	for _, p := range out {
		seen[p]++
	}
	for p, n := range seen {
		qt.Assert(t, qt.Equals(n, 1), qt.Commentf("pair %v emitted %d times", p, n))
	}
	qt.Assert(t, qt.IsTrue(g.InDownset(a, d)))
}

func TestAddEdgeCycle(t *testing.T) {
	g := New()
	a, b := g.AddNode(), g.AddNode()

	var out []Pair
	g.AddEdge(a, b, &out)
	g.AddEdge(b, a, &out)

	qt.Assert(t, qt.IsTrue(g.InDownset(a, b)))
	qt.Assert(t, qt.IsTrue(g.InDownset(b, a)))
	qt.Assert(t, qt.IsTrue(g.InDownset(a, a)))
	qt.Assert(t, qt.IsTrue(g.InDownset(b, b)))
}

// TestCloneMatchesOriginalSets diffs every node's upset/downset between a
// graph and its clone, the way types.Store.Clone is trusted to carry the
// reachability graph over without drifting from the original.
func TestCloneMatchesOriginalSets(t *testing.T) {
	g := New()
	nodes := make([]ID, 4)
	for i := range nodes {
		nodes[i] = g.AddNode()
	}

	var out []Pair
	g.AddEdge(nodes[0], nodes[1], &out)
	g.AddEdge(nodes[1], nodes[2], &out)
	g.AddEdge(nodes[2], nodes[3], &out)

	clone := g.Clone()
	less := func(a, b ID) bool { return a < b }
	for _, n := range nodes {
		diff := cmp.Diff(g.Upset(n), clone.Upset(n), cmpopts.SortSlices(less), cmpopts.EquateEmpty())
		qt.Assert(t, qt.Equals(diff, ""), qt.Commentf("upset(%d) diverged after clone", n))
		diff = cmp.Diff(g.Downset(n), clone.Downset(n), cmpopts.SortSlices(less), cmpopts.EquateEmpty())
		qt.Assert(t, qt.Equals(diff, ""), qt.Commentf("downset(%d) diverged after clone", n))
	}

	// Mutating the clone must not affect the original (snapshot isolation).
	var more []Pair
	clone.AddEdge(nodes[3], nodes[0], &more)
	qt.Assert(t, qt.IsFalse(g.InDownset(nodes[3], nodes[0])))
}

func TestMirrorInvariant(t *testing.T) {
	g := New()
	nodes := make([]ID, 5)
	for i := range nodes {
		nodes[i] = g.AddNode()
	}

	var out []Pair
	g.AddEdge(nodes[0], nodes[1], &out)
	g.AddEdge(nodes[1], nodes[2], &out)
	g.AddEdge(nodes[2], nodes[3], &out)
	g.AddEdge(nodes[0], nodes[4], &out)

	for _, n := range nodes {
		for _, m := range g.Downset(n) {
			qt.Assert(t, qt.IsTrue(g.InUpset(m, n)), qt.Commentf("downset[%d] has %d but upset[%d] lacks %d", n, m, m, n))
		}
		for _, m := range g.Upset(n) {
			qt.Assert(t, qt.IsTrue(g.InDownset(m, n)), qt.Commentf("upset[%d] has %d but downset[%d] lacks %d", n, m, m, n))
		}
	}
}
