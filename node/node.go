// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package node implements the scene's graph.
package node

import (
	"github.com/gviegas/road/internal/bitvec"
	"github.com/gviegas/road/linear"
)

// Interface of a node.
type Interface interface {
	// Local returns the local transform of the node.
	// It must not return nil.
	Local() *linear.M4

	// Changed returns whether the local transform
	// has changed since the last call to Local.
	Changed() bool
}

// Node identifies a node in a Graph.
type Node int

// Nil represents an invalid Node.
const Nil Node = 0

type node struct {
	parent Node
	next   Node
	prev   Node
	sub    Node
	data   int
}

type data struct {
	local Interface
	world linear.M4
	node  Node
}

// Graph is a node graph.
// The zero value is an empty graph whose global world
// transform is the identity.
type Graph struct {
	next    Node
	world   linear.M4
	changed bool
	nodes   []node
	nodeMap bitvec.V[uint32]
	data    []data
}

// valid returns whether n identifies a node in g.
func (g *Graph) valid(n Node) bool { return g.nodeMap.IsSet(int(n) - 1) }

func (g *Graph) at(n Node) *node { return &g.nodes[n-1] }

// Insert inserts a new node as descendant of prev.
// If prev is Nil, the node has no ancestor.
// It panics if prev is neither Nil nor a node of g.
func (g *Graph) Insert(local Interface, prev Node) Node {
	if prev != Nil && !g.valid(prev) {
		panic("node: Graph.Insert: invalid ancestor")
	}
	if g.nodeMap.Rem() == 0 {
		var elems [32]node
		g.nodes = append(g.nodes, elems[:]...)
		g.nodeMap.Grow(1)
	}
	idx, ok := g.nodeMap.Search()
	if !ok {
		// Should never happen.
		panic("unexpected failure from bitvec.V.Search")
	}
	g.nodeMap.Set(idx)
	n := Node(idx + 1)
	*g.at(n) = node{parent: prev, data: len(g.data)}
	g.data = append(g.data, data{local: local, node: n})
	g.data[len(g.data)-1].world.I()

	// New nodes go at the end of the sibling list
	// so traversal follows insertion order.
	head := &g.next
	if prev != Nil {
		head = &g.at(prev).sub
	}
	if *head == Nil {
		*head = n
		return n
	}
	last := *head
	for g.at(last).next != Nil {
		last = g.at(last).next
	}
	g.at(last).next = n
	g.at(n).prev = last
	return n
}

// Remove removes a node and all of its descendants.
// It returns the node's Interface.
// It panics if n is not a node of g.
func (g *Graph) Remove(n Node) Interface {
	if !g.valid(n) {
		panic("node: Graph.Remove: invalid node")
	}
	nd := g.at(n)
	switch {
	case nd.prev != Nil:
		g.at(nd.prev).next = nd.next
	case nd.parent != Nil:
		g.at(nd.parent).sub = nd.next
	default:
		g.next = nd.next
	}
	if nd.next != Nil {
		g.at(nd.next).prev = nd.prev
	}
	local := g.data[nd.data].local
	g.free(n)
	return local
}

// free releases n and its descendants.
func (g *Graph) free(n Node) {
	for sub := g.at(n).sub; sub != Nil; {
		next := g.at(sub).next
		g.free(sub)
		sub = next
	}
	d := g.at(n).data
	last := len(g.data) - 1
	if d < last {
		g.data[d] = g.data[last]
		g.at(g.data[d].node).data = d
	}
	g.data[last] = data{}
	g.data = g.data[:last]
	*g.at(n) = node{}
	g.nodeMap.Unset(int(n) - 1)
}

// Len returns the number of nodes in g.
func (g *Graph) Len() int { return len(g.data) }

// Get returns the Interface of n.
func (g *Graph) Get(n Node) Interface { return g.data[g.at(n).data].local }

// Parent returns the immediate ancestor of n.
// It returns Nil if n has no ancestor.
func (g *Graph) Parent(n Node) Node { return g.at(n).parent }

// World returns the world transform of n as computed by
// the last call to Update.
// If n is Nil, it returns the global world transform.
func (g *Graph) World(n Node) *linear.M4 {
	if n == Nil {
		return &g.world
	}
	return &g.data[g.at(n).data].world
}

// SetWorld sets the global world transform.
// Nodes with no ancestor are relative to this transform.
func (g *Graph) SetWorld(w *linear.M4) {
	g.world = *w
	g.changed = true
}

// global returns the transform applied to nodes
// with no ancestor.
func (g *Graph) global() (m linear.M4) {
	if g.world == (linear.M4{}) {
		m.I()
	} else {
		m = g.world
	}
	return
}

// Update computes the world transform of every node whose
// local transform (or that of an ancestor) has changed.
func (g *Graph) Update() {
	w := g.global()
	for n := g.next; n != Nil; n = g.at(n).next {
		g.update(n, &w, g.changed)
	}
	g.changed = false
}

func (g *Graph) update(n Node, prev *linear.M4, changed bool) {
	d := &g.data[g.at(n).data]
	if changed = changed || d.local.Changed(); changed {
		d.world.Mul(prev, d.local.Local())
	}
	w := &d.world
	for sub := g.at(n).sub; sub != Nil; sub = g.at(sub).next {
		g.update(sub, w, changed)
	}
}

// ForEach calls f for every descendant of n, depth-first
// and in insertion order.
// If n is Nil, it visits every node in g.
// Traversal stops when f returns false.
// f must not insert or remove nodes.
func (g *Graph) ForEach(n Node, f func(Node) bool) {
	first := g.next
	if n != Nil {
		first = g.at(n).sub
	}
	g.forEach(first, f)
}

func (g *Graph) forEach(n Node, f func(Node) bool) bool {
	for ; n != Nil; n = g.at(n).next {
		if !f(n) || !g.forEach(g.at(n).sub, f) {
			return false
		}
	}
	return true
}
