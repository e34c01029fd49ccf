package view

import (
	"sync/atomic"

	"github.com/kakapo-ui/kakapo/internal/errors"
)

// Build phases, stored in WidgetCache.phase.
const (
	phaseIdle int32 = iota
	phaseDescribing
	phaseDiffing
)

// WidgetCache retains the previous widget tree and reconciles new
// descriptions against it. It is owned by one render goroutine.
type WidgetCache struct {
	root       *Node
	index      map[ID]*Node
	nextID     uint64
	generation uint64
	last       *WidgetTree

	phase atomic.Int32
}

// NewWidgetCache creates an empty cache. The first Build inserts everything.
func NewWidgetCache() *WidgetCache {
	return &WidgetCache{
		index: make(map[ID]*Node),
	}
}

// Build describes root, diffs the description against the retained tree and
// returns the committed tree with the patches that produced it.
//
// Build panics with K011 if called from inside a Describe, K012 if called
// concurrently, K013 for an empty description and K010 if the description
// contains nodes already retained by a cache.
func (c *WidgetCache) Build(root Widget) *WidgetTree {
	if !c.phase.CompareAndSwap(phaseIdle, phaseDescribing) {
		if c.phase.Load() == phaseDescribing {
			panic(errors.New("K011"))
		}
		panic(errors.New("K012"))
	}
	defer c.phase.Store(phaseIdle)

	if root == nil {
		panic(errors.New("K013"))
	}
	desc := root.Describe()
	if desc == nil {
		panic(errors.New("K013"))
	}

	c.phase.Store(phaseDiffing)
	c.checkDescription(desc)

	if c.index == nil {
		c.index = make(map[ID]*Node)
	}

	var patches []Patch
	c.root = c.reconcile(c.root, desc, 0, 0, &patches)
	c.generation++
	c.last = &WidgetTree{
		Root:       c.root,
		Patches:    patches,
		Generation: c.generation,
		cache:      c,
	}
	return c.last
}

// Tree returns the last committed tree, or nil before the first build.
func (c *WidgetCache) Tree() *WidgetTree {
	return c.last
}

// Find returns the retained node with the given ID, or nil.
func (c *WidgetCache) Find(id ID) *Node {
	return c.index[id]
}

// Generation returns the number of builds committed so far.
func (c *WidgetCache) Generation() uint64 {
	return c.generation
}

// Len returns the number of retained nodes.
func (c *WidgetCache) Len() int {
	return len(c.index)
}

// Reset drops the retained tree. The next Build inserts everything and
// renderer resources attached to old nodes are lost.
func (c *WidgetCache) Reset() {
	if c.root != nil {
		c.release(c.root)
	}
	c.root = nil
	c.last = nil
}

// checkDescription rejects nodes that are already retained, or that appear
// twice in the same description.
func (c *WidgetCache) checkDescription(desc *Node) {
	seen := make(map[*Node]struct{})
	desc.Walk(func(n *Node, _ int) bool {
		if n.owner != nil {
			actual := "node retained by another cache"
			if n.owner == c {
				actual = "node retained by this cache"
			}
			panic(errors.New("K010").
				WithTypes("freshly described node", actual+" ("+n.ID.String()+")").
				WithSuggestion("Build a new description on every render instead of reusing a committed tree"))
		}
		if _, dup := seen[n]; dup {
			panic(errors.New("K010").
				WithTypes("freshly described node", "node appears twice in the description"))
		}
		seen[n] = struct{}{}
		return true
	})
}

// adopt turns a description subtree into retained nodes with fresh IDs.
func (c *WidgetCache) adopt(n *Node) *Node {
	n.Walk(func(node *Node, _ int) bool {
		node.Children = compact(node.Children)
		c.nextID++
		node.ID = ID(c.nextID)
		node.owner = c
		c.index[node.ID] = node
		return true
	})
	return n
}

// release drops a retained subtree from the index. The nodes keep their
// owner so that reusing them in a later description is still detected.
func (c *WidgetCache) release(n *Node) {
	n.Walk(func(node *Node, _ int) bool {
		delete(c.index, node.ID)
		node.Resource = nil
		return true
	})
}
