package view

import "fmt"

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchInsert     PatchOp = 0x01 // Insert a new subtree
	PatchRemove     PatchOp = 0x02 // Remove a subtree
	PatchMove       PatchOp = 0x03 // Move a keyed node to a new index
	PatchSetProp    PatchOp = 0x04 // Set or update a prop
	PatchRemoveProp PatchOp = 0x05 // Remove a prop
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchInsert:
		return "Insert"
	case PatchRemove:
		return "Remove"
	case PatchMove:
		return "Move"
	case PatchSetProp:
		return "SetProp"
	case PatchRemoveProp:
		return "RemoveProp"
	default:
		return "Unknown"
	}
}

// Patch is a single structural change between two committed trees.
type Patch struct {
	Op     PatchOp // Operation type
	ID     ID      // Target node
	Parent ID      // Parent for Insert/Move/Remove (0 for the root)
	Index  int     // Final position for Insert/Move
	Key    string  // Prop key for SetProp/RemoveProp
	Value  any     // New prop value
	Node   *Node   // Inserted subtree
}

// String returns a short description of the patch.
func (p Patch) String() string {
	switch p.Op {
	case PatchInsert:
		return fmt.Sprintf("Insert %s %s at %s[%d]", p.ID, p.Node.Kind, p.Parent, p.Index)
	case PatchRemove:
		return fmt.Sprintf("Remove %s from %s", p.ID, p.Parent)
	case PatchMove:
		return fmt.Sprintf("Move %s to %s[%d]", p.ID, p.Parent, p.Index)
	case PatchSetProp:
		return fmt.Sprintf("SetProp %s.%s = %v", p.ID, p.Key, p.Value)
	case PatchRemoveProp:
		return fmt.Sprintf("RemoveProp %s.%s", p.ID, p.Key)
	default:
		return "Unknown"
	}
}

// WidgetTree is the committed output of one render pass. Root points at the
// cache's retained nodes, which the next Build of the same cache updates in
// place; only Patches and Generation are fixed. Once a tree is Stale it
// holds no state of its own, and renderers that need a stable view must
// copy what they read during Commit. Callers must not mutate the nodes.
type WidgetTree struct {
	Root       *Node
	Patches    []Patch
	Generation uint64

	cache *WidgetCache
}

// Stale reports whether a newer build of the same cache has superseded t.
func (t *WidgetTree) Stale() bool {
	return t.cache != nil && t.cache.generation != t.Generation
}

// Find returns the node with the given ID, or nil.
func (t *WidgetTree) Find(id ID) *Node {
	if t == nil {
		return nil
	}
	if !t.Stale() && t.cache != nil {
		return t.cache.index[id]
	}
	var found *Node
	t.Root.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
		}
		return true
	})
	return found
}

// Walk visits every node depth-first.
func (t *WidgetTree) Walk(fn func(node *Node, depth int) bool) {
	if t == nil {
		return
	}
	t.Root.Walk(fn)
}

// Len returns the number of nodes in the tree.
func (t *WidgetTree) Len() int {
	if t == nil {
		return 0
	}
	return t.Root.Count()
}

// OpCounts returns the number of patches per operation.
func (t *WidgetTree) OpCounts() map[PatchOp]int {
	counts := make(map[PatchOp]int)
	if t == nil {
		return counts
	}
	for _, p := range t.Patches {
		counts[p.Op]++
	}
	return counts
}
