package view

import "strconv"

// ID is the stable identity of a retained node, assigned by its cache.
// The zero ID means "not yet retained".
type ID uint64

// String returns the string representation of the ID (e.g. "w3").
func (id ID) String() string {
	return "w" + strconv.FormatUint(uint64(id), 10)
}

// Kind is the widget kind discriminator ("box", "button", ...).
type Kind string

// Props holds a node's display and layout parameters.
type Props map[string]any

// Delegates holds the behaviors attached to a node. The set of event
// capabilities is closed.
type Delegates struct {
	Press PressDelegate
}

// IsZero reports whether no delegate is attached.
func (d Delegates) IsZero() bool {
	return d.Press == nil
}

// Node is one widget in a description or a committed tree.
type Node struct {
	ID        ID        // Assigned when retained
	Kind      Kind      // Widget kind
	Key       string    // Optional reconciliation key
	Props     Props     // Display and layout parameters
	Delegates Delegates // Replaced wholesale on every build
	Children  []*Node

	// Resource is owned by the renderer. It survives in-place mutations
	// and is dropped with the node.
	Resource any

	owner *WidgetCache
}

// Describe implements Widget, so plain node literals can be built.
func (n *Node) Describe() *Node {
	return n
}

// Prop returns the value of a prop, or nil.
func (n *Node) Prop(key string) any {
	if n == nil || n.Props == nil {
		return nil
	}
	return n.Props[key]
}

// IsInteractive reports whether the node has any delegate attached.
func (n *Node) IsInteractive() bool {
	return n != nil && !n.Delegates.IsZero()
}

// Retained reports whether the node belongs to a committed tree.
func (n *Node) Retained() bool {
	return n != nil && n.owner != nil
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}
