package view

import (
	"maps"
	"reflect"
	"slices"
)

// reconcile diffs a description node against the retained node at the same
// position and returns the node that occupies that position afterwards.
func (c *WidgetCache) reconcile(old, desc *Node, parent ID, index int, patches *[]Patch) *Node {
	switch {
	case old == nil && desc == nil:
		return nil

	case old == nil:
		n := c.adopt(desc)
		*patches = append(*patches, Patch{Op: PatchInsert, ID: n.ID, Parent: parent, Index: index, Node: n})
		return n

	case desc == nil:
		c.release(old)
		*patches = append(*patches, Patch{Op: PatchRemove, ID: old.ID, Parent: parent})
		return nil

	case !sameWidget(old, desc):
		// Never mutate across kinds: drop the old subtree, insert the new one.
		c.release(old)
		*patches = append(*patches, Patch{Op: PatchRemove, ID: old.ID, Parent: parent})
		n := c.adopt(desc)
		*patches = append(*patches, Patch{Op: PatchInsert, ID: n.ID, Parent: parent, Index: index, Node: n})
		return n
	}

	diffProps(old, desc, patches)
	old.Props = desc.Props
	old.Delegates = desc.Delegates
	old.Children = c.reconcileChildren(old, compact(desc.Children), patches)
	return old
}

// sameWidget reports whether a retained node can be updated in place.
func sameWidget(old, desc *Node) bool {
	return old.Kind == desc.Kind && old.Key == desc.Key
}

// reconcileChildren diffs child lists, positionally unless keys are present.
func (c *WidgetCache) reconcileChildren(parent *Node, desc []*Node, patches *[]Patch) []*Node {
	if hasKeys(parent.Children) || hasKeys(desc) {
		return c.reconcileKeyed(parent, desc, patches)
	}
	return c.reconcilePositional(parent, desc, patches)
}

// reconcilePositional pairs children by index. Extra description children
// are inserted, extra retained children are removed.
func (c *WidgetCache) reconcilePositional(parent *Node, desc []*Node, patches *[]Patch) []*Node {
	old := parent.Children
	n := max(len(old), len(desc))
	if n == 0 {
		return nil
	}

	out := make([]*Node, 0, len(desc))
	for i := 0; i < n; i++ {
		var o, d *Node
		if i < len(old) {
			o = old[i]
		}
		if i < len(desc) {
			d = desc[i]
		}
		if r := c.reconcile(o, d, parent.ID, i, patches); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// reconcileKeyed matches children by key. A child without a key falls back
// to the unkeyed retained child at the same index when both have the same
// kind. Unmatched retained children are removed first; Insert and Move
// indexes then refer to the list as it stands after each preceding patch.
func (c *WidgetCache) reconcileKeyed(parent *Node, desc []*Node, patches *[]Patch) []*Node {
	old := parent.Children

	prevByKey := make(map[string]int, len(old))
	for i, child := range old {
		if child.Key != "" {
			prevByKey[child.Key] = i
		}
	}

	match := make([]int, len(desc))
	matched := make([]bool, len(old))
	for i, d := range desc {
		match[i] = -1
		if d.Key == "" {
			continue
		}
		if j, ok := prevByKey[d.Key]; ok && !matched[j] {
			match[i] = j
			matched[j] = true
		}
	}
	for i, d := range desc {
		if d.Key != "" || i >= len(old) || matched[i] {
			continue
		}
		if o := old[i]; o.Key == "" && sameWidget(o, d) {
			match[i] = i
			matched[i] = true
		}
	}

	// cur mirrors the renderer's child list while patches are emitted.
	cur := make([]*Node, 0, len(old))
	for j, o := range old {
		if matched[j] {
			cur = append(cur, o)
			continue
		}
		c.release(o)
		*patches = append(*patches, Patch{Op: PatchRemove, ID: o.ID, Parent: parent.ID})
	}

	out := make([]*Node, 0, len(desc))
	for i, d := range desc {
		j := match[i]
		if j < 0 {
			n := c.adopt(d)
			*patches = append(*patches, Patch{Op: PatchInsert, ID: n.ID, Parent: parent.ID, Index: i, Node: n})
			cur = slices.Insert(cur, i, n)
			out = append(out, n)
			continue
		}

		o := old[j]
		p := slices.Index(cur, o)
		if p != i && sameWidget(o, d) {
			*patches = append(*patches, Patch{Op: PatchMove, ID: o.ID, Parent: parent.ID, Index: i})
		}
		n := c.reconcile(o, d, parent.ID, i, patches)
		cur = slices.Insert(slices.Delete(cur, p, p+1), i, n)
		out = append(out, n)
	}
	return out
}

// diffProps compares props and appends SetProp/RemoveProp patches in key
// order.
func diffProps(old, desc *Node, patches *[]Patch) {
	for _, key := range slices.Sorted(maps.Keys(old.Props)) {
		nextVal, exists := desc.Props[key]
		if !exists {
			*patches = append(*patches, Patch{Op: PatchRemoveProp, ID: old.ID, Key: key})
		} else if !propsEqual(old.Props[key], nextVal) {
			*patches = append(*patches, Patch{Op: PatchSetProp, ID: old.ID, Key: key, Value: nextVal})
		}
	}

	for _, key := range slices.Sorted(maps.Keys(desc.Props)) {
		if _, exists := old.Props[key]; !exists {
			*patches = append(*patches, Patch{Op: PatchSetProp, ID: old.ID, Key: key, Value: desc.Props[key]})
		}
	}
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float32:
		bv, ok := b.(float32)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// hasKeys returns true if any node has a key.
func hasKeys(nodes []*Node) bool {
	for _, n := range nodes {
		if n != nil && n.Key != "" {
			return true
		}
	}
	return false
}

// compact drops nil children from a description.
func compact(nodes []*Node) []*Node {
	for _, n := range nodes {
		if n == nil {
			return slices.DeleteFunc(slices.Clone(nodes), func(n *Node) bool { return n == nil })
		}
	}
	return nodes
}
