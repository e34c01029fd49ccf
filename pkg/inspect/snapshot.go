package inspect

import (
	"github.com/kakapo-ui/kakapo/pkg/view"
)

// Snapshot is the JSON form of a committed tree.
type Snapshot struct {
	Window     string  `json:"window"`
	Generation uint64  `json:"generation"`
	Patches    []Patch `json:"patches"`
	Root       *Node   `json:"root"`
}

// Node is the JSON form of a retained widget.
type Node struct {
	ID        uint64         `json:"id"`
	Kind      string         `json:"kind"`
	Key       string         `json:"key,omitempty"`
	Props     map[string]any `json:"props,omitempty"`
	Pressable bool           `json:"pressable,omitempty"`
	Children  []*Node        `json:"children,omitempty"`
}

// Patch is the JSON form of a view.Patch.
type Patch struct {
	Op     string `json:"op"`
	ID     uint64 `json:"id"`
	Parent uint64 `json:"parent,omitempty"`
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	Value  any    `json:"value,omitempty"`
}

// NewSnapshot converts tree. It must run before the next commit.
func NewSnapshot(window string, tree *view.WidgetTree) *Snapshot {
	s := &Snapshot{
		Window:     window,
		Generation: tree.Generation,
		Patches:    make([]Patch, 0, len(tree.Patches)),
		Root:       convertNode(tree.Root),
	}
	for _, p := range tree.Patches {
		s.Patches = append(s.Patches, Patch{
			Op:     p.Op.String(),
			ID:     uint64(p.ID),
			Parent: uint64(p.Parent),
			Index:  p.Index,
			Key:    p.Key,
			Value:  p.Value,
		})
	}
	return s
}

func convertNode(n *view.Node) *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:        uint64(n.ID),
		Kind:      string(n.Kind),
		Key:       n.Key,
		Pressable: n.IsInteractive(),
	}
	if len(n.Props) > 0 {
		out.Props = make(map[string]any, len(n.Props))
		for k, v := range n.Props {
			out.Props[k] = v
		}
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, convertNode(c))
	}
	return out
}
