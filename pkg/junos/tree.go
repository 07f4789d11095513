package junos

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"
)

// NodeID identifies a node in a Tree. IDs are dense and assigned in
// document order starting at 0 for the root.
type NodeID int

// NoParent is the parent of the root node.
const NoParent NodeID = -1

// TreeNode is one container element of the configuration. Leaf elements are
// folded into Attributes of their parent.
type TreeNode struct {
	ID         NodeID            `json:"id"`
	Name       string            `json:"name"`
	Parent     NodeID            `json:"parent"`
	Children   []NodeID          `json:"children,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Tree is a display-oriented mirror of the configuration hierarchy. Parent
// links are IDs into Nodes, not pointers.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// BuildTree mirrors the element structure below cfg.
func BuildTree(cfg *xmlquery.Node) *Tree {
	t := &Tree{}
	root := t.add("configuration", NoParent)
	t.fill(cfg, root)
	return t
}

func (t *Tree) add(name string, parent NodeID) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, TreeNode{ID: id, Name: name, Parent: parent})
	if parent != NoParent {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, id)
	}
	return id
}

func (t *Tree) fill(el *xmlquery.Node, id NodeID) {
	for _, c := range Elements(el) {
		if IsLeaf(c) {
			t.setAttribute(id, c.Data, Text(c))
			continue
		}
		child := t.add(c.Data, id)
		t.fill(c, child)
	}
}

// setAttribute records a leaf value. Repeated leaves (leaf-lists such as
// community members) are joined.
func (t *Tree) setAttribute(id NodeID, key, value string) {
	n := &t.Nodes[id]
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	if prev, ok := n.Attributes[key]; ok && prev != "" {
		n.Attributes[key] = prev + ", " + value
		return
	}
	n.Attributes[key] = value
}

// Root returns the root node.
func (t *Tree) Root() *TreeNode {
	if len(t.Nodes) == 0 {
		return nil
	}
	return &t.Nodes[0]
}

// Node returns the node with the given ID, or nil.
func (t *Tree) Node(id NodeID) *TreeNode {
	if id < 0 || int(id) >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id]
}

// Label returns the node name qualified by its name attribute when present.
func (n *TreeNode) Label() string {
	if v, ok := n.Attributes["name"]; ok && v != "" {
		return n.Name + " " + v
	}
	return n.Name
}

// Path returns the labels from just below the root down to id, joined
// with " > ".
func (t *Tree) Path(id NodeID) string {
	var parts []string
	for n := t.Node(id); n != nil && n.Parent != NoParent; n = t.Node(n.Parent) {
		parts = append(parts, n.Label())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// Walk visits nodes depth-first from the root. Returning false skips the
// subtree.
func (t *Tree) Walk(fn func(n *TreeNode, depth int) bool) {
	if len(t.Nodes) == 0 {
		return
	}
	t.walk(0, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(n *TreeNode, depth int) bool) {
	n := &t.Nodes[id]
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		t.walk(c, depth+1, fn)
	}
}

// Render writes an indented listing of the tree. maxDepth <= 0 means no limit.
func (t *Tree) Render(w io.Writer, maxDepth int) {
	t.Walk(func(n *TreeNode, depth int) bool {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(w, "%s%s\n", indent, n.Label())

		keys := make([]string, 0, len(n.Attributes))
		for k := range n.Attributes {
			if k != "name" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := n.Attributes[k]; v != "" {
				fmt.Fprintf(w, "%s  %s: %s\n", indent, k, v)
			} else {
				fmt.Fprintf(w, "%s  %s\n", indent, k)
			}
		}
		return maxDepth <= 0 || depth+1 < maxDepth
	})
}
