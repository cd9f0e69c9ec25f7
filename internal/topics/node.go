// Package topics builds the topic hierarchy from an indented definition file
// and classifies entries into it by slash-delimited topic paths.
package topics

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Node is one (sub)topic. The root node has an empty name and stands for
// "no topic"; it never receives entries.
type Node struct {
	name     string
	path     []string
	children *orderedmap.OrderedMap[string, *Node]
	entries  []string
}

// NewRoot returns an empty tree.
func NewRoot() *Node {
	return newNode("", nil)
}

func newNode(name string, path []string) *Node {
	return &Node{
		name:     name,
		path:     path,
		children: orderedmap.New[string, *Node](),
	}
}

// Name returns the topic name ("" for the root).
func (n *Node) Name() string { return n.name }

// Path returns the names from the root down to n. The root has an empty path.
func (n *Node) Path() []string {
	out := make([]string, len(n.path))
	copy(out, n.path)
	return out
}

// Depth is the length of the node's path: 0 for the root, 1 for topics
// declared without indentation.
func (n *Node) Depth() int { return len(n.path) }

// IsRoot reports whether n is the tree root.
func (n *Node) IsRoot() bool { return len(n.path) == 0 }

// Entries returns a copy of the entry identifiers classified into n.
func (n *Node) Entries() []string {
	out := make([]string, len(n.entries))
	copy(out, n.entries)
	return out
}

// Len returns the number of direct children.
func (n *Node) Len() int { return n.children.Len() }

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	return n.children.Get(name)
}

// Children returns the direct children in declaration order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, n.children.Len())
	for p := n.children.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// AddTopic makes sure every node on path exists, creating missing ones in
// order, and returns the node at the end of the path.
func (n *Node) AddTopic(path []string) *Node {
	cur := n
	for _, name := range path {
		child, ok := cur.children.Get(name)
		if !ok {
			childPath := make([]string, len(cur.path)+1)
			copy(childPath, cur.path)
			childPath[len(cur.path)] = name
			child = newNode(name, childPath)
			cur.children.Set(name, child)
		}
		cur = child
	}
	return cur
}

// Lookup descends along path by exact name. It returns the deepest node
// reached and the number of segments consumed; the lookup succeeded when
// that number equals len(path).
func (n *Node) Lookup(path []string) (*Node, int) {
	cur := n
	for i, name := range path {
		child, ok := cur.children.Get(name)
		if !ok {
			return cur, i
		}
		cur = child
	}
	return cur, len(path)
}

// Find returns the node at path, or false when any segment is missing.
func (n *Node) Find(path []string) (*Node, bool) {
	node, matched := n.Lookup(path)
	if matched != len(path) {
		return nil, false
	}
	return node, true
}

// WalkFunc is called for each node visited by Walk. Returning an error stops
// the walk.
type WalkFunc func(node *Node) error

// Walk visits n and all its descendants in pre-order, siblings in
// declaration order.
func (n *Node) Walk(fn WalkFunc) error {
	if err := fn(n); err != nil {
		return err
	}
	for p := n.children.Oldest(); p != nil; p = p.Next() {
		if err := p.Value.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// CountTopics returns the number of topics below n, excluding n itself.
func (n *Node) CountTopics() int {
	count := -1
	_ = n.Walk(func(*Node) error {
		count++
		return nil
	})
	return count
}

// String dumps the tree: each node's entry list followed by its named
// children, indented two spaces per level.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, indent int) {
	pad := strings.Repeat(" ", indent)
	b.WriteString(pad)
	b.WriteString("[")
	b.WriteString(strings.Join(n.entries, " "))
	b.WriteString("]\n")
	for p := n.children.Oldest(); p != nil; p = p.Next() {
		b.WriteString(pad)
		b.WriteString(p.Key)
		b.WriteString("\n")
		p.Value.dump(b, indent+2)
	}
}

func (n *Node) attach(entry string) {
	n.entries = append(n.entries, entry)
}
