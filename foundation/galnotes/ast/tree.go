// File: tree.go
// Title: Statement Tree
// Description: A single-rooted tree with checked insertion and pre-order
//              attribute search. Only the first inserted node becomes the
//              root; leaves never receive children.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation
// - 2026-10-14 v0.1.1: Parent must belong to the tree

package ast

import (
	"strings"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
)

// Tree wraps the root of one statement
type Tree struct {
	root *Node
}

// New creates an empty tree
func New() *Tree {
	return &Tree{}
}

// Root returns the root node, nil for an empty tree
func (t *Tree) Root() *Node {
	return t.root
}

// Empty reports whether no node was inserted yet
func (t *Tree) Empty() bool {
	return t.root == nil
}

// Insert inserts node under the root. Into an empty tree only a root node
// can be inserted.
func (t *Tree) Insert(node *Node) error {
	return t.InsertUnder(node, t.root)
}

// InsertUnder attaches node to under, which must already be in the tree.
// Into an empty tree only a root node can be inserted and under is ignored.
func (t *Tree) InsertUnder(node, under *Node) error {
	if node == nil {
		return treeError("cannot insert a nil node", "ast.Tree.Insert")
	}

	if t.root == nil {
		if !node.Root {
			return treeError("invalid root", "ast.Tree.Insert").WithDetail("node", node.String())
		}
		t.root = node
		return nil
	}

	switch {
	case node.Root:
		return treeError("tree already has a root", "ast.Tree.Insert").WithDetail("node", node.String())
	case under == nil:
		return treeError("no parent given for "+node.String(), "ast.Tree.Insert")
	case under.Leaf:
		return treeError("cannot insert under leaf "+under.String(), "ast.Tree.Insert").
			WithDetail("node", node.String())
	case !t.contains(under):
		return treeError("parent "+under.String()+" is not part of the tree", "ast.Tree.Insert").
			WithDetail("node", node.String())
	}

	under.Children = append(under.Children, node)
	return nil
}

func (t *Tree) contains(target *Node) bool {
	found := false
	t.Walk(func(n *Node, _ int) bool {
		found = n == target
		return !found
	})
	return found
}

// Predicate matches one attribute of a node
type Predicate func(*Node) bool

// WithLabel matches nodes by label
func WithLabel(label Label) Predicate {
	return func(n *Node) bool { return n.Label == label }
}

// WithValue matches nodes by value
func WithValue(value string) Predicate {
	return func(n *Node) bool { return n.Value == value }
}

// IsRoot matches nodes by root flag
func IsRoot(root bool) Predicate {
	return func(n *Node) bool { return n.Root == root }
}

// IsLeaf matches nodes by leaf flag
func IsLeaf(leaf bool) Predicate {
	return func(n *Node) bool { return n.Leaf == leaf }
}

// Seek returns the first node in pre-order that satisfies every predicate.
// Without predicates the root is returned.
func (t *Tree) Seek(preds ...Predicate) (*Node, error) {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		for _, p := range preds {
			if !p(n) {
				return true
			}
		}
		found = n
		return false
	})

	if found == nil {
		return nil, treeError("no match", "ast.Tree.Seek")
	}
	return found, nil
}

// Walk visits nodes in pre-order with their depth until fn returns false
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	if t.root == nil {
		return
	}
	walk(t.root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// String renders one line per depth with the nodes of that depth
func (t *Tree) String() string {
	if t.root == nil {
		return ""
	}

	var lines []string
	level := []*Node{t.root}
	for len(level) > 0 {
		parts := make([]string, len(level))
		var next []*Node
		for i, n := range level {
			parts[i] = n.String()
			next = append(next, n.Children...)
		}
		lines = append(lines, strings.Join(parts, " "))
		level = next
	}
	return strings.Join(lines, "\n")
}

func treeError(message, operation string) *gnerror.Error {
	return gnerror.New(message).WithCode(gnerror.CodeTree).WithOperation(operation)
}
