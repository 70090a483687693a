// File: node.go
// Title: Statement Tree Nodes
// Description: Defines the labeled node the parser builds statement trees
//              from, and the labels of every node the grammar produces.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package ast

import "fmt"

// Label names the grammatical role of a node
type Label string

const (
	// Statement roots
	LabelQuit    Label = "QUIT"
	LabelHowMany Label = "HOWMANY"
	LabelHowMuch Label = "HOWMUCH"
	LabelAssign  Label = "ASSIGN"

	// Containers and leaves
	LabelGalNumber  Label = "GALNUMBER"
	LabelGalNumeral Label = "GALNUMERAL"
	LabelCommodity  Label = "COMMODITY"
	LabelNumber     Label = "NUMBER"
)

// Node is one element of a statement tree. A node owns its children.
// Value is empty for container nodes.
type Node struct {
	Label    Label
	Value    string
	Children []*Node
	Root     bool
	Leaf     bool
	Offset   int // byte offset of the token the node was built from
}

// NewRoot creates a root node that can hold children
func NewRoot(label Label) *Node {
	return &Node{Label: label, Root: true}
}

// NewRootLeaf creates a root node that never holds children
func NewRootLeaf(label Label) *Node {
	return &Node{Label: label, Root: true, Leaf: true}
}

// NewBranch creates an inner container node
func NewBranch(label Label) *Node {
	return &Node{Label: label}
}

// NewLeaf creates a valued leaf node
func NewLeaf(label Label, value string, offset int) *Node {
	return &Node{Label: label, Value: value, Leaf: true, Offset: offset}
}

// ChildValues returns the values of the direct children
func (n *Node) ChildValues() []string {
	values := make([]string, len(n.Children))
	for i, c := range n.Children {
		values[i] = c.Value
	}
	return values
}

// String returns LABEL or LABEL(value)
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Value != "" {
		return fmt.Sprintf("%s(%s)", n.Label, n.Value)
	}
	return string(n.Label)
}
