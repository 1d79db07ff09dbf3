// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package syntax

// Walk traverses the tree rooted at n in postorder, children before
// parents, calling visit on every node.
func Walk(n Node, visit func(Node)) {
	for _, c := range Children(n) {
		Walk(c, visit)
	}
	visit(n)
}

// Children returns the nodes nested in n, in source order. The
// attributes of messages and terms are not included: they are separate
// compiled units, reached through their own ids.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Resource:
		kids := make([]Node, len(n.Entries))
		for i, e := range n.Entries {
			kids[i] = e
		}
		return kids
	case *Message:
		if n.Value != nil {
			return []Node{n.Value}
		}
	case *Term:
		if n.Value != nil {
			return []Node{n.Value}
		}
	case *Attribute:
		return []Node{n.Value}
	case *Pattern:
		kids := make([]Node, len(n.Elements))
		for i, el := range n.Elements {
			kids[i] = el
		}
		return kids
	case *Placeable:
		return []Node{n.Expression}
	case *TermReference:
		if n.Arguments != nil {
			return []Node{n.Arguments}
		}
	case *FunctionReference:
		return []Node{n.Arguments}
	case *CallArguments:
		var kids []Node
		for _, p := range n.Positional {
			kids = append(kids, p)
		}
		for _, a := range n.Named {
			kids = append(kids, a)
		}
		return kids
	case *NamedArgument:
		return []Node{n.Value}
	case *SelectExpression:
		kids := []Node{n.Selector}
		for _, v := range n.Variants {
			kids = append(kids, v)
		}
		return kids
	case *Variant:
		return []Node{n.Value}
	}
	return nil
}
