package junos

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// FirstElement returns the first element child of n.
func FirstElement(n *xmlquery.Node) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// Elements returns the element children of n in document order.
func Elements(n *xmlquery.Node) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Children returns the element children of n with the given local name.
func Children(n *xmlquery.Node, name string) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first element child of n with the given local name.
func Child(n *xmlquery.Node, name string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

// Text returns the trimmed text content of n.
func Text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}

// IsLeaf reports whether n has no element children.
func IsLeaf(n *xmlquery.Node) bool {
	return FirstElement(n) == nil
}

// Name returns the declared name of n: the text of its <name> child, or its
// name attribute when the child is absent.
func Name(n *xmlquery.Node) string {
	if c := Child(n, "name"); c != nil {
		return Text(c)
	}
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Name.Local == "name" {
			return strings.TrimSpace(attr.Value)
		}
	}
	return ""
}

// ParentName returns the local name of n's parent element.
func ParentName(n *xmlquery.Node) string {
	if n == nil || n.Parent == nil || n.Parent.Type != xmlquery.ElementNode {
		return ""
	}
	return n.Parent.Data
}

// HasAncestor reports whether any element above n has the given local name.
func HasAncestor(n *xmlquery.Node, name string) bool {
	if n == nil {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == xmlquery.ElementNode && p.Data == name {
			return true
		}
	}
	return false
}

// Walk visits every element below n depth-first. Returning false from fn
// skips the element's subtree.
func Walk(n *xmlquery.Node, fn func(el *xmlquery.Node) bool) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if fn(c) {
			Walk(c, fn)
		}
	}
}

// Path returns the element path of n from the configuration element, with
// named elements rendered as local-name[name], e.g.
// configuration/policy-options/policy-statement[EXPORT].
func Path(n *xmlquery.Node) string {
	var parts []string
	for p := n; p != nil && p.Type == xmlquery.ElementNode; p = p.Parent {
		seg := p.Data
		if name := Text(Child(p, "name")); name != "" {
			seg += "[" + name + "]"
		}
		parts = append(parts, seg)
		if p.Data == "configuration" {
			break
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
