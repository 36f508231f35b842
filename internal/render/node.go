package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is one element of a rendered step. A node with an empty Tag is text.
type Node struct {
	Tag      string            `json:"tag,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// El creates an element with an optional class. Nil children are dropped.
func El(tag, class string, children ...*Node) *Node {
	n := &Node{Tag: tag}
	if class != "" {
		n.Set("class", class)
	}
	return n.Append(children...)
}

// Txt creates a text node
func Txt(s string) *Node {
	return &Node{Text: s}
}

// Set assigns an attribute and returns n for chaining
func (n *Node) Set(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Attr returns an attribute value
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// Append adds children, skipping nil ones
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// HasClass reports whether class is in the node's class list
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

// FindAll returns every node in the subtree matching match, in document order
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(c *Node) {
		if c == nil {
			return
		}
		if match(c) {
			out = append(out, c)
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(n)
	return out
}

// ByClass returns every element carrying class
func (n *Node) ByClass(class string) []*Node {
	return n.FindAll(func(c *Node) bool { return c.HasClass(class) })
}

// ByID returns the element whose id attribute is id, or nil
func (n *Node) ByID(id string) *Node {
	found := n.FindAll(func(c *Node) bool { return c.Attrs["id"] == id })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// TextContent concatenates all text in the subtree
func (n *Node) TextContent() string {
	var b strings.Builder
	for _, t := range n.FindAll(func(c *Node) bool { return c.Text != "" }) {
		b.WriteString(t.Text)
	}
	return b.String()
}

// htmlNode converts the tree into an x/net/html tree
func (n *Node) htmlNode() *html.Node {
	if n.Tag == "" {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		hn.Attr = append(hn.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
	}

	if n.Text != "" {
		hn.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		hn.AppendChild(c.htmlNode())
	}
	return hn
}

// WriteHTML serialises the tree
func (n *Node) WriteHTML(w io.Writer) error {
	if err := html.Render(w, n.htmlNode()); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

// HTML serialises the tree to a string
func (n *Node) HTML() (string, error) {
	var buf bytes.Buffer
	if err := n.WriteHTML(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
