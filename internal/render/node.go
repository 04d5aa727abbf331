package render

import (
	"strings"

	"github.com/zhouzirui/navigator/backend/internal/model/component"
)

// Node is a presentational element. Text is escaped on output; Attrs are
// written in sorted key order so output is stable.
type Node struct {
	Tag      string            `json:"tag"`
	Class    string            `json:"class,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

// View is the rendering of one descriptor.
type View struct {
	Kind  component.Kind `json:"kind"`
	Found bool           `json:"found"`
	Root  Node           `json:"root"`
}

func el(tag, class string, children ...Node) Node {
	return Node{Tag: tag, Class: class, Children: children}
}

func text(tag, class, s string) Node {
	return Node{Tag: tag, Class: class, Text: s}
}

func (n Node) with(key, value string) Node {
	attrs := make(map[string]string, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	attrs[key] = value
	n.Attrs = attrs
	return n
}

// Attr returns the attribute value or "".
func (n Node) Attr(key string) string {
	return n.Attrs[key]
}

// Find returns every descendant (including n) with the given tag, depth first.
func (n Node) Find(tag string) []Node {
	var out []Node
	n.walk(func(c Node) {
		if c.Tag == tag {
			out = append(out, c)
		}
	})
	return out
}

// FindClass returns every descendant (including n) carrying class.
func (n Node) FindClass(class string) []Node {
	var out []Node
	n.walk(func(c Node) {
		if c.Class == class {
			out = append(out, c)
		}
	})
	return out
}

// TextContent concatenates the text of n and its descendants, space separated.
func (n Node) TextContent() string {
	var parts []string
	n.walk(func(c Node) {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	})
	return strings.Join(parts, " ")
}

func (n Node) walk(fn func(Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}
