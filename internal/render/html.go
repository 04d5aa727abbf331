package render

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML serialises views as sibling HTML fragments. An empty list writes
// the empty state.
func WriteHTML(w io.Writer, views []View) error {
	if len(views) == 0 {
		return writeNode(w, EmptyState())
	}
	container := el("div", "components-list")
	for _, v := range views {
		root := v.Root.with("data-kind", string(v.Kind))
		container.Children = append(container.Children, root)
	}
	return writeNode(w, container)
}

func writeNode(w io.Writer, n Node) error {
	if err := html.Render(w, toHTML(n)); err != nil {
		return fmt.Errorf("render %s: %w", n.Tag, err)
	}
	return nil
}

func toHTML(n Node) *html.Node {
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	if n.Class != "" {
		out.Attr = append(out.Attr, html.Attribute{Key: "class", Val: n.Class})
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Attr = append(out.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
	}
	if n.Text != "" {
		out.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		out.AppendChild(toHTML(c))
	}
	return out
}
