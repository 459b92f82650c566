package page

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SetContent parses fragment as HTML and replaces e's children with the
// result. Observers see the top-level elements of the fragment as a single
// insertion batch, the same way replacing innerHTML does.
func (e *Element) SetContent(fragment string) error {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	for _, c := range e.children {
		c.parent = nil
		c.setDoc(nil)
	}
	e.children = nil
	e.Text = ""

	var added []*Element
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			el := fromNode(n)
			el.parent = e
			el.setDoc(e.doc)
			e.children = append(e.children, el)
			added = append(added, el)
		case html.TextNode:
			e.Text += n.Data
		}
	}
	e.Text = strings.TrimSpace(e.Text)

	if e.doc != nil && len(added) > 0 {
		e.doc.notify(added)
	}
	return nil
}

func parseFragment(fragment string) ([]*html.Node, error) {
	ctxNode := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	return html.ParseFragment(strings.NewReader(fragment), ctxNode)
}

func fromNode(n *html.Node) *Element {
	el := NewElement(n.Data)
	for _, a := range n.Attr {
		el.attrs[a.Key] = a.Val
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child := fromNode(c)
			child.parent = el
			el.children = append(el.children, child)
		case html.TextNode:
			text.WriteString(c.Data)
		}
	}
	el.Text = strings.TrimSpace(text.String())
	return el
}
