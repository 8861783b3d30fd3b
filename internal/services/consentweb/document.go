package consentweb

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page that consent markup can be injected into.
type Document struct {
	root *html.Node
}

// ParseDocument parses a full HTML page. The parser repairs missing html,
// head and body elements.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// DeclaredLanguage returns the lang attribute of the html element.
func (d *Document) DeclaredLanguage() string {
	node := d.find(atom.Html)
	if node == nil {
		return ""
	}
	return strings.TrimSpace(attrValue(node, "lang"))
}

// HasMarker reports whether consent markup of kind was already injected.
// An empty kind matches any consent element.
func (d *Document) HasMarker(kind string) bool {
	found := false
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		for _, a := range n.Attr {
			if a.Key == MarkerAttr && (kind == "" || a.Val == kind) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// AppendToHead parses markup in head context and appends it to head.
func (d *Document) AppendToHead(markup string) error {
	return d.appendTo(atom.Head, markup)
}

// AppendToBody parses markup in body context and appends it to body.
func (d *Document) AppendToBody(markup string) error {
	return d.appendTo(atom.Body, markup)
}

// Render writes the document back out.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Bytes renders the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) appendTo(a atom.Atom, markup string) error {
	parent := d.find(a)
	if parent == nil {
		return fmt.Errorf("document has no %s element", a)
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return fmt.Errorf("parse %s fragment: %w", a, err)
	}
	for _, node := range nodes {
		parent.AppendChild(node)
	}
	return nil
}

func (d *Document) find(a atom.Atom) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits nodes depth-first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
