package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Page is one parsed document.
type Page struct {
	root *html.Node
}

// Element is one node in a parsed document.
type Element struct {
	node *html.Node
}

// ParsePage parses an HTML document. Exposed separately from Session so
// tests can build pages from fixture strings.
func ParsePage(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Page{root: root}, nil
}

// Title returns the document title, trimmed.
func (p *Page) Title() string {
	var title string
	walk(p.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return false
		}
		return true
	})
	return title
}

// FindClass returns the first element carrying the given class token.
func (p *Page) FindClass(class string) (*Element, Lookup) {
	var found *html.Node
	walk(p.root, func(n *html.Node) bool {
		if hasClass(n, class) {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, LookupNotFound
	}
	return &Element{node: found}, LookupFound
}

// FindClassAll returns every element carrying the given class token, in
// document order.
func (p *Page) FindClassAll(class string) []*Element {
	var out []*Element
	walk(p.root, func(n *html.Node) bool {
		if hasClass(n, class) {
			out = append(out, &Element{node: n})
		}
		return true
	})
	return out
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// Text returns the element's rendered text: text nodes joined with
// spaces within a line, block elements and <br> starting new lines. This
// mirrors how a browser reads an element's text, which is the shape the
// comment parser expects.
func (e *Element) Text() string {
	var w textWriter
	w.walk(e.node)
	return strings.TrimSpace(w.b.String())
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

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(a.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

var blockTags = map[string]bool{
	"div": true, "p": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "section": true, "article": true,
	"header": true, "footer": true, "blockquote": true, "pre": true,
}

type textWriter struct {
	b      strings.Builder
	lastNL bool
}

func (w *textWriter) newline() {
	if w.b.Len() > 0 && !w.lastNL {
		w.b.WriteByte('\n')
		w.lastNL = true
	}
}

func (w *textWriter) text(s string) {
	t := strings.Join(strings.Fields(s), " ")
	if t == "" {
		return
	}
	if w.b.Len() > 0 && !w.lastNL {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(t)
	w.lastNL = false
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
	case html.ElementNode:
		if n.Data == "br" {
			w.b.WriteByte('\n')
			w.lastNL = true
			return
		}
		if n.Data == "script" || n.Data == "style" {
			return
		}
		block := blockTags[n.Data]
		if block {
			w.newline()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
		if block {
			w.newline()
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
	}
}
