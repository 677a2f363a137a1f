package pipeline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attachmentScheme prefixes references to cell attachments.
const attachmentScheme = "attachment:"

// mdParser is safe for concurrent use; each Parse call gets its own context.
var mdParser parser.Parser = goldmark.New().Parser()

// attachmentRefs returns the distinct attachment: references of a markdown
// source, in document order. Markdown images and <img> tags inside inline or
// block HTML are both recognized.
func attachmentRefs(src string) []string {
	if !strings.Contains(src, attachmentScheme) {
		return nil
	}

	source := []byte(src)
	doc := mdParser.Parse(text.NewReader(source))

	var refs []string
	seen := make(map[string]bool)
	add := func(dest string) {
		if strings.HasPrefix(dest, attachmentScheme) && !seen[dest] {
			seen[dest] = true
			refs = append(refs, dest)
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			add(string(node.Destination))
		case *ast.HTMLBlock:
			for _, s := range imageSources(htmlBlockText(node, source)) {
				add(s)
			}
		case *ast.RawHTML:
			var b strings.Builder
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(source))
			}
			for _, s := range imageSources(b.String()) {
				add(s)
			}
		}
		return ast.WalkContinue, nil
	})
	return refs
}

func htmlBlockText(n *ast.HTMLBlock, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(source))
	}
	return b.String()
}

// imageSources returns the src attribute of every <img> in an HTML fragment.
// Unparseable fragments yield nothing.
func imageSources(fragment string) []string {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil
	}

	var srcs []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			for _, attr := range n.Attr {
				if attr.Key == "src" {
					srcs = append(srcs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for _, n := range nodes {
		visit(n)
	}
	return srcs
}
