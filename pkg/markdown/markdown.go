// Package markdown extracts headings, plain text and YAML frontmatter from
// Markdown documents.
package markdown

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is one ATX or setext heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Document is the parsed form of a Markdown file.
type Document struct {
	Path        string         `json:"path,omitempty"`
	FullContent string         `json:"full_content"`
	PlainText   string         `json:"plain_text"`
	Headings    []Heading      `json:"headings"`
	Title       string         `json:"title"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
}

// ParseFile reads and parses the Markdown file at path.
func ParseFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", path)
	}
	doc := Parse(content, filepath.Base(path))
	doc.Path = path
	return doc, nil
}

// Parse parses source. name is used for the title when the document has
// neither a frontmatter title nor a heading.
func Parse(source []byte, name string) *Document {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	doc := &Document{
		FullContent: string(source),
		Headings:    []Heading{},
	}
	if fm, err := meta.TryGet(pctx); err == nil && len(fm) > 0 {
		doc.Frontmatter = fm
	}

	var parts []string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			t := inlineText(node, source)
			doc.Headings = append(doc.Headings, Heading{Level: node.Level, Text: t})
			parts = append(parts, t)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			if t := inlineText(node, source); t != "" {
				parts = append(parts, t)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			parts = append(parts, "\n```\n"+blockLines(node, source)+"\n```\n")
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	doc.PlainText = strings.TrimSpace(strings.Join(parts, " "))
	doc.Title = title(doc, name)
	return doc
}

func title(doc *Document, name string) string {
	if t, ok := doc.Frontmatter["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if len(doc.Headings) > 0 {
		return doc.Headings[0].Text
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// inlineText concatenates the text content of n's inline descendants.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				b.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(node.Value)
			case *ast.AutoLink:
				b.Write(node.Label(source))
			case *ast.RawHTML:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func blockLines(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}
