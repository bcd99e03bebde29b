package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Document is a rendered markdown literal.
type Document struct {
	Source string // markdown text as written, without the literal brackets
	HTML   string // rendered GFM output
	Title  string // text of the first level-1 heading, if any
}

func (d *Document) String() string {
	if d.Title != "" {
		return d.Title
	}
	line := d.Source
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Render parses and renders a markdown source block.
func Render(source string) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	content := []byte(source)

	var buf bytes.Buffer
	if err := md.Convert(content, &buf); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	doc := md.Parser().Parse(text.NewReader(content))
	title := extractTitleFromAST(doc, content)

	return &Document{
		Source: source,
		HTML:   buf.String(),
		Title:  title,
	}, nil
}

// extractTitleFromAST finds the first level-1 heading in the document.
func extractTitleFromAST(doc ast.Node, content []byte) string {
	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok && heading.Level == 1 {
			title = string(extractTextFromNode(heading, content))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// extractTextFromNode collects the raw text content of a node's children.
func extractTextFromNode(node ast.Node, content []byte) []byte {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(content))
		} else {
			buf.Write(extractTextFromNode(child, content))
		}
	}
	return buf.Bytes()
}
