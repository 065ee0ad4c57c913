package pipeline

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MermaidLanguage is the fence info string that marks a diagram block.
const MermaidLanguage = "mermaid"

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Diagram is a Mermaid fenced code block found in a Markdown document.
type Diagram struct {
	Index  int // 1-based position among the document's diagrams
	Line   int // 1-based line of the first diagram line
	Source string
}

// DiagramExtractor abstracts diagram discovery in Markdown.
type DiagramExtractor interface {
	ExtractDiagrams(ctx context.Context, markdown []byte) ([]Diagram, error)
}

// GoldmarkExtractor finds Mermaid fences by walking a goldmark AST, so fences
// nested in lists or blockquotes are found and indented code is ignored.
type GoldmarkExtractor struct {
	md goldmark.Markdown
}

// NewGoldmarkExtractor creates a GoldmarkExtractor with GFM parsing rules.
func NewGoldmarkExtractor() *GoldmarkExtractor {
	return &GoldmarkExtractor{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// ExtractDiagrams returns every non-empty ```mermaid block in document order.
// The language match is case-insensitive; extra info string words are ignored.
func (e *GoldmarkExtractor) ExtractDiagrams(ctx context.Context, markdown []byte) ([]Diagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markdown = normalizeLineEndings(markdown)
	doc := e.md.Parser().Parse(text.NewReader(markdown))

	var diagrams []Diagram
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !strings.EqualFold(strings.TrimSpace(string(block.Language(markdown))), MermaidLanguage) {
			return ast.WalkSkipChildren, nil
		}

		lines := block.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		var buf bytes.Buffer
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(markdown))
		}
		if strings.TrimSpace(buf.String()) == "" {
			return ast.WalkSkipChildren, nil
		}

		first := lines.At(0)
		diagrams = append(diagrams, Diagram{
			Index:  len(diagrams) + 1,
			Line:   bytes.Count(markdown[:first.Start], []byte("\n")) + 1,
			Source: buf.String(),
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return diagrams, nil
}

// normalizeLineEndings converts \r\n and \r to \n so diagram sources and
// line numbers do not depend on the editor that saved the file.
func normalizeLineEndings(markdown []byte) []byte {
	if bytes.IndexByte(markdown, '\r') < 0 {
		return markdown
	}
	return crlfOrCR.ReplaceAll(markdown, []byte("\n"))
}
