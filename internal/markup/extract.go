package markup

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	umlStart = "@startuml"
	umlEnd   = "@enduml"
)

// Extract returns the diagram body from cleaned model output. A fenced code
// block wins over an @startuml span; text with neither is returned trimmed.
func Extract(s string) string {
	if block, ok := fencedBlock(s); ok {
		return block
	}
	if span, ok := umlSpan(s); ok {
		return span
	}
	return strings.TrimSpace(s)
}

// fencedBlock returns the first non-empty fenced code block in s.
func fencedBlock(s string) (string, bool) {
	if !strings.Contains(s, "```") && !strings.Contains(s, "~~~") {
		return "", false
	}
	source := []byte(s)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var out string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(source))
		}
		if body := strings.TrimSpace(b.String()); body != "" {
			out = body
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return out, out != ""
}

// umlSpan returns the text from the first @startuml through the last @enduml.
func umlSpan(s string) (string, bool) {
	start := strings.Index(s, umlStart)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(s, umlEnd)
	if end < start {
		return "", false
	}
	return s[start : end+len(umlEnd)], true
}
