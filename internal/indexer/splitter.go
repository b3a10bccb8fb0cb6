package indexer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"chunkgate/internal/dedup"
)

const (
	// DefaultMaxChunkRunes bounds chunk size in runes (~450 tokens for a 512-token embedding model).
	DefaultMaxChunkRunes = 700
	minChunkRunes        = 50
)

// Splitter cuts markdown into heading-scoped chunks using the goldmark AST.
// Chunk text is taken from the raw source so identical passages in two
// versions of a document produce identical chunks.
type Splitter struct {
	md       goldmark.Markdown
	maxRunes int
}

// NewSplitter creates a splitter. maxRunes <= 0 selects DefaultMaxChunkRunes.
func NewSplitter(maxRunes int) *Splitter {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxChunkRunes
	}
	return &Splitter{
		md:       goldmark.New(),
		maxRunes: maxRunes,
	}
}

// Split returns the ordered chunks of content, tagged with source.
// Whitespace-only content yields no chunks.
func (s *Splitter) Split(source string, content []byte) []dedup.Chunk {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}

	doc := s.md.Parser().Parse(text.NewReader(content))

	var pieces []string
	for _, section := range sections(doc, content) {
		pieces = append(pieces, s.pack(section)...)
	}
	pieces = s.mergeSmall(pieces)

	chunks := make([]dedup.Chunk, 0, len(pieces))
	for _, p := range pieces {
		chunks = append(chunks, dedup.Chunk{
			Source: source,
			Text:   p,
			Index:  len(chunks),
		})
	}
	return chunks
}

// sections groups the top-level blocks of doc, starting a new group at every heading.
func sections(doc ast.Node, content []byte) [][]string {
	var (
		out     [][]string
		current []string
	)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		block := blockText(n, content)
		if block == "" {
			continue
		}
		if _, ok := n.(*ast.Heading); ok && len(current) > 0 {
			out = append(out, current)
			current = nil
		}
		current = append(current, block)
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

// blockText renders one top-level block back to markdown.
func blockText(n ast.Node, content []byte) string {
	switch node := n.(type) {
	case *ast.Heading:
		return strings.Repeat("#", node.Level) + " " + strings.TrimSpace(string(linesOf(node, content)))
	case *ast.FencedCodeBlock:
		var b strings.Builder
		b.WriteString("```")
		if node.Info != nil {
			b.Write(node.Info.Segment.Value(content))
		}
		b.WriteString("\n")
		b.Write(linesOf(node, content))
		b.WriteString("```")
		return b.String()
	}

	start, stop, ok := span(n)
	if !ok {
		return ""
	}
	// Widen to whole lines so list markers and quote prefixes are kept.
	start = bytes.LastIndexByte(content[:start], '\n') + 1
	if i := bytes.IndexByte(content[stop-1:], '\n'); i >= 0 {
		stop += i - 1
	} else {
		stop = len(content)
	}
	return strings.TrimSpace(string(content[start:stop]))
}

func linesOf(n ast.Node, content []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(content))
	}
	return buf.Bytes()
}

// span returns the byte range covered by the line segments of n and its descendants.
func span(n ast.Node) (start, stop int, ok bool) {
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || child.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := child.Lines()
		if lines == nil || lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		first, last := lines.At(0), lines.At(lines.Len()-1)
		if last.Stop <= first.Start {
			return ast.WalkContinue, nil
		}
		if !ok || first.Start < start {
			start = first.Start
		}
		if !ok || last.Stop > stop {
			stop = last.Stop
		}
		ok = true
		return ast.WalkContinue, nil
	})
	return start, stop, ok
}

// pack joins the blocks of one section into pieces no longer than maxRunes.
func (s *Splitter) pack(blocks []string) []string {
	var (
		out     []string
		current string
	)
	flush := func() {
		if current != "" {
			out = append(out, current)
			current = ""
		}
	}

	for _, block := range blocks {
		if utf8.RuneCountInString(block) > s.maxRunes {
			flush()
			out = append(out, s.hardSplit(block)...)
			continue
		}
		if current == "" {
			current = block
			continue
		}
		joined := current + "\n\n" + block
		if utf8.RuneCountInString(joined) > s.maxRunes {
			flush()
			current = block
			continue
		}
		current = joined
	}
	flush()
	return out
}

// hardSplit cuts an oversized block, preferring line then sentence then word boundaries.
func (s *Splitter) hardSplit(block string) []string {
	var out []string
	runes := []rune(block)
	for len(runes) > s.maxRunes {
		window := string(runes[:s.maxRunes])
		cut := s.maxRunes
		for _, sep := range []string{"\n", ". ", " "} {
			if i := strings.LastIndex(window, sep); i > 0 {
				cut = utf8.RuneCountInString(window[:i+len(sep)])
				break
			}
		}
		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			out = append(out, piece)
		}
		runes = runes[cut:]
	}
	if piece := strings.TrimSpace(string(runes)); piece != "" {
		out = append(out, piece)
	}
	return out
}

// mergeSmall folds pieces shorter than minChunkRunes into their successor when the result fits.
func (s *Splitter) mergeSmall(pieces []string) []string {
	out := make([]string, 0, len(pieces))
	for i := 0; i < len(pieces); i++ {
		current := pieces[i]
		for utf8.RuneCountInString(current) < minChunkRunes && i+1 < len(pieces) {
			merged := current + "\n\n" + pieces[i+1]
			if utf8.RuneCountInString(merged) > s.maxRunes {
				break
			}
			current = merged
			i++
		}
		out = append(out, current)
	}
	return out
}
