// Copyright © 2025 The MON authors

package lsp

import (
	"github.com/mon-lang/mon/analysis"
	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line objects, arrays and type
// definitions, the import block, and runs of whole-line comments.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	content, _, _ := doc.snapshot()

	var ranges []protocol.FoldingRange
	if res := doc.lastGoodResult(); res != nil && res.Source == content {
		ranges = append(ranges, importFoldingRange(res)...)
		ranges = append(ranges, valueFoldingRanges(res)...)
	}
	ranges = append(ranges, commentFoldingRanges(content)...)
	return ranges, nil
}

func foldingRange(start, end uint32, kind protocol.FoldingRangeKind) protocol.FoldingRange {
	k := string(kind)
	return protocol.FoldingRange{StartLine: start, EndLine: end, Kind: &k}
}

// importFoldingRange folds the imports when they span several lines.
func importFoldingRange(res *analysis.Result) []protocol.FoldingRange {
	imps := res.Document.Imports
	if len(imps) == 0 {
		return nil
	}
	start := res.Index.At(imps[0].Span.Start).Line
	end := res.Index.At(imps[len(imps)-1].Span.End).Line
	if end <= start {
		return nil
	}
	return []protocol.FoldingRange{foldingRange(start, end, protocol.FoldingRangeKindImports)}
}

// valueFoldingRanges emits a region for each object, array and type
// definition that spans more than one line.
func valueFoldingRanges(res *analysis.Result) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	add := func(span ast.Span) {
		r := res.Index.Range(span.Start, span.End)
		if r.End.Line > r.Start.Line {
			ranges = append(ranges, foldingRange(r.Start.Line, r.End.Line, protocol.FoldingRangeKindRegion))
		}
	}
	ast.Walk(res.Document.Root, func(node *ast.Value, _ *ast.Value, _ int) {
		if !node.IsContainer() {
			return
		}
		add(node.Span)
		if node.Kind != ast.Object {
			return
		}
		for _, m := range node.Members {
			if m.Kind == ast.TypeDefMember {
				add(m.TypeDef.Span)
			}
		}
	})
	return ranges
}

// commentFoldingRanges produces a folding range for each block of two or
// more consecutive lines holding only a comment.
func commentFoldingRanges(content string) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	blockStart, prev := -1, -1
	flush := func() {
		if blockStart >= 0 && prev > blockStart {
			ranges = append(ranges, foldingRange(uint32(blockStart), uint32(prev), protocol.FoldingRangeKindComment))
		}
	}
	for _, c := range parser.ExtractComments(content) {
		if c.Trailing {
			continue
		}
		if c.Line != prev+1 || blockStart < 0 {
			flush()
			blockStart = c.Line
		}
		prev = c.Line
	}
	flush()
	return ranges
}
