// Copyright © 2025 The MON authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func foldingRanges(t *testing.T, s *Server, uri string) []protocol.FoldingRange {
	t.Helper()
	result, err := s.textDocumentFoldingRange(mockContext(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	return result
}

// filterFoldKind returns only folding ranges of the given kind.
func filterFoldKind(ranges []protocol.FoldingRange, kind protocol.FoldingRangeKind) [][2]uint32 {
	var out [][2]uint32
	for _, r := range ranges {
		if r.Kind != nil && *r.Kind == string(kind) {
			out = append(out, [2]uint32{r.StartLine, r.EndLine})
		}
	}
	return out
}

func TestFoldingRange(t *testing.T) {
	s := New()

	t.Run("document", func(t *testing.T) {
		src := `// header one
// header two
import { &a } from "./a.mon"
import * as b from "./b.mon"
{
    User: #struct {
        name(String),
    },
    list: [
        1,
        2,
    ],
    inline: { x: *a, y: *b.z },
}`
		openDoc(s, "file:///test/doc.mon", src)
		ranges := foldingRanges(t, s, "file:///test/doc.mon")

		assert.Equal(t, [][2]uint32{{2, 3}}, filterFoldKind(ranges, protocol.FoldingRangeKindImports))
		assert.Equal(t, [][2]uint32{{4, 13}, {5, 7}, {8, 11}}, filterFoldKind(ranges, protocol.FoldingRangeKindRegion))
		assert.Equal(t, [][2]uint32{{0, 1}}, filterFoldKind(ranges, protocol.FoldingRangeKindComment))
	})

	t.Run("single-line values are not folded", func(t *testing.T) {
		openDoc(s, "file:///test/single.mon", `{ a: [1, 2], b: { c: 1 } }`)
		assert.Empty(t, foldingRanges(t, s, "file:///test/single.mon"))
	})

	t.Run("trailing comments are not folded", func(t *testing.T) {
		openDoc(s, "file:///test/trailing.mon", "{\n  a: 1, // one\n  b: 2, // two\n}")
		ranges := foldingRanges(t, s, "file:///test/trailing.mon")
		assert.Empty(t, filterFoldKind(ranges, protocol.FoldingRangeKindComment))
		assert.Equal(t, [][2]uint32{{0, 3}}, filterFoldKind(ranges, protocol.FoldingRangeKindRegion))
	})

	t.Run("separate comment blocks", func(t *testing.T) {
		src := "// a\n// b\n{\n  // c\n  x: 1,\n  // d\n  // e\n}"
		openDoc(s, "file:///test/blocks.mon", src)
		ranges := foldingRanges(t, s, "file:///test/blocks.mon")
		assert.Equal(t, [][2]uint32{{0, 1}, {5, 6}}, filterFoldKind(ranges, protocol.FoldingRangeKindComment))
	})

	t.Run("unparseable document folds comments only", func(t *testing.T) {
		openDoc(s, "file:///test/broken.mon", "// a\n// b\n{\n  a: [\n")
		ranges := foldingRanges(t, s, "file:///test/broken.mon")
		assert.Empty(t, filterFoldKind(ranges, protocol.FoldingRangeKindRegion))
		assert.Equal(t, [][2]uint32{{0, 1}}, filterFoldKind(ranges, protocol.FoldingRangeKindComment))
	})

	t.Run("unknown document", func(t *testing.T) {
		assert.Empty(t, foldingRanges(t, s, "file:///test/none.mon"))
	})
}
