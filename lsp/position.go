// Copyright © 2025 The MON authors

package lsp

import (
	"strings"

	"github.com/mon-lang/mon/analysis"
	"github.com/mon-lang/mon/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Positions in this repository already use zero-based lines and UTF-16
// characters, so conversion to protocol values is a field copy.

func toProtocolPosition(p position.Position) protocol.Position {
	return protocol.Position{Line: p.Line, Character: p.Character}
}

func toProtocolRange(r position.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

func fromProtocolPosition(p protocol.Position) position.Position {
	return position.Position{Line: p.Line, Character: p.Character}
}

// symbolAtPosition finds the symbol under pos.  References are checked
// first; when the cursor is on a reference, the reference is returned along
// with its definition, which is nil if the referenced name is not defined
// in the document.
func symbolAtPosition(res *analysis.Result, pos position.Position) (*analysis.Symbol, *analysis.SymbolReference) {
	if res == nil || res.Symbols == nil {
		return nil, nil
	}
	if ref, ok := res.Symbols.ReferenceAt(pos); ok {
		sym, _ := res.Symbols.FindSymbol(ref.Name, ref.Kind)
		return sym, &ref
	}
	if sym, ok := res.Symbols.SymbolAt(pos); ok {
		return sym, nil
	}
	return nil, nil
}

// nameRange narrows the range of a reference such as "*name" or
// "...*name" to the trailing name.
func nameRange(res *analysis.Result, r position.Range, name string) position.Range {
	end := res.Index.Offset(r.End)
	start := end - len(name)
	if start < res.Index.Offset(r.Start) {
		return r
	}
	return res.Index.Range(start, end)
}

// wordBefore returns the identifier characters (including '.') immediately
// before the 0-based position, and the text of the line before them.
func wordBefore(content string, pos protocol.Position) (word, before string) {
	lines := strings.Split(content, "\n")
	if int(pos.Line) >= len(lines) {
		return "", ""
	}
	ln := lines[pos.Line]
	col := utf16ToByte(ln, int(pos.Character))
	start := col
	for start > 0 && isNameChar(ln[start-1]) {
		start--
	}
	return ln[start:col], ln[:start]
}

// utf16ToByte converts a UTF-16 column into a byte offset within line.
func utf16ToByte(line string, col int) int {
	n := 0
	for i, r := range line {
		if n >= col {
			return i
		}
		n++
		if r >= 0x10000 {
			n++
		}
	}
	return len(line)
}

func isNameChar(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// isIdentifier reports whether name can be written as a bare anchor or
// type name.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' || !isNameChar(c) || (i == 0 && (c == '-' || (c >= '0' && c <= '9'))) {
			return false
		}
	}
	return true
}

// mapSymbolKind converts an analysis.SymbolKind to an LSP SymbolKind.
func mapSymbolKind(kind analysis.SymbolKind) protocol.SymbolKind {
	switch kind {
	case analysis.SymAnchor:
		return protocol.SymbolKindVariable
	case analysis.SymType:
		return protocol.SymbolKindStruct
	case analysis.SymImport:
		return protocol.SymbolKindModule
	case analysis.SymField:
		return protocol.SymbolKindField
	case analysis.SymEnumVariant:
		return protocol.SymbolKindEnumMember
	default:
		return protocol.SymbolKindVariable
	}
}

// mapCompletionItemKind converts an analysis.SymbolKind to an LSP
// CompletionItemKind.
func mapCompletionItemKind(kind analysis.SymbolKind) protocol.CompletionItemKind {
	switch kind {
	case analysis.SymAnchor:
		return protocol.CompletionItemKindReference
	case analysis.SymType:
		return protocol.CompletionItemKindStruct
	case analysis.SymImport:
		return protocol.CompletionItemKindModule
	case analysis.SymField:
		return protocol.CompletionItemKindField
	case analysis.SymEnumVariant:
		return protocol.CompletionItemKindEnumMember
	default:
		return protocol.CompletionItemKindText
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
