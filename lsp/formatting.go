// Copyright © 2025 The MON authors

package lsp

import (
	"github.com/mon-lang/mon/formatter"
	"github.com/mon-lang/mon/position"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFormatting handles textDocument/formatting requests.
// It formats the document content using the MON formatter and returns
// a single whole-document text edit, or nil if no changes are needed.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, _, _ := doc.snapshot()
	if content == "" {
		return nil, nil
	}

	cfg := s.formattingConfig(params.Options)
	formatted, err := formatter.FormatFile([]byte(content), uriToPath(doc.URI), cfg)
	if err != nil {
		// Incomplete code is left alone rather than reported as a failure.
		log.Debugf("format %s: %v", doc.URI, err)
		return nil, nil
	}
	if string(formatted) == content {
		return nil, nil
	}

	end := position.NewIndex(content).At(len(content))
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   toProtocolPosition(end),
		},
		NewText: string(formatted),
	}}, nil
}

// formattingConfig copies the server's formatter configuration and applies
// the editor's indentation options.
func (s *Server) formattingConfig(opts protocol.FormattingOptions) *formatter.Config {
	cfg := *s.formatCfg
	if v, ok := opts[protocol.FormattingOptionTabSize]; ok {
		switch n := v.(type) {
		case float64:
			if n > 0 {
				cfg.IndentSize = int(n)
			}
		case int:
			if n > 0 {
				cfg.IndentSize = n
			}
		}
	}
	if v, ok := opts[protocol.FormattingOptionInsertSpaces].(bool); ok {
		if v {
			cfg.IndentStyle = formatter.IndentSpaces
		} else {
			cfg.IndentStyle = formatter.IndentTabs
		}
	}
	return &cfg
}
