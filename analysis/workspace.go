// Copyright © 2025 The MON authors

package analysis

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/mon-lang/mon/parser"
	"github.com/mon-lang/mon/position"
)

// ExternalSymbol is an anchor or type defined in a workspace file.
type ExternalSymbol struct {
	Name   string
	Kind   SymbolKind
	File   string
	Range  position.Range
	Detail string
}

// ScanWorkspace walks a directory tree, parsing all .mon files and
// extracting their anchors and types.  It skips hidden directories (names
// starting with '.') and node_modules.  Symbols are ordered by file, then
// by definition order within the file.
//
// Files that fail to parse are silently skipped (fault tolerant).
func ScanWorkspace(root string) ([]ExternalSymbol, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && shouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".mon" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var syms []ExternalSymbol
	for _, path := range files {
		src, readErr := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if readErr != nil {
			continue
		}
		syms = append(syms, ScanFile(string(src), path)...)
	}
	return syms, nil
}

// ScanFile returns the anchors and types defined in source.  It returns
// nil if the source fails to parse and an empty slice if it defines
// nothing.
func ScanFile(source, filename string) []ExternalSymbol {
	doc, err := parser.Parse(source, filename)
	if err != nil {
		return nil
	}
	table := BuildSymbolTable(doc, position.NewIndex(source))
	syms := []ExternalSymbol{}
	for _, sym := range table.Symbols() {
		if sym.Kind != SymAnchor && sym.Kind != SymType {
			continue
		}
		syms = append(syms, ExternalSymbol{
			Name:   sym.Name,
			Kind:   sym.Kind,
			File:   filename,
			Range:  sym.Range,
			Detail: sym.Detail,
		})
	}
	return syms
}

// shouldSkipDir returns true for directories that should not be walked.
// It skips hidden directories (e.g. .git, .vscode) and node_modules,
// but not "." or ".." which represent the current/parent directory.
func shouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	return name == "node_modules"
}
