// Copyright © 2025 The MON authors

package lint

import (
	"strings"

	"github.com/mon-lang/mon/ast"
)

// AnalyzerImports reports heavy use of namespaced references and imports
// which are never used.
var AnalyzerImports = &Analyzer{
	Name: "imports",
	Doc: "Report deep import chains and unused imports.\n\n" +
		"Import chain depth is approximated by the number of dotted references: " +
		"more than three times max_import_chain_depth is reported once for the " +
		"document. Unused imports are reported when warn_unused_imports is set.",
	Codes: []Code{DeepImportChain, UnusedImport},
	Run:   runImports,
}

func runImports(pass *Pass) error {
	refs := ast.References(pass.Document.Root)
	namespaced := 0
	for _, ref := range refs {
		if strings.Contains(ref.Name, ".") {
			namespaced++
		}
	}
	if namespaced > pass.Config.MaxImportChainDepth*3 {
		pass.Reportf(DeepImportChain, nil,
			"File has %d namespaced references, consider simplifying imports", namespaced)
	}
	if pass.Config.WarnUnusedImports {
		checkUnusedImports(pass, refs)
	}
	return nil
}

func checkUnusedImports(pass *Pass, refs []ast.Reference) {
	if len(pass.Document.Imports) == 0 {
		return
	}
	used := make(map[string]bool)
	for _, ref := range refs {
		used[ref.Name] = true
	}
	for _, use := range ast.TypeUses(pass.Document.Root) {
		used[use.Name] = true
	}
	for _, imp := range pass.Document.Imports {
		if imp.IsNamespace() {
			prefix := imp.Namespace + "."
			found := false
			for name := range used {
				if strings.HasPrefix(name, prefix) {
					found = true
					break
				}
			}
			if !found {
				pass.Report(Diagnostic{
					Code:    UnusedImport,
					Message: "Namespace '" + imp.Namespace + "' imported from \"" + imp.Path + "\" is never used",
					Range:   pass.Range(imp.Span),
					Tags:    []Tag{TagUnnecessary},
				})
			}
			continue
		}
		for _, name := range imp.Names {
			if used[name.Name] {
				continue
			}
			pass.Report(Diagnostic{
				Code:    UnusedImport,
				Message: "Imported name '" + name.Name + "' from \"" + imp.Path + "\" is never used",
				Range:   pass.Range(name.Span),
				Tags:    []Tag{TagUnnecessary},
			})
		}
	}
}

// AnalyzerTypeValidation suggests "::" annotations on top level objects
// of documents which declare struct types.
var AnalyzerTypeValidation = &Analyzer{
	Name: "type-validation",
	Doc: "Suggest type validation for top level objects.\n\n" +
		"When a document declares at least one struct, every pair of the root " +
		"object whose value is an object without a \"::\" annotation is reported. " +
		"Enabled by suggest_type_validation.",
	Codes: []Code{MissingTypeValidation},
	Run:   runTypeValidation,
}

func runTypeValidation(pass *Pass) error {
	root := pass.Document.Root
	if !pass.Config.SuggestTypeValidation || root.Kind != ast.Object {
		return nil
	}
	hasStruct := false
	for _, td := range ast.TypeDefinitions(root) {
		if td.IsStruct() {
			hasStruct = true
			break
		}
	}
	if !hasStruct {
		return nil
	}
	for _, m := range root.Members {
		if m.Kind != ast.PairMember || m.Validation != nil || m.Value.Kind != ast.Object {
			continue
		}
		pass.Reportf(MissingTypeValidation, &m.KeySpan,
			"Value '%s' has no type validation, consider adding ':: TypeName'", m.Key)
	}
	return nil
}
