// Copyright © 2025 The MON authors

package lint

import "github.com/mon-lang/mon/ast"

// AnalyzerComplexity reports deeply nested documents and oversized objects
// and arrays.
var AnalyzerComplexity = &Analyzer{
	Name: "complexity",
	Doc: "Report excessive nesting and oversized containers.\n\n" +
		"The nesting depth of the root value is 0 and every pair value or array " +
		"item is one level deeper than its container. The maximum depth is " +
		"reported once per document. Objects are measured by their data members; " +
		"type definitions do not count.",
	Codes: []Code{MaxNestingDepth, MaxObjectMembers, MaxArrayItems},
	Run:   runComplexity,
}

func runComplexity(pass *Pass) error {
	root := pass.Document.Root
	limit := pass.Config.MaxNestingDepth

	maxDepth := -1
	var deepest *ast.Value
	ast.Walk(root, func(node *ast.Value, _ *ast.Value, depth int) {
		if depth > maxDepth {
			maxDepth, deepest = depth, node
		}
	})
	if deepest != nil && maxDepth > limit {
		if maxDepth > limit+2 {
			pass.Reportf(MaxNestingDepth, &deepest.Span,
				"Maximum nesting depth of %d exceeds limit of %d by more than 2 levels", maxDepth, limit)
		} else {
			pass.Reportf(MaxNestingDepth, &deepest.Span,
				"Maximum nesting depth of %d exceeds recommended limit of %d", maxDepth, limit)
		}
	}

	ast.Walk(root, func(node *ast.Value, _ *ast.Value, depth int) {
		switch node.Kind {
		case ast.Object:
			if n := node.DataMembers(); n > pass.Config.MaxObjectMembers {
				pass.Reportf(MaxObjectMembers, &node.Span,
					"Object at depth %d has %d members, exceeds recommended limit of %d",
					depth, n, pass.Config.MaxObjectMembers)
			}
		case ast.Array:
			if n := len(node.Items); n > pass.Config.MaxArrayItems {
				pass.Reportf(MaxArrayItems, &node.Span,
					"Array at depth %d has %d items, exceeds recommended limit of %d",
					depth, n, pass.Config.MaxArrayItems)
			}
		}
	})
	return nil
}
