// Copyright © 2025 The MON authors

package lint

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/mon-lang/mon/ast"
)

// AnalyzerSmells reports patterns which are legal MON but usually
// unintended or hard to maintain.
var AnalyzerSmells = &Analyzer{
	Name: "smells",
	Doc: "Report unused anchors, magic numbers, duplicate keys, excessive spreads, " +
		"empty containers and mixed key naming styles.\n\n" +
		"Unused anchors and magic numbers are controlled by warn_unused_anchors " +
		"and warn_magic_numbers. The other checks always run.",
	Codes: []Code{UnusedAnchor, MagicNumber, DuplicateKey, ExcessiveSpreads, EmptyObject, InconsistentNaming},
	Run:   runSmells,
}

func runSmells(pass *Pass) error {
	root := pass.Document.Root
	if pass.Config.WarnUnusedAnchors {
		checkUnusedAnchors(pass, root)
	}
	if pass.Config.WarnMagicNumbers {
		checkMagicNumbers(pass, root)
	}
	checkDuplicateKeys(pass, root)
	checkSpreads(pass, root)
	checkEmpty(pass, root)
	checkNaming(pass, root)
	return nil
}

func checkUnusedAnchors(pass *Pass, root *ast.Value) {
	used := make(map[string]bool)
	for _, ref := range ast.References(root) {
		used[ref.Name] = true
	}
	seen := make(map[string]bool)
	for _, v := range ast.Anchors(root) {
		if seen[v.Anchor] || used[v.Anchor] {
			continue
		}
		seen[v.Anchor] = true
		span := v.AnchorSpan
		if span.Len() == 0 {
			span = v.Span
		}
		pass.Report(Diagnostic{
			Code:    UnusedAnchor,
			Message: "Anchor '" + v.Anchor + "' is defined but never used",
			Range:   pass.Range(span),
			Tags:    []Tag{TagUnnecessary},
		})
	}
}

// IsCommonNumber reports whether n is small or a power of ten which reads
// fine as a literal.
func IsCommonNumber(n float64) bool {
	a := math.Abs(n)
	return a <= 1 || a == 10 || a == 100 || a == 1000
}

func checkMagicNumbers(pass *Pass, root *ast.Value) {
	ast.Walk(root, func(node *ast.Value, _ *ast.Value, _ int) {
		if node.Kind != ast.Number || IsCommonNumber(node.Number) {
			return
		}
		pass.Reportf(MagicNumber, &node.Span,
			"Consider extracting magic number %s into a named constant",
			strconv.FormatFloat(node.Number, 'f', -1, 64))
	})
}

// checkDuplicateKeys reports each repeated key of an object before
// descending into the value of that pair.
func checkDuplicateKeys(pass *Pass, v *ast.Value) {
	switch v.Kind {
	case ast.Object:
		first := make(map[string]*ast.Member)
		for _, m := range v.Members {
			if m.Kind != ast.PairMember {
				continue
			}
			if prev, ok := first[m.Key]; ok {
				pass.Report(Diagnostic{
					Code:    DuplicateKey,
					Message: "Duplicate key '" + m.Key + "' in object",
					Range:   pass.Range(m.KeySpan),
					RelatedInformation: []RelatedInformation{{
						Location: Location{URI: pass.Filename, Range: *pass.Range(prev.KeySpan)},
						Message:  "first defined here",
					}},
				})
			} else {
				first[m.Key] = m
			}
			checkDuplicateKeys(pass, m.Value)
		}
	case ast.Array:
		for _, item := range v.Items {
			checkDuplicateKeys(pass, item)
		}
	}
}

func checkSpreads(pass *Pass, root *ast.Value) {
	ast.WalkObjects(root, func(obj *ast.Value, _ int) {
		n := 0
		for _, m := range obj.Members {
			if m.Kind == ast.SpreadMember {
				n++
			}
		}
		if n > pass.Config.MaxSpreadsPerObject {
			pass.Reportf(ExcessiveSpreads, &obj.Span, "Object has %d spreads, consider simplifying", n)
		}
	})
}

func checkEmpty(pass *Pass, root *ast.Value) {
	ast.Walk(root, func(node *ast.Value, _ *ast.Value, _ int) {
		switch {
		case node.Kind == ast.Object && node.DataMembers() == 0:
			pass.Reportf(EmptyObject, &node.Span, "Empty object found - verify this is intentional")
		case node.Kind == ast.Array && len(node.Items) == 0:
			pass.Reportf(EmptyObject, &node.Span, "Empty array found - verify this is intentional")
		}
	})
}

// checkNaming reports nested objects before their parent.  A key may count
// as both snake_case and camelCase.
func checkNaming(pass *Pass, v *ast.Value) {
	switch v.Kind {
	case ast.Array:
		for _, item := range v.Items {
			checkNaming(pass, item)
		}
	case ast.Object:
		snake, camel := 0, 0
		for _, m := range v.Members {
			if m.Kind != ast.PairMember {
				continue
			}
			if strings.ContainsRune(m.Key, '_') {
				snake++
			}
			if strings.IndexFunc(m.Key, unicode.IsUpper) >= 0 {
				camel++
			}
			checkNaming(pass, m.Value)
		}
		if snake > 0 && camel > 0 {
			pass.Reportf(InconsistentNaming, &v.Span,
				"Object has mixed naming styles (%d snake_case, %d camelCase)", snake, camel)
		}
	}
}
