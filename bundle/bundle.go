// Copyright © 2025 The MON authors

// Package bundle resolves the import graph rooted at a MON file and checks
// it for circular dependencies.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/lint"
	"github.com/mon-lang/mon/parser"
	"github.com/mon-lang/mon/position"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mon.bundle")

// Loader returns the contents of the file at path.
type Loader func(path string) ([]byte, error)

// Node is one file of an import graph.
type Node struct {
	Path     string
	Source   string
	Document *ast.Document
	Edges    []Edge

	// Err is set when the file could not be read or parsed.  Its imports
	// are not followed.
	Err error
}

// Edge is an import statement together with the path it resolves to.
type Edge struct {
	Import *ast.ImportStatement
	Path   string
}

// Graph is the set of files reachable from an entry file through imports.
type Graph struct {
	Entry string
	nodes map[string]*Node
	order []string
}

// Resolve returns the path an import written in the file from refers to.
// Relative import paths are relative to the directory of from.
func Resolve(from, importPath string) string {
	if filepath.IsAbs(importPath) {
		return filepath.Clean(importPath)
	}
	return filepath.Join(filepath.Dir(from), importPath)
}

// Build reads and parses entry and every file it transitively imports.  If
// load is nil files are read with os.ReadFile.  An error is returned only
// when the entry file itself cannot be read or parsed; failures in imported
// files are recorded on their Node.
func Build(entry string, load Loader) (*Graph, error) {
	if load == nil {
		load = os.ReadFile
	}
	entry = filepath.Clean(entry)
	g := &Graph{Entry: entry, nodes: make(map[string]*Node)}
	stack := []string{entry}
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := g.nodes[path]; ok {
			continue
		}
		node := g.load(path, load)
		if node.Err != nil {
			if path == entry {
				return nil, node.Err
			}
			log.Debugf("skipping import %s: %v", path, node.Err)
			continue
		}
		// Push in reverse so imports are visited in source order.
		for i := len(node.Edges) - 1; i >= 0; i-- {
			if _, ok := g.nodes[node.Edges[i].Path]; !ok {
				stack = append(stack, node.Edges[i].Path)
			}
		}
	}
	return g, nil
}

func (g *Graph) load(path string, load Loader) *Node {
	node := &Node{Path: path}
	g.nodes[path] = node
	g.order = append(g.order, path)
	src, err := load(path)
	if err != nil {
		node.Err = err
		return node
	}
	node.Source = string(src)
	doc, err := parser.Parse(node.Source, path)
	if err != nil {
		node.Err = err
		return node
	}
	node.Document = doc
	for _, imp := range doc.Imports {
		node.Edges = append(node.Edges, Edge{Import: imp, Path: Resolve(path, imp.Path)})
	}
	return node
}

// Node returns the node for path, or nil.
func (g *Graph) Node(path string) *Node {
	return g.nodes[filepath.Clean(path)]
}

// Files returns the paths of the graph in the order they were discovered.
// The entry file is first.
func (g *Graph) Files() []string {
	files := make([]string, len(g.order))
	copy(files, g.order)
	return files
}

// Depth returns the length of the longest acyclic import chain starting at
// the entry file.  A file without imports has depth 0.
func (g *Graph) Depth() int {
	onPath := make(map[string]bool)
	var depth func(path string) int
	depth = func(path string) int {
		node := g.nodes[path]
		if node == nil || node.Err != nil || onPath[path] {
			return -1
		}
		onPath[path] = true
		defer delete(onPath, path)
		longest := 0
		for _, e := range node.Edges {
			if d := depth(e.Path) + 1; d > longest {
				longest = d
			}
		}
		return longest
	}
	return depth(g.Entry)
}

// Cycle returns the first import cycle found by a depth first search from
// the entry file, visiting imports in source order.  The returned error is
// a *CycleError, or nil if the graph is acyclic.
func (g *Graph) Cycle() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var stack []*Node
	var edges []Edge

	var visit func(node *Node) *CycleError
	visit = func(node *Node) *CycleError {
		state[node.Path] = active
		stack = append(stack, node)
		for _, e := range node.Edges {
			next := g.nodes[e.Path]
			if next == nil || next.Err != nil {
				continue
			}
			switch state[next.Path] {
			case active:
				return g.cycleError(stack, append(edges, e), next)
			case unvisited:
				edges = append(edges, e)
				if err := visit(next); err != nil {
					return err
				}
				edges = edges[:len(edges)-1]
			}
		}
		stack = stack[:len(stack)-1]
		state[node.Path] = done
		return nil
	}

	for _, path := range g.order {
		node := g.nodes[path]
		if node.Err != nil || state[path] != unvisited {
			continue
		}
		if err := visit(node); err != nil {
			return err
		}
	}
	return nil
}

// cycleError builds the error for the cycle closed by the last element of
// edges, which leads back to start.
func (g *Graph) cycleError(stack []*Node, edges []Edge, start *Node) *CycleError {
	i := 0
	for stack[i] != start {
		i++
	}
	err := &CycleError{File: start.Path, Import: edges[i].Import}
	for _, node := range stack[i:] {
		err.Cycle = append(err.Cycle, node.Path)
	}
	err.Cycle = append(err.Cycle, start.Path)
	err.Range = position.RangeAt(start.Source, err.Import.Span.Start, err.Import.Span.End)
	return err
}

// CycleError reports a circular import.  Cycle lists the files involved,
// starting and ending with File.  Import is the statement in File which
// begins the cycle.
type CycleError struct {
	Cycle  []string
	File   string
	Import *ast.ImportStatement
	Range  position.Range
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("Circular dependency detected: %s", strings.Join(e.Cycle, " → "))
}

// Diagnostic returns the error as a LINT4002 diagnostic located at the
// import statement.
func (e *CycleError) Diagnostic() lint.Diagnostic {
	r := e.Range
	return lint.Diagnostic{
		Code:     lint.CircularDependency,
		Severity: lint.CircularDependency.DefaultSeverity(),
		Message:  e.Error(),
		Range:    &r,
	}
}

// Check builds the import graph rooted at entry and reports a cycle as a
// *CycleError.
func Check(entry string, load Loader) (*Graph, error) {
	g, err := Build(entry, load)
	if err != nil {
		return nil, err
	}
	return g, g.Cycle()
}
