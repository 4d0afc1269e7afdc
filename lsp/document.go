// Copyright © 2025 The MON authors

package lsp

import (
	"context"
	"sort"
	"sync"

	"github.com/mon-lang/mon/analysis"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu       sync.Mutex
	URI      string
	Version  int32
	Content  string
	analyzed bool
	analysis *analysis.Result
	err      error

	// lastGood is the most recent successful analysis.  Completion uses it
	// while the document is being edited into a state that does not parse.
	lastGood *analysis.Result
}

// analyze runs the analysis service over the current content.  The caller
// holds d.mu.
func (d *Document) analyze(svc *analysis.Service) {
	res, err := svc.AnalyzeDocument(context.Background(), d.Content, uriToPath(d.URI))
	d.analyzed = true
	d.analysis = res
	d.err = err
	if err != nil {
		log.Debugf("analysis of %s failed: %v", d.URI, err)
		return
	}
	d.lastGood = res
}

// snapshot returns the content, the current analysis and the analysis
// error under the document lock.
func (d *Document) snapshot() (string, *analysis.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Content, d.analysis, d.err
}

// result returns the current analysis, or nil if the document does not
// parse.
func (d *Document) result() *analysis.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.analysis
}

// lastGoodResult returns the current analysis, or the last successful one.
func (d *Document) lastGoodResult() *analysis.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.analysis != nil {
		return d.analysis
	}
	return d.lastGood
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync).  The cached analysis is
// dropped and rebuilt on the next request.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.analyzed = false
	doc.analysis = nil
	doc.err = nil
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns the open documents ordered by URI.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	return docs
}
