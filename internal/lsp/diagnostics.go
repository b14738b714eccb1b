package lsp

import (
	"context"
	"errors"
	"sort"
	"time"
)

// scheduleDiagnostics restarts the debounce timer; the newest schedule
// cancels any analysis still running.
func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisSeq++
	seq := s.analysisSeq
	if s.diagCancel != nil {
		s.diagCancel()
		s.diagCancel = nil
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
}

func (s *Server) cancelDiagnostics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisSeq++
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	if s.diagCancel != nil {
		s.diagCancel()
		s.diagCancel = nil
	}
}

type pendingDoc struct {
	uri string
	doc document
}

// runDiagnostics analyzes every open document whose last analysis is out of
// date and publishes the results. A run superseded by a newer schedule
// publishes nothing.
func (s *Server) runDiagnostics(seq uint64) {
	s.mu.Lock()
	if seq != s.analysisSeq || s.shutdownRequested {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.diagCancel = cancel
	pending := make([]pendingDoc, 0, len(s.docs))
	for uri, doc := range s.docs {
		if a, ok := s.analyses[uri]; ok && a.version == doc.version {
			continue
		}
		pending = append(pending, pendingDoc{uri: uri, doc: *doc})
	}
	s.mu.Unlock()
	defer cancel()

	sort.Slice(pending, func(i, j int) bool { return pending[i].uri < pending[j].uri })
	for _, p := range pending {
		a, err := s.analyzeDocument(ctx, p.doc)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logf("analysis of %s failed: %v", p.uri, err)
			}
			return
		}
		if !s.storeAnalysis(seq, p.uri, a) {
			return
		}
		v := a.version
		if err := s.sendPublish(p.uri, &v, a.lspDiagnostics(p.uri)); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
			return
		}
	}
}

func (s *Server) analyzeDocument(ctx context.Context, doc document) (*analysis, error) {
	style, err := s.styleFor(doc.path)
	if err != nil {
		// сломанный конфиг не должен гасить анализ
		s.logf("configuration for %s: %v", doc.path, err)
	}
	return analyzeText(ctx, doc.path, doc.text, doc.version, style, s.maxDiagnostics)
}

// storeAnalysis records a when the run is still current and the document
// still has the analyzed version.
func (s *Server) storeAnalysis(seq uint64, uri string, a *analysis) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if seq != s.analysisSeq || !ok || doc.version != a.version {
		return false
	}
	s.analyses[uri] = a
	s.published[uri] = struct{}{}
	return true
}

// currentAnalysis returns an analysis of the open document uri that matches
// its latest version, running one synchronously when needed.
func (s *Server) currentAnalysis(ctx context.Context, uri string) (*analysis, error) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return nil, nil
	}
	if a, ok := s.analyses[uri]; ok && a.version == doc.version {
		s.mu.Unlock()
		return a, nil
	}
	snapshot := *doc
	s.mu.Unlock()
	return s.analyzeDocument(ctx, snapshot)
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	clear(s.published)
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}
