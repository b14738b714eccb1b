package lsp

import (
	"context"
	"encoding/json"
	"strings"

	"unparen/internal/diag"
	"unparen/internal/parens"
	"unparen/internal/report"
)

const fixAllTitle = "Remove all unnecessary parentheses"

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()
	a, err := s.currentAnalysis(ctx, uri)
	if err != nil {
		return s.sendError(msg.ID, codeInternalError, err.Error())
	}
	actions, err := codeActions(ctx, a, uri, params)
	if err != nil {
		return s.sendError(msg.ID, codeInternalError, err.Error())
	}
	return s.sendResponse(msg.ID, actions)
}

// codeActions offers a quick fix for every removable group touching the
// requested range and one fix-all action for the document.
func codeActions(ctx context.Context, a *analysis, uri string, params codeActionParams) ([]codeAction, error) {
	actions := []codeAction{}
	if a == nil || a.tree == nil {
		return actions, nil
	}
	target := spanForRange(a.file, params.Range)
	var removable []parens.Verdict
	for _, v := range a.verdicts {
		if v.Removable() {
			removable = append(removable, v)
		}
	}
	if len(removable) == 0 {
		return actions, nil
	}

	if wants(params.Context.Only, kindQuickFix) {
		for _, v := range removable {
			if !overlaps(target, v.Span) {
				continue
			}
			d := report.Diagnostic(a.tree, v)
			actions = append(actions, codeAction{
				Title:       report.FixTitle,
				Kind:        kindQuickFix,
				Diagnostics: matchingDiagnostics(params.Context.Diagnostics, d.Fixes[0].ID),
				IsPreferred: true,
				Edit:        a.workspaceEdit(uri, d.Fixes[0].Edits),
			})
		}
	}

	if wants(params.Context.Only, kindFixAllUnparen) {
		groups, err := parens.FixAll(ctx, a.tree, a.style)
		if err != nil {
			return nil, err
		}
		if len(groups) > 0 {
			actions = append(actions, codeAction{
				Title: fixAllTitle,
				Kind:  kindFixAllUnparen,
				Edit:  a.workspaceEdit(uri, report.FixEdits(a.tree, groups)),
			})
		}
	}
	return actions, nil
}

// wants reports whether kind passes the "only" filter of a request. A
// filter entry matches its own kind and every kind nested under it.
func wants(only []string, kind string) bool {
	if len(only) == 0 {
		return true
	}
	for _, prefix := range only {
		if kind == prefix || strings.HasPrefix(kind, prefix+".") {
			return true
		}
	}
	return false
}

// matchingDiagnostics picks the client diagnostics that carry fixID.
func matchingDiagnostics(list []lspDiagnostic, fixID string) []lspDiagnostic {
	var out []lspDiagnostic
	for _, d := range list {
		if d.Data != nil && d.Data.FixID == fixID {
			out = append(out, d)
		}
	}
	return out
}

func (a *analysis) workspaceEdit(uri string, edits []diag.TextEdit) *workspaceEdit {
	list := make([]textEdit, 0, len(edits))
	for _, e := range edits {
		list = append(list, textEdit{Range: rangeForSpan(a.file, e.Span), NewText: e.NewText})
	}
	return &workspaceEdit{Changes: map[string][]textEdit{uri: list}}
}
