// Package lsp adapts the bracket-matching validator in internal/bf to the
// Language Server Protocol, so an editor can underline unmatched brackets as
// the user types instead of only finding out at optimize/run time.
//
// Grounded on the teacher's internal/lsp package (diagnostics.go,
// handler.go): github.com/tliron/glsp for the protocol types and
// github.com/tliron/commonlog for the server's logging, both left unused by
// the rest of SPEC_FULL.md until this package gave them a home - see
// DESIGN.md's "Dropped teacher dependencies" entry for why they sat idle
// until now.
package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/vmichal/brainfuck-sub000/internal/bf"
)

// ConvertSyntaxErrors transforms bf.ValidateDetailed's unmatched-bracket
// report into LSP diagnostics, mirroring the teacher's
// ConvertParseErrors/ConvertScanErrors: one diagnostic per error, a fixed
// one-character span since a bracket mismatch has no natural end column,
// and 0-based line/column per the protocol.
func ConvertSyntaxErrors(errs []bf.SyntaxError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs))
	for _, e := range errs {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(e.Line - 1),
					Character: uint32(e.Column - 1),
				},
				End: protocol.Position{
					Line:      uint32(e.Line - 1),
					Character: uint32(e.Column),
				},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("bfopt-validate"),
			Message:  e.Message,
		})
	}
	return diagnostics
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }
func ptrString(s string) *string                                           { return &s }
func ptrBool(b bool) *bool                                                 { return &b }
func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
