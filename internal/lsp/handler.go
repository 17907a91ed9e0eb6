package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/vmichal/brainfuck-sub000/internal/bf"
)

// Handler implements the LSP methods bfopt's editor integration supports,
// grounded on the teacher's KansoHandler. There is no AST to cache here, so
// it is considerably smaller: a source document is either bracket-balanced
// or it isn't, and that is the entire diagnostic surface SPEC_FULL.md §6a
// describes.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewHandler creates a Handler with no documents open yet.
func NewHandler() *Handler {
	return &Handler{content: make(map[string]string)}
}

// Initialize advertises capabilities: full-document sync so every change
// notification carries the whole buffer, matching ValidateDetailed's need
// for the complete source, and no completion/semantic-token providers since
// Brainfuck's alphabet is eight fixed characters with nothing to complete.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("bfopt-lsp: initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

// Initialized is a no-op acknowledgement, same as the teacher's.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

// Shutdown is a no-op: there is no background state to flush.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("bfopt-lsp: shutdown")
	return nil
}

// TextDocumentDidOpen records the buffer and publishes its diagnostics.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.revalidate(ctx, params.TextDocument.URI)
}

// TextDocumentDidChange re-validates the buffer on every edit. Rather than
// reconstructing the document from the change event's delta (full vs.
// incremental sync), this re-reads the file from disk by URI, exactly as
// the teacher's updateAST does for its own didOpen/didChange handlers -
// the editor has already written the change to the file by the time this
// notification is sent in every client this server has been driven from.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.revalidate(ctx, params.TextDocument.URI)
}

// TextDocumentDidClose drops the buffer; there is nothing left to validate.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

// revalidate reads uri's file from disk, caches its content, and publishes
// fresh bracket-matching diagnostics for it.
func (h *Handler) revalidate(ctx *glsp.Context, uri protocol.DocumentUri) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bfopt-lsp: failed to read %s: %w", path, err)
	}

	h.mu.Lock()
	h.content[path] = string(content)
	h.mu.Unlock()

	diagnostics := ConvertSyntaxErrors(bf.ValidateDetailed(string(content)))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

func uriToPath(rawURI protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(rawURI))
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}
