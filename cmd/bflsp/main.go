// Command bflsp runs the Brainfuck language server: bracket-matching
// diagnostics over stdio, for editors that want a red squiggle on an
// unmatched '[' or ']' instead of finding out from `bfopt run`.
//
// Grounded on the teacher's cmd/kanso-lsp/main.go: commonlog.Configure plus
// glsp/server.NewServer wired to a protocol.Handler built from package lsp's
// methods.
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/vmichal/brainfuck-sub000/internal/lsp"
)

const serverName = "bfopt-lsp"

func main() {
	commonlog.Configure(1, nil)

	h := lsp.NewHandler()
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, serverName, false)
	log.Println("starting bfopt-lsp server over stdio")
	if err := s.RunStdio(); err != nil {
		log.Println("bfopt-lsp:", err)
		os.Exit(1)
	}
}
