package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/inline"
	"src.jotdown.dev/pkg/parse"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"initialized": noop,
		"shutdown":    noop,
		"exit":        noop,
		// Sent by some clients even though the capability is not advertised.
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{TriggerCharacters: []string{"["}},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	line, col := lineAt(content, params.Position)
	for _, t := range tokens(line) {
		if t.Type != inline.ReferenceLink || col < t.start || col >= t.start+len(t.Text) {
			continue
		}
		key := t.Groups[1]
		text := fmt.Sprintf("[%s]: missing definition", key)
		if target, ok := definitions(content)[key]; ok {
			text = fmt.Sprintf("[%s]: %s", key, target)
		}
		return lsp.Hover{Contents: []lsp.MarkedString{lsp.RawMarkedString(text)}}, nil
	}
	return lsp.Hover{}, nil
}

// A citation key being typed at the end of the text before the cursor.
var partialCitationRegexp = regexp.MustCompile(`\]\[([^\]]*)$`)

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	line, col := lineAt(content, params.Position)
	m := partialCitationRegexp.FindStringSubmatch(line[:col])
	if m == nil {
		return []lsp.CompletionItem{}, nil
	}
	prefix := m[1]
	replace := lsp.Range{
		Start: lsp.Position{Line: params.Position.Line,
			Character: params.Position.Character - utf16Len(prefix)},
		End: params.Position,
	}

	defs := definitions(content)
	keys := make([]string, 0, len(defs))
	for key := range defs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	items := make([]lsp.CompletionItem, len(keys))
	for i, key := range keys {
		items[i] = lsp.CompletionItem{
			Label:    key,
			Kind:     lsp.CIKReference,
			Detail:   defs[key],
			TextEdit: &lsp.TextEdit{Range: replace, NewText: key},
		}
	}
	return items, nil
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(uri, content)})
}

func diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	tree, err := parse.Parse(parse.Source{Name: string(uri), Code: content}, parse.Config{})
	if err != nil {
		var derr *diag.Error
		if !errors.As(err, &derr) {
			return []lsp.Diagnostic{}
		}
		return []lsp.Diagnostic{{
			Range:    lineRange(content, derr.Context.Line),
			Severity: lsp.Error,
			Source:   "parse",
			Message:  derr.Message,
		}}
	}

	diags := []lsp.Diagnostic{}
	for _, e := range tree.Refs.Unresolved() {
		diags = append(diags, lsp.Diagnostic{
			Range:    lineRange(content, e.Line),
			Severity: lsp.Warning,
			Source:   "references",
			Message:  fmt.Sprintf("missing definition for reference %q", e.Key),
		})
	}
	for _, r := range tree.Refs.Redefinitions() {
		diags = append(diags, lsp.Diagnostic{
			Range:    lineRange(content, r.Line),
			Severity: lsp.Information,
			Source:   "references",
			Message: fmt.Sprintf("reference %q redefined, previous definition on line %d",
				r.Key, r.Previous),
		})
	}
	return diags
}

type token struct {
	inline.Token
	// Byte offset in the line.
	start int
}

// Lexes a line as far as possible.
func tokens(line string) []token {
	var ts []token
	l := inline.NewLexer(0, line)
	pos := 0
	for {
		t, err := l.Next()
		if err != nil || t.Type == inline.EOF {
			return ts
		}
		ts = append(ts, token{t, pos})
		pos += len(t.Text)
	}
}

// Returns the targets of the reference definitions in content, by key. A
// later definition replaces an earlier one.
func definitions(content string) map[string]string {
	defs := map[string]string{}
	for line := range parse.Lines(content) {
		if ts := tokens(line); len(ts) > 0 && ts[0].Type == inline.ReferenceDef {
			defs[ts[0].Groups[0]] = strings.TrimSpace(ts[0].Groups[1])
		}
	}
	return defs
}

// Returns the line containing pos and the byte offset of pos in it.
func lineAt(content string, pos lsp.Position) (string, int) {
	idx := lspPositionToIdx(content, pos)
	start := strings.LastIndexByte(content[:idx], '\n') + 1
	end := len(content)
	if i := strings.IndexByte(content[idx:], '\n'); i != -1 {
		end = idx + i
	}
	line := strings.TrimSuffix(content[start:end], "\r")
	return line, min(idx-start, len(line))
}

// Returns the range covering the given 1-based line.
func lineRange(content string, line int) lsp.Range {
	start := 0
	for i := 1; i < line; i++ {
		j := strings.IndexByte(content[start:], '\n')
		if j == -1 {
			break
		}
		start += j + 1
	}
	end := len(content)
	if j := strings.IndexByte(content[start:], '\n'); j != -1 {
		end = start + j
	}
	return lsp.Range{
		Start: lspPositionFromIdx(content, start),
		End:   lspPositionFromIdx(content, end),
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
