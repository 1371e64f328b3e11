package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/mgomes/aneurysm/bf"
)

const (
	severityError   = 1
	severityWarning = 2
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	engine *bf.Engine
	docs   map[string]string
}

func runLSP() error {
	server := &lspServer{
		reader: bufio.NewReader(os.Stdin),
		writer: bufio.NewWriter(os.Stdout),
		engine: bf.MustNewEngine(bf.Config{}),
		docs:   make(map[string]string),
	}
	return server.serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		messages := s.handleMessage(incoming)
		for _, msg := range messages {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync":           1,
						"hoverProvider":              true,
						"documentFormattingProvider": true,
					},
					"serverInfo": map[string]any{
						"name": "aneurysm-lsp",
					},
				},
			},
		}
	case "initialized":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "exit":
		return nil
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/didClose":
		var params lspTextDocumentParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		delete(s.docs, params.TextDocument.URI)
		return nil
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		text := hoverText(s.engine, source, params.Position.Line, params.Position.Character)
		if text == "" {
			return []lspOutboundMessage{
				{JSONRPC: "2.0", ID: incoming.ID, Result: nil},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": text,
					},
				},
			},
		}
	case "textDocument/formatting":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid formatting params"},
				},
			}
		}
		edits := []map[string]any{}
		if source, ok := s.docs[params.TextDocument.URI]; ok {
			edits = formattingEdits(source)
		}
		return []lspOutboundMessage{
			{JSONRPC: "2.0", ID: incoming.ID, Result: edits},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.engine, source),
		},
	}
}

// diagnosticsForSource reports a compile failure as an error, or the
// analysis warnings when the program compiles.
func diagnosticsForSource(engine *bf.Engine, source string) []map[string]any {
	lines := strings.Split(source, "\n")
	program, err := engine.Compile(source)
	if err != nil {
		var structErr *bf.StructureError
		var syntaxErr *bf.SyntaxError
		switch {
		case errors.As(err, &structErr):
			message := fmt.Sprintf("imbalanced brackets: %s", structErr.Kind)
			return []map[string]any{
				newDiagnostic(lines, structErr.Pos, severityError, message),
			}
		case errors.As(err, &syntaxErr):
			return []map[string]any{
				newDiagnostic(lines, syntaxErr.Pos, severityError, syntaxErr.Message),
			}
		default:
			return []map[string]any{
				newDiagnostic(lines, bf.Position{Line: 1, Column: 1}, severityError, err.Error()),
			}
		}
	}

	report := bf.Analyze(program)
	out := make([]map[string]any, 0, len(report.Warnings))
	for _, warning := range report.Warnings {
		out = append(out, newDiagnostic(lines, warning.Pos, severityWarning, warning.Message))
	}
	return out
}

// newDiagnostic converts a 1-based rune position into a zero-based LSP range
// one character wide.
func newDiagnostic(lines []string, pos bf.Position, severity int, message string) map[string]any {
	line := max(0, pos.Line-1)
	character := 0
	if line < len(lines) {
		character = utf16Offset(lines[line], max(0, pos.Column-1))
	}
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": severity,
		"source":   "aneurysm-lsp",
		"message":  message,
	}
}

// hoverText describes the command under the cursor. When the document
// compiles, the matching bracket is included; comment text yields nothing.
func hoverText(engine *bf.Engine, source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	runes := []rune(strings.TrimRight(lines[line], "\r"))
	column := runeIndex(runes, character)
	if column >= len(runes) {
		return ""
	}
	inst, ok := bf.Lookup(runes[column])
	if !ok {
		return ""
	}

	header := fmt.Sprintf("`%s` **%s**\n\n%s", inst, inst.Name(), inst.Describe())
	program, err := engine.Compile(source)
	if err != nil {
		return header
	}
	target := bf.Position{Line: line + 1, Column: column + 1}
	for i := range program.Len() {
		if program.Position(i) != target {
			continue
		}
		if partner, ok := program.Jumps().Partner(i); ok {
			pos := program.Position(partner)
			return fmt.Sprintf("%s\n\nmatches `%s` at %d:%d", header, program.Instructions()[partner], pos.Line, pos.Column)
		}
		return header
	}
	return ""
}

func formattingEdits(source string) []map[string]any {
	formatted := bf.FormatSource(source)
	if formatted == source {
		return []map[string]any{}
	}
	lines := strings.Split(source, "\n")
	last := len(lines) - 1
	return []map[string]any{
		{
			"range": map[string]any{
				"start": map[string]any{"line": 0, "character": 0},
				"end": map[string]any{
					"line":      last,
					"character": utf16Offset(lines[last], len([]rune(lines[last]))),
				},
			},
			"newText": formatted,
		},
	}
}

// runeIndex maps an LSP character offset (UTF-16 code units) onto a rune
// index into runes.
func runeIndex(runes []rune, character int) int {
	units := 0
	for i, r := range runes {
		if units >= character {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(runes)
}

// utf16Offset is the inverse of runeIndex for a single line.
func utf16Offset(line string, column int) int {
	units := 0
	for i, r := range []rune(line) {
		if i >= column {
			break
		}
		units += utf16.RuneLen(r)
	}
	return units
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
