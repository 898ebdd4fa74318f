package cst

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	goccy "github.com/goccy/go-yaml"
)

// newParseError builds a ParseError from a gopkg.in/yaml.v3 unmarshal
// failure. yaml.v3's own error type only carries a flat "yaml: line N:
// message" string, so for a precise column we re-parse the same source
// with goccy/go-yaml, whose error type carries a full token position, and
// fall back to parsing yaml.v3's message text when that doesn't help.
func newParseError(path string, source []byte, cause error) *ParseError {
	line, col, msg := extractFromGoccy(source)
	if line == 0 {
		line, col, msg = extractFromString(cause.Error())
	}
	if msg == "" {
		msg = cause.Error()
	}

	li := newLineIndex(source)
	li.fileID, li.path = 0, path
	off := li.offset(line, col)
	sp := spanFromOffsets(off, off, li)

	return &ParseError{Path: path, Span: sp, Message: msg, Cause: cause}
}

// extractFromGoccy re-parses source with goccy/go-yaml purely to recover a
// precise error position; goccy's decoder rejects a superset of what
// yaml.v3 rejects, so this usually fails on the same document for the same
// underlying reason and carries a structured Token.Position.
func extractFromGoccy(source []byte) (line, col int, message string) {
	var generic any
	err := goccy.Unmarshal(source, &generic)
	if err == nil {
		return 0, 0, ""
	}

	underlying := error(err)
	for unwrapped := errors.Unwrap(underlying); unwrapped != nil; unwrapped = errors.Unwrap(underlying) {
		underlying = unwrapped
	}

	if line, col, message = reflectGoccyPosition(underlying); line > 0 {
		return line, col, message
	}
	return reflectGoccyPosition(err)
}

// reflectGoccyPosition reaches into goccy/go-yaml's error struct via
// reflection to read Token.Position.{Line,Column}. goccy does not export a
// stable error interface for this, so field lookup by name is the only
// portable way to get it.
func reflectGoccyPosition(err error) (line, col int, message string) {
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return 0, 0, ""
	}
	v = v.Elem()

	if m := v.FieldByName("Message"); m.IsValid() && m.Kind() == reflect.String {
		message = m.String()
	}

	tok := v.FieldByName("Token")
	if !tok.IsValid() || tok.Kind() != reflect.Ptr || tok.IsNil() {
		return 0, 0, message
	}
	tok = tok.Elem()

	pos := tok.FieldByName("Position")
	if !pos.IsValid() || pos.Kind() != reflect.Ptr || pos.IsNil() {
		return 0, 0, message
	}
	pos = pos.Elem()

	if f := pos.FieldByName("Line"); f.IsValid() && f.Kind() == reflect.Int {
		line = int(f.Int())
	}
	if f := pos.FieldByName("Column"); f.IsValid() && f.Kind() == reflect.Int {
		col = int(f.Int())
	}
	if line <= 0 && col <= 1 {
		return 0, 0, message
	}
	return line, col, message
}

// extractFromString falls back to parsing yaml.v3's "yaml: line N: message"
// or "yaml: line N: column M: message" error text directly.
func extractFromString(errStr string) (line, col int, message string) {
	const marker = "yaml: line "
	idx := strings.Index(errStr, marker)
	if idx < 0 {
		return 0, 0, errStr
	}
	rest := errStr[idx+len(marker):]

	colon := strings.Index(rest, ":")
	if colon < 0 {
		return 0, 0, errStr
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest[:colon]))
	if err != nil {
		return 0, 0, errStr
	}
	line = n + 1 // yaml.v3 reports 0-based lines in this message form
	rest = strings.TrimSpace(rest[colon+1:])

	if strings.HasPrefix(rest, "column ") {
		rest = rest[len("column "):]
		colon2 := strings.Index(rest, ":")
		if colon2 > 0 {
			if c, err := strconv.Atoi(strings.TrimSpace(rest[:colon2])); err == nil {
				col = c
			}
			rest = strings.TrimSpace(rest[colon2+1:])
		}
	}
	if col == 0 {
		col = 1
	}
	return line, col, rest
}
