// Package jsonpath reads single values out of JSON documents using the
// subset of JSONPath the CLI accepts for --extract:
//
//	$              the whole document
//	$.name         object member
//	$['na.me']     quoted member (either quote style)
//	$.items[2]     array index
//
// Wildcards, filters, slices and recursive descent are rejected.
package jsonpath

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNotFound is returned when a path does not resolve to a value.
var ErrNotFound = errors.New("path not found")

// Extract resolves path against doc. Strings are returned unquoted; other
// values, including null, are returned as their JSON text.
func Extract(doc []byte, path string) (string, error) {
	if len(doc) == 0 {
		return "", errors.New("empty JSON document")
	}
	if !gjson.ValidBytes(doc) {
		return "", errors.New("invalid JSON document")
	}

	gpath, err := Compile(path)
	if err != nil {
		return "", err
	}

	result := gjson.GetBytes(doc, gpath)
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if result.Type == gjson.String {
		return result.Str, nil
	}
	return result.Raw, nil
}

// ExtractMultiple resolves every named path against doc. Values that resolve
// are returned even when others fail; the error lists each failure by name.
func ExtractMultiple(doc []byte, paths map[string]string) (map[string]string, error) {
	if len(paths) == 0 {
		return nil, errors.New("no JSONPath expressions provided")
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(paths))
	var failures []string
	for _, name := range names {
		value, err := Extract(doc, paths[name])
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = value
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

// Compile converts a JSONPath expression into a gjson path. The leading "$"
// may be omitted.
func Compile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("empty JSONPath expression")
	}

	rest := strings.TrimPrefix(path, "$")
	if rest == path && !strings.HasPrefix(rest, "[") {
		rest = "." + rest
	}

	var segments []string
	for len(rest) > 0 {
		var seg string
		var err error
		switch rest[0] {
		case '.':
			seg, rest, err = member(rest[1:])
		case '[':
			seg, rest, err = bracket(rest[1:])
		default:
			err = fmt.Errorf("unexpected %q", rest[0])
		}
		if err != nil {
			return "", fmt.Errorf("invalid JSONPath %q: %w", path, err)
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return "@this", nil
	}
	return strings.Join(segments, "."), nil
}

// member reads a dotted member name.
func member(s string) (string, string, error) {
	if strings.HasPrefix(s, ".") {
		return "", "", errors.New("recursive descent is not supported")
	}
	end := strings.IndexAny(s, ".[")
	if end < 0 {
		end = len(s)
	}
	name := s[:end]
	switch name {
	case "":
		return "", "", errors.New("empty member name")
	case "*":
		return "", "", errors.New("wildcards are not supported")
	}
	return escape(name), s[end:], nil
}

// bracket reads an index or quoted member following '['.
func bracket(s string) (string, string, error) {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		quote := s[0]
		end := strings.IndexByte(s[1:], quote)
		if end < 0 || !strings.HasPrefix(s[end+2:], "]") {
			return "", "", errors.New("unterminated quoted member")
		}
		return escape(s[1 : end+1]), s[end+3:], nil
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", "", errors.New("missing ']'")
	}
	index, err := strconv.Atoi(strings.TrimSpace(s[:end]))
	if err != nil || index < 0 {
		return "", "", fmt.Errorf("unsupported subscript [%s]", s[:end])
	}
	return strconv.Itoa(index), s[end+1:], nil
}

// escape protects characters gjson treats as path syntax.
func escape(key string) string {
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`\.*?|#@!=<>%`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
