package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError carries the original evaluator output so callers can log it
// before falling back. It never propagates past the evaluator boundary.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse evaluator response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Snippet returns a bounded excerpt of the raw response for diagnostics
func (e *ParseError) Snippet() string {
	s := strings.TrimSpace(e.Raw)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// Decode extracts a strict JSON value from a semi-structured evaluator
// response and unmarshals it into v. On failure it returns a *ParseError,
// never panics.
func Decode(response string, v any) error {
	content := ExtractJSON(response)
	if content == "" {
		return &ParseError{Raw: response, Err: fmt.Errorf("no JSON found in response")}
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return &ParseError{Raw: response, Err: err}
	}
	return nil
}

// ExtractJSON isolates JSON content from an LLM response. It strips a fenced
// code block (with or without a language tag) when present, then returns the
// outermost object or array.
func ExtractJSON(response string) string {
	trimmed := stripFence(strings.TrimSpace(response))

	objStart := strings.Index(trimmed, "{")
	arrStart := strings.Index(trimmed, "[")

	// Prefer whichever structure opens first
	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		end := strings.LastIndex(trimmed, "]")
		if end > arrStart {
			return trimmed[arrStart : end+1]
		}
	}
	if objStart != -1 {
		end := strings.LastIndex(trimmed, "}")
		if end > objStart {
			return trimmed[objStart : end+1]
		}
	}
	return ""
}

// stripFence removes a leading/trailing markdown code fence if the whole
// response is wrapped in one (```json ... ``` or ``` ... ```).
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[3:]
	// Drop optional language tag up to the first newline
	if idx := strings.IndexByte(rest, '\n'); idx != -1 {
		rest = rest[idx+1:]
	}
	if idx := strings.LastIndex(rest, "```"); idx != -1 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}
