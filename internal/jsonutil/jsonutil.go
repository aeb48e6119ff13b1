// Package jsonutil provides shared helpers for decoding JSON response bodies
// with contextual errors.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// UnmarshalArrayAllowEmpty unmarshals a JSON array into a slice.
// A JSON null decodes to an empty, non-nil slice.
func UnmarshalArrayAllowEmpty[T any](data []byte, context string) ([]T, error) {
	var entries []T
	if err := UnmarshalWithContext(data, &entries, context); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []T{}
	}
	return entries, nil
}

// ReadOptional reads r fully and unmarshals it into v.
// An empty (or whitespace-only) body leaves v untouched and reports found=false.
func ReadOptional(r io.Reader, v any, context string) (found bool, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, fmt.Errorf("%s: read body: %w", context, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := UnmarshalWithContext(data, v, context); err != nil {
		return false, err
	}
	return true, nil
}

// Snippet returns at most n bytes of data as a string, for error messages.
// The cut never splits a UTF-8 sequence.
func Snippet(data []byte, n int) string {
	data = bytes.TrimSpace(data)
	if len(data) <= n {
		return string(data)
	}
	cut := max(n, 0)
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return string(data[:cut]) + "…"
}
