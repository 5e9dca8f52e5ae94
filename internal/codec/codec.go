// Package codec maps a model to and from its three wire formats: sectioned
// CSV text, columnar JSON and XML task markup. Every format goes through the
// same intermediate tables, so field derivation and rounding are shared.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Format names a wire format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatJSONAI Format = "json-ai"
	FormatXML    Format = "xml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatCSV, FormatJSON, FormatJSONAI, FormatXML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (expected csv, json, json-ai or xml)", s)
}

var (
	// ErrMalformed wraps any payload that cannot be parsed.
	ErrMalformed = errors.New("malformed payload")
	// ErrMissingScopeID reports a scope row without a scopeId.
	ErrMissingScopeID = errors.New("scopeId is required")
	// ErrDuplicateScopeID reports a scopeId used twice in one payload.
	ErrDuplicateScopeID = errors.New("duplicate scopeId")
	// ErrColumnLength reports columnar JSON arrays of unequal length.
	ErrColumnLength = errors.New("column arrays differ in length")
)

// Detect guesses the format of raw input from its first significant byte.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("{")):
		return FormatJSON
	case bytes.HasPrefix(trimmed, []byte("<")):
		return FormatXML
	default:
		return FormatCSV
	}
}

// Decode parses data in the given format into a validated payload. The JSON
// decoder accepts both dialects.
func Decode(data []byte, format Format) (*Payload, error) {
	var (
		p   *Payload
		err error
	)
	switch format {
	case FormatCSV:
		p, err = DecodeCSV(data)
	case FormatJSON, FormatJSONAI:
		p, err = DecodeJSON(data)
	case FormatXML:
		p, err = DecodeXML(data)
	default:
		return nil, fmt.Errorf("decoding: unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if errs := Validate(p); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	return p, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("load validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s: %w", msg, errors.Join(errs...))
}
