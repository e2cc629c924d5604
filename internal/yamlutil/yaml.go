// Package yamlutil decodes and encodes the YAML configuration documents
// of htmlprint. It keeps goccy/go-yaml behind a small surface so callers
// share the same size limit and strictness.
package yamlutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// MaxDocumentSize caps a configuration document (1 MiB).
const MaxDocumentSize = 1 << 20

var (
	ErrEmptyDocument    = errors.New("yamlutil: empty document")
	ErrNilDestination   = errors.New("yamlutil: nil destination pointer")
	ErrDocumentTooLarge = errors.New("yamlutil: document exceeds maximum size")
)

func check(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrEmptyDocument
	case len(data) > MaxDocumentSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, len(data), MaxDocumentSize)
	case v == nil:
		return ErrNilDestination
	}
	return nil
}

// DecodeStrict decodes data into v and rejects keys v does not declare,
// so typos in configuration files fail loudly.
func DecodeStrict(data []byte, v any) error {
	if err := check(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return &SyntaxError{err: err}
	}
	return nil
}

// ReadStrict reads at most MaxDocumentSize bytes from r and decodes them
// with DecodeStrict.
func ReadStrict(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading document: %w", err)
	}
	return DecodeStrict(data, v)
}

// Encode renders v as a YAML document.
func Encode(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// SyntaxError is a decoding failure. Error is a single line; Pretty
// adds the offending source lines.
type SyntaxError struct {
	err error
}

func (e *SyntaxError) Error() string {
	return "yamlutil: " + yaml.FormatError(e.err, false, false)
}

func (e *SyntaxError) Unwrap() error {
	return e.err
}

// Pretty renders the error with source context for terminal output.
func (e *SyntaxError) Pretty(colored bool) string {
	return yaml.FormatError(e.err, colored, true)
}
