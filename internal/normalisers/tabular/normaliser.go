package tabular

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles delimited tabular text such as CSV exports.
type Normaliser struct{}

// New creates a new tabular normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the tabular format.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatTabular
}

// Normalise returns the whole file as one document. The bytes are read as
// UTF-8 and, failing that, as ISO-8859-1. A blank file still yields its
// document, so it keeps its place in the folder order.
func (n *Normaliser) Normalise(_ context.Context, path string, content []byte) ([]domain.Document, error) {
	text, err := Decode(content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		logger.Debug("Tabular file %s is blank", path)
	}

	return []domain.Document{{
		Content: text,
		Path:    path,
		Format:  domain.FormatTabular,
	}}, nil
}

// Decode converts file bytes to text: UTF-8 (BOM stripped) if valid,
// otherwise ISO-8859-1, which maps every byte.
func Decode(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return string(content), nil
	}

	logger.Debug("Content is not valid UTF-8, decoding as ISO-8859-1")
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return string(decoded), nil
}
