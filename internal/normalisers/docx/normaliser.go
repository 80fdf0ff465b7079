package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const documentPart = "word/document.xml"

// Normaliser handles DOCX word-processor documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the word-processor format.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatWordProcessor
}

// Normalise extracts the body text of a DOCX file as one document.
// Paragraphs become lines and table cells are separated by tabs.
// A document with no text yields no documents.
func (n *Normaliser) Normalise(_ context.Context, path string, content []byte) ([]domain.Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a DOCX archive", domain.ErrInvalidInput)
	}

	text, err := extractDocumentText(reader)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	return []domain.Document{{
		Content: text,
		Path:    path,
		Format:  domain.FormatWordProcessor,
	}}, nil
}

// extractDocumentText reads word/document.xml from the archive.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, documentPart, err)
		}
		defer rc.Close()

		return parseDocumentXML(rc)
	}
	return "", fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, documentPart)
}

// parseDocumentXML walks the WordprocessingML token stream. Only the body
// text matters, so elements are matched by local name.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out       strings.Builder
		line      strings.Builder
		inText    bool
		cellIndex int
	)
	flush := func() {
		if s := strings.TrimRight(line.String(), " \t"); s != "" {
			out.WriteString(s)
			out.WriteByte('\n')
		}
		line.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: malformed %s: %v", domain.ErrInvalidInput, documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteByte('\t')
			case "br", "cr":
				flush()
			case "tr":
				cellIndex = 0
			case "tc":
				if cellIndex > 0 {
					line.WriteByte('\t')
				}
				cellIndex++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				// Paragraphs inside a table cell stay on the row's line.
				if cellIndex == 0 {
					flush()
				} else {
					line.WriteByte(' ')
				}
			case "tr":
				flush()
				cellIndex = 0
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	flush()

	return strings.TrimSpace(out.String()), nil
}
