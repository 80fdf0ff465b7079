// Package pdf extracts per-page text from PDF files using pdfcpu.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ContentExtractor returns the decoded content stream of each page, keyed
// by 1-based page number.
type ContentExtractor interface {
	ExtractPages(ctx context.Context, content []byte) (map[int][]byte, error)
}

// Normaliser handles PDF documents. Each page with text becomes one document.
type Normaliser struct {
	extractor ContentExtractor
}

// New creates a PDF normaliser backed by pdfcpu.
func New() *Normaliser {
	return &Normaliser{extractor: PdfcpuExtractor{}}
}

// NewWithExtractor creates a PDF normaliser with a custom content extractor.
// This is primarily useful for testing.
func NewWithExtractor(extractor ContentExtractor) *Normaliser {
	return &Normaliser{extractor: extractor}
}

// Format returns the PDF format.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatPDF
}

// Normalise extracts text per page. Pages without text are dropped.
func (n *Normaliser) Normalise(ctx context.Context, path string, content []byte) ([]domain.Document, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty PDF", domain.ErrInvalidInput)
	}

	pages, err := n.extractor.ExtractPages(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	numbers := make([]int, 0, len(pages))
	for nr := range pages {
		numbers = append(numbers, nr)
	}
	sort.Ints(numbers)

	docs := make([]domain.Document, 0, len(numbers))
	for _, nr := range numbers {
		text := TextFromContentStream(pages[nr])
		if strings.TrimSpace(text) == "" {
			logger.Debug("Skipping blank page %d of %s", nr, path)
			continue
		}
		docs = append(docs, domain.Document{
			Content: text,
			Path:    path,
			Format:  domain.FormatPDF,
			Page:    nr,
		})
	}
	return docs, nil
}

// PdfcpuExtractor extracts page content streams with pdfcpu.
type PdfcpuExtractor struct{}

var pageFilePattern = regexp.MustCompile(`_page_(\d+)`)

// ExtractPages writes the PDF to a scratch directory, has pdfcpu dump each
// page's content stream, and reads the dumps back.
func (PdfcpuExtractor) ExtractPages(ctx context.Context, content []byte) (map[int][]byte, error) {
	workDir, err := os.MkdirTemp("", "riskanalyzer-pdf-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inFile := filepath.Join(workDir, "in.pdf")
	if err := os.WriteFile(inFile, content, 0o600); err != nil {
		return nil, fmt.Errorf("write scratch PDF: %w", err)
	}
	outDir := filepath.Join(workDir, "pages")
	if err := os.Mkdir(outDir, 0o700); err != nil {
		return nil, fmt.Errorf("create page dir: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(inFile, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read page dir: %w", err)
	}

	pages := make(map[int][]byte, len(entries))
	for _, entry := range entries {
		m := pageFilePattern.FindStringSubmatch(entry.Name())
		if entry.IsDir() || m == nil {
			continue
		}
		nr, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", nr, err)
		}
		pages[nr] = append(pages[nr], data...)
	}
	return pages, nil
}
