package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// Ensure Loader implements the interface.
var _ driving.DocumentLoader = (*Loader)(nil)

// Loader enumerates input folders by extension and hands each file to the
// normaliser for its format. Failures are per-file and never abort a load.
type Loader struct {
	normalisers map[domain.Format]driven.Normaliser
}

// NewLoader creates a loader from normalisers. A later normaliser for the
// same format replaces an earlier one.
func NewLoader(normalisers ...driven.Normaliser) *Loader {
	l := &Loader{normalisers: make(map[domain.Format]driven.Normaliser, len(normalisers))}
	for _, n := range normalisers {
		if n != nil {
			l.normalisers[n.Format()] = n
		}
	}
	return l
}

// LoadFolder loads every supported file directly inside folder.
// Files are taken extension by extension (csv, pdf, docx) and in lexical
// order within an extension. Subdirectories are not descended.
func (l *Loader) LoadFolder(ctx context.Context, folder string) domain.LoadReport {
	report := domain.LoadReport{Folder: folder}

	entries, err := os.ReadDir(folder)
	if err != nil {
		logger.Warn("Could not read folder %s: %v", folder, err)
		return report
	}

	byFormat := make(map[domain.Format][]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := domain.FormatForPath(entry.Name())
		if !ok {
			continue
		}
		byFormat[format] = append(byFormat[format], filepath.Join(folder, entry.Name()))
	}

	for _, ext := range domain.SupportedExtensions() {
		format, _ := domain.FormatForPath(ext)
		paths := byFormat[format]
		sort.Strings(paths)
		for _, path := range paths {
			if ctx.Err() != nil {
				report.Skipped = append(report.Skipped, domain.SkippedFile{Path: path, Reason: ctx.Err().Error()})
				continue
			}
			docs, err := l.loadFile(ctx, path, format)
			if err != nil {
				logger.Warn("Could not load %s: %v", path, err)
				report.Skipped = append(report.Skipped, domain.SkippedFile{Path: path, Reason: err.Error()})
				continue
			}
			report.Documents = append(report.Documents, docs...)
		}
	}

	logger.Info("Loaded %d docs from %s", len(report.Documents), folder)
	return report
}

// LoadGroup loads folder and wraps the documents in a group with role.
func (l *Loader) LoadGroup(ctx context.Context, role domain.GroupRole, folder string) (domain.DocumentGroup, domain.LoadReport) {
	report := l.LoadFolder(ctx, folder)
	return domain.NewDocumentGroup(role, report.Documents), report
}

// loadFile reads one file and normalises it.
func (l *Loader) loadFile(ctx context.Context, path string, format domain.Format) ([]domain.Document, error) {
	normaliser, ok := l.normalisers[format]
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for %s", domain.ErrUnsupportedType, format)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	docs, err := normaliser.Normalise(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(format.String()), err)
	}
	return docs, nil
}
