package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/normalisers/tabular"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
}

func newTestLoader(fail map[string]bool) *Loader {
	return NewLoader(
		&mockNormaliser{format: domain.FormatTabular, fail: fail},
		&mockNormaliser{format: domain.FormatPDF, fail: fail},
		&mockNormaliser{format: domain.FormatWordProcessor, fail: fail},
	)
}

func TestLoader_LoadFolder_OrderAndFiltering(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.csv":      "b",
		"a.csv":      "a",
		"UPPER.CSV":  "upper",
		"report.pdf": "pdf",
		"memo.docx":  "docx",
		"notes.txt":  "ignored",
		"legacy.doc": "ignored",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	report := newTestLoader(nil).LoadFolder(context.Background(), dir)

	var got []string
	for _, d := range report.Documents {
		got = append(got, d.Content)
	}
	assert.Equal(t, []string{"upper", "a", "b", "pdf", "docx"}, got)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, dir, report.Folder)
}

func TestLoader_LoadFolder_PerFileFailureIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"bad.pdf": "x", "good.csv": "ok"})
	bad := filepath.Join(dir, "bad.pdf")

	report := newTestLoader(map[string]bool{bad: true}).LoadFolder(context.Background(), dir)

	require.Len(t, report.Documents, 1)
	assert.Equal(t, "ok", report.Documents[0].Content)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, bad, report.Skipped[0].Path)
	assert.Contains(t, report.Skipped[0].Reason, "corrupt file")
}

func TestLoader_LoadFolder_MissingNormaliser(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.docx": "x", "b.csv": "y"})

	report := NewLoader(&mockNormaliser{format: domain.FormatTabular}).LoadFolder(context.Background(), dir)

	assert.Len(t, report.Documents, 1)
	require.Len(t, report.Skipped, 1)
	assert.Contains(t, report.Skipped[0].Reason, domain.ErrUnsupportedType.Error())
}

func TestLoader_LoadFolder_MissingFolder(t *testing.T) {
	report := newTestLoader(nil).LoadFolder(context.Background(), filepath.Join(t.TempDir(), "absent"))

	assert.Empty(t, report.Documents)
	assert.Empty(t, report.Skipped)
}

func TestLoader_LoadFolder_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.csv": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newTestLoader(nil).LoadFolder(ctx, dir)

	assert.Empty(t, report.Documents)
	assert.Len(t, report.Skipped, 1)
}

func TestLoader_LoadGroup(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"risks.csv": "Categories: Cost, Schedule"})

	group, report := newTestLoader(nil).LoadGroup(context.Background(), domain.RoleTaxonomy, dir)

	assert.Equal(t, domain.RoleTaxonomy, group.Role)
	assert.Equal(t, "Categories: Cost, Schedule", group.Lead())
	assert.Len(t, report.Documents, 1)
}

func TestLoader_LoadGroup_BlankFirstFileKeepsLead(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.csv": "", "b.csv": "Categories: Cost"})

	group, report := NewLoader(tabular.New()).LoadGroup(context.Background(), domain.RoleTarget, dir)

	require.Len(t, group.Documents, 2)
	assert.Equal(t, filepath.Join(dir, "a.csv"), group.Documents[0].Path)
	assert.False(t, group.HasUsableLead())
	assert.Empty(t, report.Skipped)
}
