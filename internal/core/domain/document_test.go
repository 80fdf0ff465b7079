package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		format   Format
		expected bool
	}{
		{"records.csv", FormatTabular, true},
		{"/data/REPORT.PDF", FormatPDF, true},
		{"contract.docx", FormatWordProcessor, true},
		{"notes.txt", "", false},
		{"legacy.doc", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, ok := FormatForPath(tt.path)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.format, format)
		})
	}
}

func TestSupportedExtensions_Order(t *testing.T) {
	assert.Equal(t, []string{".csv", ".pdf", ".docx"}, SupportedExtensions())
}

func TestDocument_IsBlank(t *testing.T) {
	assert.True(t, Document{}.IsBlank())
	assert.True(t, Document{Content: " \n\t "}.IsBlank())
	assert.False(t, Document{Content: "x"}.IsBlank())
}

func TestDocumentGroup_Lead(t *testing.T) {
	empty := NewDocumentGroup(RoleTarget, nil)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "", empty.Lead())
	assert.False(t, empty.HasUsableLead())

	blank := NewDocumentGroup(RoleTarget, []Document{{Content: "  "}, {Content: "second"}})
	assert.Equal(t, 2, blank.Len())
	assert.False(t, blank.HasUsableLead())

	ok := NewDocumentGroup(RoleTaxonomy, []Document{{Content: "Categories: Cost, Schedule"}})
	assert.True(t, ok.HasUsableLead())
	assert.Equal(t, "Categories: Cost, Schedule", ok.Lead())
}

func TestDocumentGroup_NonBlank(t *testing.T) {
	group := NewDocumentGroup(RoleHistorical, []Document{{Content: " "}, {Content: "a"}, {}, {Content: "b"}})
	docs := group.NonBlank()
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Content)
	assert.Equal(t, "b", docs[1].Content)

	assert.Empty(t, NewDocumentGroup(RoleHistorical, []Document{{Content: "\n"}}).NonBlank())
}

func TestNewDocumentGroup_Copies(t *testing.T) {
	docs := []Document{{Content: "a"}}
	group := NewDocumentGroup(RoleHistorical, docs)
	docs[0].Content = "changed"
	assert.Equal(t, "a", group.Documents[0].Content)
}
