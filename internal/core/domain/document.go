package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies how a source file was decoded.
type Format string

// Supported source formats.
const (
	// FormatTabular is delimited tabular text (CSV).
	FormatTabular Format = "tabular"

	// FormatPDF is a PDF document.
	FormatPDF Format = "pdf"

	// FormatWordProcessor is an Office Open XML word-processor document.
	FormatWordProcessor Format = "word_processor"
)

// supportedExtensions maps lower-case file extensions to formats.
// The slice order is the enumeration order used by the loader.
var supportedExtensions = []struct {
	ext    string
	format Format
}{
	{".csv", FormatTabular},
	{".pdf", FormatPDF},
	{".docx", FormatWordProcessor},
}

// SupportedExtensions returns the recognised extensions in load order.
func SupportedExtensions() []string {
	exts := make([]string, len(supportedExtensions))
	for i, e := range supportedExtensions {
		exts[i] = e.ext
	}
	return exts
}

// FormatForPath returns the format for a file path based on its extension.
// The second return value is false when the extension is not supported.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range supportedExtensions {
		if e.ext == ext {
			return e.format, true
		}
	}
	return "", false
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// Document is the normalised text of one source file, or one page of it.
// Documents are values: once produced by a normaliser they are not modified.
type Document struct {
	// Content is the extracted text.
	Content string `json:"content"`

	// Path is the file the text came from.
	Path string `json:"path"`

	// Format is the source format.
	Format Format `json:"format"`

	// Page is the 1-based page number for paginated formats, 0 otherwise.
	Page int `json:"page,omitempty"`
}

// IsBlank reports whether the document carries no non-whitespace text.
func (d Document) IsBlank() bool {
	return strings.TrimSpace(d.Content) == ""
}

// GroupRole is the semantic role of a document group in an analysis.
type GroupRole string

// Document group roles.
const (
	// RoleHistorical holds past records indexed for retrieval.
	RoleHistorical GroupRole = "historical"

	// RoleTaxonomy holds the document listing risk categories.
	RoleTaxonomy GroupRole = "taxonomy"

	// RoleTarget holds the procurement document under analysis.
	RoleTarget GroupRole = "target"
)

// DocumentGroup is an ordered sequence of documents sharing one role.
type DocumentGroup struct {
	Role      GroupRole
	Documents []Document
}

// NewDocumentGroup creates a group holding a copy of docs.
func NewDocumentGroup(role GroupRole, docs []Document) DocumentGroup {
	copied := make([]Document, len(docs))
	copy(copied, docs)
	return DocumentGroup{Role: role, Documents: copied}
}

// Len returns the number of documents in the group.
func (g DocumentGroup) Len() int {
	return len(g.Documents)
}

// IsEmpty reports whether the group has no documents.
func (g DocumentGroup) IsEmpty() bool {
	return len(g.Documents) == 0
}

// Lead returns the first document's text, or "" for an empty group.
// Taxonomy and target content is taken from the lead document.
func (g DocumentGroup) Lead() string {
	if len(g.Documents) == 0 {
		return ""
	}
	return g.Documents[0].Content
}

// NonBlank returns the documents carrying non-blank text, in order.
func (g DocumentGroup) NonBlank() []Document {
	docs := make([]Document, 0, len(g.Documents))
	for _, d := range g.Documents {
		if !d.IsBlank() {
			docs = append(docs, d)
		}
	}
	return docs
}

// HasUsableLead reports whether the group is non-empty and its first
// document carries non-blank text.
func (g DocumentGroup) HasUsableLead() bool {
	return len(g.Documents) > 0 && !g.Documents[0].IsBlank()
}

// SkippedFile records a file the loader could not turn into documents.
type SkippedFile struct {
	Path   string
	Reason string
}

// LoadReport is the outcome of loading one folder.
type LoadReport struct {
	Folder    string
	Documents []Document
	Skipped   []SkippedFile
}
