// Package normalisers holds the driven.Normaliser implementations, one
// subpackage per supported source format:
//
//   - tabular: CSV exports, one document per file
//   - pdf: one document per page with text
//   - docx: one document per file
//
// Each normaliser is handed the raw bytes of a file by the loader and never
// touches the filesystem for input.
package normalisers
