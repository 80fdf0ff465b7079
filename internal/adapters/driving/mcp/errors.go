// Package mcp provides an MCP (Model Context Protocol) server adapter for riskanalyzer.
// It lets AI assistants run procurement risk analyses and read their reports.
package mcp

import "errors"

// ErrMissingAnalyzer is returned when the folder analyzer is not provided.
var ErrMissingAnalyzer = errors.New("mcp: analyzer is required")

// ErrMissingReports is returned when the report reader is not provided.
var ErrMissingReports = errors.New("mcp: report reader is required")
