// Package domain defines the core business entities for the risk analyzer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: normalised text extracted from one source file (or page)
//   - DocumentGroup: the documents playing one role in an analysis
//   - RiskFinding: one structured risk produced by the generator
//   - AnalysisResult: summary, findings and timeline for a single run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
