// Package memory provides in-memory implementations of driven ports.
//
// VectorIndex is the per-run similarity index of every analysis.
// RunStore holds the run ledger when the SQLite database cannot be opened.
// ConfigStore is a lightweight stand-in used by tests.
package memory
