// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Normaliser: Turns one supported file into documents
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Nearest-neighbour search over embeddings
//   - LLMService: Generates the analysis text
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User-editable prompt templates. Without it the embedded default is used.
//   - RunStore: Run ledger. Without it runs are not recorded.
//   - ConfigStore: Persistent settings. Without it defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
