// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The analysis pipeline is, leaf-first:
//
//	Loader -> EmbeddingIndex -> Retriever -> PromptBuilder
//	       -> LLMService -> ResponseParser -> scoring
//
// AnalysisService drives the whole pipeline for one request.
package services
