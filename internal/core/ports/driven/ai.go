package driven

// AIServiceFactory creates the AI services for one analysis run.
// Services are created per run so the credential is bound at call time.
type AIServiceFactory interface {
	// RequiresCredential reports whether the configured providers need an API key.
	RequiresCredential() bool

	// NewEmbeddingService creates the embedding service using apiKey.
	NewEmbeddingService(apiKey string) (EmbeddingService, error)

	// NewLLMService creates the text-generation service using apiKey.
	NewLLMService(apiKey string) (LLMService, error)
}
