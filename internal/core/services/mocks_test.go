package services

import (
	"context"
	"errors"
	"sync"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by exact text; unknown texts get the fallback.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	fallback   []float32
	embedErr   error
	batchErr   error
	embedCalls int
	batchCalls int
	embedded   []string
}

func newMockEmbedder(vectors map[string][]float32) *mockEmbeddingService {
	return &mockEmbeddingService{vectors: vectors, fallback: []float32{0, 0, 0, 1}}
}

func (m *mockEmbeddingService) lookup(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return m.fallback
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	m.embedded = append(m.embedded, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.lookup(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.lookup(text)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.fallback)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls + m.batchCalls
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response string
	err      error
	calls    int
	prompt   string
	opts     driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.calls++
	m.prompt = prompt
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockAIFactory implements driven.AIServiceFactory for testing.
type mockAIFactory struct {
	embedder    *mockEmbeddingService
	llm         *mockLLMService
	requiresKey bool
	embedErr    error
	llmErr      error
	keys        []string
}

func (m *mockAIFactory) RequiresCredential() bool {
	return m.requiresKey
}

func (m *mockAIFactory) NewEmbeddingService(apiKey string) (driven.EmbeddingService, error) {
	m.keys = append(m.keys, apiKey)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedder, nil
}

func (m *mockAIFactory) NewLLMService(apiKey string) (driven.LLMService, error) {
	m.keys = append(m.keys, apiKey)
	if m.llmErr != nil {
		return nil, m.llmErr
	}
	return m.llm, nil
}

// mockNormaliser implements driven.Normaliser, returning the file bytes as one document.
type mockNormaliser struct {
	format domain.Format
	fail   map[string]bool
}

func (m *mockNormaliser) Format() domain.Format {
	return m.format
}

func (m *mockNormaliser) Normalise(_ context.Context, path string, content []byte) ([]domain.Document, error) {
	if m.fail[path] {
		return nil, errors.New("corrupt file")
	}
	return []domain.Document{{Content: string(content), Path: path, Format: m.format}}, nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	return m.template, m.err
}

func (m *mockPromptStore) Reload() {}

// mockRunStore implements driven.RunStore for testing.
type mockRunStore struct {
	runs    []domain.RunRecord
	saveErr error
	listErr error
}

func (m *mockRunStore) Save(_ context.Context, run domain.RunRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunStore) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunStore) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > len(m.runs) {
		return m.runs, nil
	}
	return m.runs[:limit], nil
}

// doc builds a historical document with the given text.
func doc(text string) domain.Document {
	return domain.Document{Content: text, Path: text + ".csv", Format: domain.FormatTabular}
}

func intPtr(v int) *int {
	return &v
}
