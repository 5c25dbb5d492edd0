package embedding

// Provider generates a unit-normalized embedding vector for a text.
// taskType distinguishes document vs query embeddings for providers
// that care (Gemini does, Ollama ignores it).
type Provider interface {
	Generate(text string, taskType string) ([]float32, error)
}

// Task type hints passed to providers.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)
