package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const geminiEmbeddingModel = "text-embedding-004"

// GeminiProvider implements Provider over the Gemini embedContent API.
type GeminiProvider struct {
	APIKey string
}

func NewGeminiProvider(apiKey string) Provider {
	return &GeminiProvider{APIKey: apiKey}
}

type geminiEmbeddingRequest struct {
	Model    string `json:"model"`
	TaskType string `json:"taskType,omitempty"`
	Content  struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

type geminiEmbeddingResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (p *GeminiProvider) Generate(text string, taskType string) ([]float32, error) {
	reqBody := geminiEmbeddingRequest{
		Model:    "models/" + geminiEmbeddingModel,
		TaskType: taskType,
	}
	reqBody.Content.Parts = []struct {
		Text string `json:"text"`
	}{{Text: text}}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:embedContent?key=%s",
		geminiEmbeddingModel, p.APIKey,
	)
	resp, err := http.Post(endpoint, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini embedding error: %s", string(bodyBytes))
	}

	var geminiResp geminiEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &geminiResp); err != nil {
		return nil, err
	}

	// Normalized the same way as the Ollama provider so cosine
	// distances stay comparable across providers.
	return normalizeVector(geminiResp.Embedding.Values), nil
}
