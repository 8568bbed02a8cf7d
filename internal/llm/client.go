// Package llm provides an OpenAI-compatible chat client used to expand
// questions into search keywords and to compose answers from retrieved
// paper contexts.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/econsearch/papers-mcp/internal/config"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxKeywords int
	client      *http.Client
}

// NewClient creates a chat client from settings. The API key is read
// from the configured environment variable; a missing key is not an
// error here because keyword generation has a deterministic fallback.
func NewClient(cfg config.LLMSettings) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	maxKeywords := cfg.MaxKeywords
	if maxKeywords < 1 {
		maxKeywords = 6
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      os.Getenv(cfg.APIKeyEnv),
		model:       model,
		maxKeywords: maxKeywords,
		client:      &http.Client{Timeout: timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chat runs one chat completion and returns the assistant message text.
func (c *Client) chat(ctx context.Context, messages []message, temperature float64, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// GenerateKeywords expands a question into up to n short keyword
// phrases for index search. When the API is unavailable it falls back
// to distinct tokens of the question itself, so search still works
// offline.
func (c *Client) GenerateKeywords(ctx context.Context, question string, n int) []string {
	if n < 1 {
		n = c.maxKeywords
	}
	prompt := fmt.Sprintf(
		"You act as an academic search assistant. Given the user's question, generate "+
			"%d short English keyword phrases suitable for searching finance and economics papers. "+
			"Return one keyword phrase per line. Avoid numbering or extra commentary.", n)

	text, err := c.chat(ctx, []message{
		{Role: "system", Content: "You craft terse English keywords for literature search."},
		{Role: "user", Content: prompt + "\n\nUser question:\n" + question},
	}, 0.1, 200)
	if err != nil {
		return FallbackKeywords(question, n)
	}

	var keywords []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(line, " -\t")
		line = strings.TrimSuffix(line, ".")
		if line != "" {
			keywords = append(keywords, line)
		}
	}
	if len(keywords) == 0 {
		return FallbackKeywords(question, n)
	}
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// FallbackKeywords derives keywords from the question tokens when no
// LLM is reachable. Tokens shorter than three characters are skipped.
func FallbackKeywords(question string, n int) []string {
	if n < 1 {
		n = 1
	}
	var unique []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ReplaceAll(question, ",", " ")) {
		token = strings.ToLower(token)
		if len(token) <= 2 {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		unique = append(unique, token)
		if len(unique) >= n {
			break
		}
	}
	if len(unique) == 0 {
		return []string{question}
	}
	return unique
}

// AnswerWithContext composes an answer to the question from the given
// source contexts, citing sources inline.
func (c *Client) AnswerWithContext(ctx context.Context, question string, contexts []string) (string, error) {
	var blocks []string
	for i, text := range contexts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[Source %d]\n%s", i+1, text))
	}
	if len(blocks) == 0 {
		return "No relevant documents were found for the question.", nil
	}

	return c.chat(ctx, []message{
		{Role: "system", Content: "You are an academic assistant. Answer with concise, well-structured paragraphs."},
		{Role: "user", Content: "Use only the information in the sources to answer the user's question. " +
			"Cite sources inline using [Source X].\n\n" +
			"Sources:\n" + strings.Join(blocks, "\n\n") + "\n\nQuestion:\n" + question},
	}, 0.3, 800)
}

// SummarizeDocument produces a concise structured summary of a paper.
func (c *Client) SummarizeDocument(ctx context.Context, title, text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return "No content available to summarize.", nil
	}
	return c.chat(ctx, []message{
		{Role: "system", Content: "You summarize academic papers clearly and accurately."},
		{Role: "user", Content: "You are an expert academic summarizer. Provide a concise, structured summary for the paper below. " +
			"Highlight the research question, methodology, key findings, and any notable limitations. " +
			"Use short paragraphs and bullet points when appropriate.\n\n" +
			"Title: " + title + "\n\nFull Text:\n" + cleaned},
	}, 0.35, 700)
}
